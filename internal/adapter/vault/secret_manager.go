package vault

import (
	"fmt"

	"github.com/hashicorp/vault/api"
)

type SecretManager struct {
	client *api.Client
}

func NewSecretManager(address, token string) (*SecretManager, error) {
	config := api.DefaultConfig()
	config.Address = address

	client, err := api.NewClient(config)
	if err != nil {
		return nil, err
	}

	client.SetToken(token)

	return &SecretManager{client: client}, nil
}

// GatewayCredentials reads the ETHEOS login from a KV v2 secret at path.
func (sm *SecretManager) GatewayCredentials(path string) (username, password string, err error) {
	secret, err := sm.client.Logical().Read(path)
	if err != nil {
		return "", "", err
	}
	if secret == nil {
		return "", "", fmt.Errorf("vault: no secret at %s", path)
	}
	return parseGatewaySecret(secret.Data)
}

func parseGatewaySecret(raw map[string]interface{}) (string, string, error) {
	data, ok := raw["data"].(map[string]interface{})
	if !ok {
		return "", "", fmt.Errorf("vault: secret has no data section")
	}
	username, _ := data["username"].(string)
	password, _ := data["password"].(string)
	if username == "" || password == "" {
		return "", "", fmt.Errorf("vault: gateway secret needs username and password")
	}
	return username, password, nil
}
