package vault

import "testing"

func TestParseGatewaySecret(t *testing.T) {
	user, pass, err := parseGatewaySecret(map[string]interface{}{
		"data": map[string]interface{}{"username": "etheos", "password": "pw"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user != "etheos" || pass != "pw" {
		t.Errorf("unexpected credentials %q/%q", user, pass)
	}
}

func TestParseGatewaySecret_Incomplete(t *testing.T) {
	cases := []map[string]interface{}{
		{},
		{"data": "flat"},
		{"data": map[string]interface{}{"username": "etheos"}},
	}
	for i, raw := range cases {
		if _, _, err := parseGatewaySecret(raw); err == nil {
			t.Errorf("case %d: expected error", i)
		}
	}
}
