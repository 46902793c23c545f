package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/seu-repo/voice-concierge/internal/domain"
)

// PredefinedScenes is the built-in catalog.
func PredefinedScenes() []domain.Scene {
	return []domain.Scene{
		{
			ID:          "sleep",
			Name:        "Sleep Mode",
			Description: "Turn off all lights for the night.",
			Devices: []domain.DeviceAction{
				{DeviceID: "t_11_l1", Action: "onoff", Value: false},
				{DeviceID: "t_10_l2", Action: "onoff", Value: false},
			},
		},
		{
			ID:          "relax",
			Name:        "Relax Mode",
			Description: "Room light on, bathroom light off.",
			Devices: []domain.DeviceAction{
				{DeviceID: "t_11_l1", Action: "onoff", Value: true},
				{DeviceID: "t_10_l2", Action: "onoff", Value: false},
			},
		},
		{
			ID:          "wakeup",
			Name:        "Wake-up Mode",
			Description: "Turn on the room and bathroom lights.",
			Devices: []domain.DeviceAction{
				{DeviceID: "t_11_l1", Action: "onoff", Value: true},
				{DeviceID: "t_10_l2", Action: "onoff", Value: true},
			},
		},
		{
			ID:          "work",
			Name:        "Work Mode",
			Description: "Focused task lighting at the desk.",
			Devices: []domain.DeviceAction{
				{DeviceID: "desk_light", Action: "onoff", Value: true},
			},
		},
		{
			ID:          "welcome",
			Name:        "Welcome Mode",
			Description: "Greet an arriving guest: lights on, then curtains open.",
			Devices: []domain.DeviceAction{
				{DeviceID: "t_11_l1", Action: "onoff", Value: true},
				{DeviceID: "t_10_l2", Action: "onoff", Value: true, DelayMS: 500},
				{DeviceID: "room_curtains", Action: "position", Value: 100, DelayMS: 500},
			},
		},
		{
			ID:          "away",
			Name:        "Away Mode",
			Description: "Guest left the room: lights and air conditioner off.",
			Devices: []domain.DeviceAction{
				{DeviceID: "t_11_l1", Action: "onoff", Value: false},
				{DeviceID: "t_10_l2", Action: "onoff", Value: false},
				{DeviceID: "room_ac", Action: "onoff", Value: false},
			},
		},
	}
}

const catalogSchemaURL = "https://github.com/seu-repo/voice-concierge/schemas/scene-catalog.json"

const catalogSchema = `{
  "type": "object",
  "required": ["scenes"],
  "properties": {
    "scenes": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "name", "devices"],
        "properties": {
          "id": {"type": "string", "pattern": "^[a-z0-9_-]+$"},
          "name": {"type": "string", "minLength": 1},
          "description": {"type": "string"},
          "devices": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["deviceId", "action", "value"],
              "additionalProperties": false,
              "properties": {
                "deviceId": {"type": "string", "minLength": 1},
                "action": {"type": "string", "minLength": 1},
                "value": {},
                "delay": {"type": "integer", "minimum": 0}
              }
            }
          }
        }
      }
    }
  }
}`

type catalogFile struct {
	Scenes []domain.Scene `json:"scenes"`
}

// LoadCatalog reads a scene catalog from a .json, .yaml or .yml file.
func LoadCatalog(path string) ([]domain.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene catalog: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	return ParseCatalog(data, ext == ".yaml" || ext == ".yml")
}

// ParseCatalog validates and decodes catalog content.
func ParseCatalog(data []byte, isYAML bool) ([]domain.Scene, error) {
	if isYAML {
		converted, err := yaml.YAMLToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("parse scene catalog yaml: %w", err)
		}
		data = converted
	}

	schema, err := compileCatalogSchema()
	if err != nil {
		return nil, err
	}
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse scene catalog: %w", err)
	}
	if err := schema.Validate(payload); err != nil {
		return nil, fmt.Errorf("invalid scene catalog: %w", err)
	}

	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode scene catalog: %w", err)
	}

	seen := make(map[string]bool, len(file.Scenes))
	for _, s := range file.Scenes {
		if seen[s.ID] {
			return nil, fmt.Errorf("invalid scene catalog: duplicate scene id %q", s.ID)
		}
		seen[s.ID] = true
	}
	return file.Scenes, nil
}

func compileCatalogSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(catalogSchemaURL, strings.NewReader(catalogSchema)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := compiler.Compile(catalogSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}
