package providers

import (
	"reflect"
	"testing"
)

func TestSchemaJSON(t *testing.T) {
	schema := &Schema{
		Type: TypeArray,
		Items: &Schema{
			Type: TypeObject,
			Properties: map[string]*Schema{
				"Titre_VO": {Type: TypeString},
				"Category": {Type: TypeString, Enum: []string{"Romans"}},
			},
			Required: []string{"Titre_VO"},
		},
	}

	expected := map[string]interface{}{
		"type": "array",
		"items": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"Titre_VO": map[string]interface{}{"type": "string"},
				"Category": map[string]interface{}{"type": "string", "enum": []string{"Romans"}},
			},
			"required": []string{"Titre_VO"},
		},
	}

	if got := schema.JSON(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestSchemaJSONNil(t *testing.T) {
	var schema *Schema
	if schema.JSON() != nil {
		t.Error("Expected nil schema to produce nil")
	}
}

func TestStatusError(t *testing.T) {
	err := &StatusError{Provider: "ollama", Code: 503, Body: "busy"}
	if err.Error() != "ollama returned status 503: busy" {
		t.Errorf("Unexpected message: %s", err.Error())
	}
}
