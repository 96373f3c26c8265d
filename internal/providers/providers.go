package providers

import (
	"context"
	"fmt"
)

// Config represents the configuration for an LLM provider call
type Config struct {
	Model       string
	Temperature float64
	Prompt      string
	// Schema, when set, asks the provider for JSON matching it.
	Schema *Schema
}

// Provider defines the interface for an LLM provider
type Provider interface {
	ExtractText(ctx context.Context, config Config) (string, error)
}

// Type is a JSON schema type name.
type Type string

const (
	TypeString  Type = "string"
	TypeInteger Type = "integer"
	TypeBoolean Type = "boolean"
	TypeObject  Type = "object"
	TypeArray   Type = "array"
)

// Schema is the provider-neutral subset of JSON schema used for structured
// responses. Each provider translates it to its own representation.
type Schema struct {
	Type       Type
	Properties map[string]*Schema
	Items      *Schema
	Required   []string
	Enum       []string
}

// JSON returns the schema as a plain JSON schema document.
func (s *Schema) JSON() map[string]interface{} {
	if s == nil {
		return nil
	}
	out := map[string]interface{}{"type": string(s.Type)}
	if len(s.Properties) > 0 {
		props := make(map[string]interface{}, len(s.Properties))
		for name, prop := range s.Properties {
			props[name] = prop.JSON()
		}
		out["properties"] = props
	}
	if s.Items != nil {
		out["items"] = s.Items.JSON()
	}
	if len(s.Required) > 0 {
		out["required"] = s.Required
	}
	if len(s.Enum) > 0 {
		out["enum"] = s.Enum
	}
	return out
}

// StatusError is returned when a provider answers with a non-200 status.
type StatusError struct {
	Provider string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.Code, e.Body)
}
