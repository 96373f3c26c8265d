package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/agent-king/bibliography/internal/providers"
)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "gpt-4o"

	defaultBaseURL = "https://api.openai.com/v1"
)

// OpenAI is a provider for OpenAI
type OpenAI struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// New returns a new OpenAI provider. An empty apiKey falls back to
// OPENAI_API_KEY at call time.
func New(apiKey string) *OpenAI {
	return &OpenAI{APIKey: apiKey, BaseURL: defaultBaseURL, HTTPClient: &http.Client{}}
}

// ExtractText extracts text from the given prompt using OpenAI. A schema is
// sent as a strict json_schema response format.
func (o *OpenAI) ExtractText(ctx context.Context, config providers.Config) (string, error) {
	apiKey := o.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	url := o.BaseURL + "/chat/completions"

	model := config.Model
	if model == "" {
		model = DefaultModel
	}

	body := map[string]interface{}{
		"model": model,
		"messages": []map[string]string{
			{
				"role":    "user",
				"content": config.Prompt,
			},
		},
		"temperature": config.Temperature,
	}
	if config.Schema != nil {
		schema := config.Schema.JSON()
		// Structured outputs require an object at the root.
		if config.Schema.Type != providers.TypeObject {
			schema = map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{"items": schema},
				"required":   []string{"items"},
			}
		}
		body["response_format"] = map[string]interface{}{
			"type": "json_schema",
			"json_schema": map[string]interface{}{
				"name":   "response",
				"schema": schema,
			},
		}
	}

	requestBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := o.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", &providers.StatusError{Provider: "openai", Code: resp.StatusCode, Body: string(body)}
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from OpenAI")
	}

	content := response.Choices[0].Message.Content
	if config.Schema != nil && config.Schema.Type != providers.TypeObject {
		return unwrapItems(content)
	}
	return content, nil
}

// unwrapItems undoes the object wrapper added around non-object schemas.
func unwrapItems(content string) (string, error) {
	var wrapper struct {
		Items json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal([]byte(content), &wrapper); err != nil {
		return "", fmt.Errorf("failed to decode wrapped response: %w", err)
	}
	return string(wrapper.Items), nil
}
