package llm

import (
	"context"
	"encoding/json"
	"time"
)

// SchemaType is the JSON type of a schema node.
type SchemaType string

const (
	TypeObject SchemaType = "object"
	TypeString SchemaType = "string"
)

// Schema describes the structured output a request expects, independent of provider.
type Schema struct {
	Type        SchemaType         `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	// Order keeps property order stable when the schema is printed into a prompt.
	Order    []string `json:"-"`
	Required []string `json:"required,omitempty"`
}

// MarshalJSON prints properties in Order so prompts are deterministic.
func (s *Schema) MarshalJSON() ([]byte, error) {
	type plain Schema
	if len(s.Order) == 0 || len(s.Properties) == 0 {
		return json.Marshal((*plain)(s))
	}

	props := make([]byte, 0, 256)
	props = append(props, '{')
	for _, name := range s.Order {
		prop, ok := s.Properties[name]
		if !ok {
			continue
		}
		if len(props) > 1 {
			props = append(props, ',')
		}
		key, _ := json.Marshal(name)
		val, err := json.Marshal(prop)
		if err != nil {
			return nil, err
		}
		props = append(props, key...)
		props = append(props, ':')
		props = append(props, val...)
	}
	props = append(props, '}')

	return json.Marshal(struct {
		Type        SchemaType      `json:"type"`
		Description string          `json:"description,omitempty"`
		Properties  json.RawMessage `json:"properties"`
		Required    []string        `json:"required,omitempty"`
	}{s.Type, s.Description, props, s.Required})
}

// Request is one prompt with an optional structured-output schema.
type Request struct {
	Prompt string
	Schema *Schema
}

// TokenUsage tracks the tokens consumed by a request.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Model            string
}

// AgentMeta holds operational metadata for one backend call.
type AgentMeta struct {
	AgentName string
	Usage     TokenUsage
	Latency   time.Duration
}

// ContentResponse contains the generated text and metadata like token usage.
type ContentResponse struct {
	Content string
	Usage   TokenUsage
}

// TextGenerator is an interface for generating text from a prompt.
type TextGenerator interface {
	GenerateContent(ctx context.Context, req Request) (ContentResponse, error)
}

// Closer is an interface for closing resources.
type Closer interface {
	Close() error
}
