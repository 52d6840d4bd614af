package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cozinha-magica/internal/config"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() *Schema {
	return &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"title":       {Type: TypeString, Description: "Título"},
			"ingredients": {Type: TypeString},
		},
		Order:    []string{"title", "ingredients"},
		Required: []string{"title"},
	}
}

func TestSchemaMarshalKeepsOrder(t *testing.T) {
	data, err := json.Marshal(testSchema())
	require.NoError(t, err)

	s := string(data)
	assert.Less(t, strings.Index(s, `"title"`), strings.Index(s, `"ingredients"`))
	assert.Contains(t, s, `"required":["title"]`)
}

func TestToGenaiSchema(t *testing.T) {
	got := toGenaiSchema(testSchema())

	assert.Equal(t, genai.TypeObject, got.Type)
	assert.Equal(t, []string{"title"}, got.Required)
	require.Contains(t, got.Properties, "title")
	assert.Equal(t, genai.TypeString, got.Properties["title"].Type)
	assert.Equal(t, "Título", got.Properties["title"].Description)
	assert.Nil(t, toGenaiSchema(nil))
}

func newTestGroq(url string) *groqClient {
	c := NewGroqClient(&config.Config{GroqAPIKey: "secret", GroqModel: "test-model"}, 0.2).(*groqClient)
	c.endpoint = url
	return c
}

func TestGroqGenerateContent(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var got groqRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.Write([]byte(`{"choices":[{"message":{"content":"{\"title\":\"Bolo\"}"}}],` +
				`"usage":{"prompt_tokens":10,"completion_tokens":5,"total_tokens":15}}`))
		}))
		defer server.Close()

		resp, err := newTestGroq(server.URL).GenerateContent(context.Background(), Request{Prompt: "faça um bolo", Schema: testSchema()})
		require.NoError(t, err)

		assert.Equal(t, `{"title":"Bolo"}`, resp.Content)
		assert.Equal(t, TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15, Model: "test-model"}, resp.Usage)
		assert.Equal(t, "test-model", got.Model)
		assert.Equal(t, "json_object", got.ResponseFormat["type"])
		require.Len(t, got.Messages, 1)
		assert.True(t, strings.HasPrefix(got.Messages[0].Content, "faça um bolo"))
		assert.Contains(t, got.Messages[0].Content, `"ingredients"`)
	})

	t.Run("PlainPrompt", func(t *testing.T) {
		var got groqRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.Write([]byte(`{"choices":[{"message":{"content":"oi"}}]}`))
		}))
		defer server.Close()

		_, err := newTestGroq(server.URL).GenerateContent(context.Background(), Request{Prompt: "oi"})
		require.NoError(t, err)
		assert.Nil(t, got.ResponseFormat)
		assert.Equal(t, "oi", got.Messages[0].Content)
	})

	t.Run("APIError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		defer server.Close()

		_, err := newTestGroq(server.URL).GenerateContent(context.Background(), Request{Prompt: "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status=429")
	})

	t.Run("NoChoices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices":[]}`))
		}))
		defer server.Close()

		_, err := newTestGroq(server.URL).GenerateContent(context.Background(), Request{Prompt: "x"})
		assert.EqualError(t, err, "no content generated")
	})
}

func TestNewClientRejectsUnknownProvider(t *testing.T) {
	_, err := NewClient(context.Background(), &config.Config{AIProvider: "openai"})
	assert.Error(t, err)

	c, err := NewClient(context.Background(), &config.Config{AIProvider: config.ProviderGroq, GroqAPIKey: "k"})
	require.NoError(t, err)
	assert.NoError(t, c.Close())
}
