package chef

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cozinha-magica/internal/llm"
	"cozinha-magica/internal/recipe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type mockTextGenerator struct {
	content  string
	err      error
	calls    int
	requests []llm.Request
}

func (m *mockTextGenerator) GenerateContent(_ context.Context, req llm.Request) (llm.ContentResponse, error) {
	m.calls++
	m.requests = append(m.requests, req)
	if m.err != nil {
		return llm.ContentResponse{}, m.err
	}
	return llm.ContentResponse{
		Content: m.content,
		Usage:   llm.TokenUsage{PromptTokens: 12, CompletionTokens: 30, TotalTokens: 42, Model: "mock"},
	}, nil
}

func (m *mockTextGenerator) lastPrompt() string {
	if len(m.requests) == 0 {
		return ""
	}
	return m.requests[len(m.requests)-1].Prompt
}

const omelette = `{"title":"Omelete Cremosa","description":"Rápida.","ingredients":"Ovos\nQueijo",` +
	`"preparation":"Bata e frite.","prepTime":"10 min","difficulty":"Fácil","id":"x","isAiGenerated":false}`

func draft() recipe.Patch {
	return recipe.Patch{
		Title:       recipe.String("bolo da vó"),
		Ingredients: recipe.String("farinha\nacucar\nnozes"),
		Preparation: recipe.String("mistura tudo e assa"),
		Notes:       recipe.String("forno quente"),
	}
}

func TestGenerate(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		gen := &mockTextGenerator{content: omelette}
		svc := NewService(gen, nil, nil)

		res, err := svc.Generate(context.Background(), []string{"Ovos", " Queijo ", "Ovos"})
		require.NoError(t, err)

		assert.Equal(t, 1, gen.calls)
		assert.Equal(t, "Omelete Cremosa", res.Patch.Get(recipe.FieldTitle))
		assert.Equal(t, "10 min", res.Patch.Get(recipe.FieldPrepTime))
		assert.Nil(t, res.Patch.ID, "identity fields must be dropped")
		assert.Nil(t, res.Patch.IsAIGenerated)
		assert.Equal(t, AgentGenerator, res.Meta.AgentName)
		assert.Equal(t, 42, res.Meta.Usage.TotalTokens)
		assert.Same(t, RecipeSchema, gen.requests[0].Schema)
	})

	t.Run("PromptListsOnlySelectedIngredients", func(t *testing.T) {
		gen := &mockTextGenerator{content: omelette}
		_, err := NewService(gen, nil, nil).Generate(context.Background(), []string{"Ovos", "Queijo"})
		require.NoError(t, err)

		prompt := gen.lastPrompt()
		assert.Contains(t, prompt, "APENAS os seguintes ingredientes: Ovos, Queijo.")
		assert.Contains(t, prompt, "Não adicione NENHUM outro ingrediente")
		assert.NotContains(t, prompt, "Tomate")
	})

	t.Run("EmptySelection", func(t *testing.T) {
		gen := &mockTextGenerator{content: omelette}
		_, err := NewService(gen, nil, nil).Generate(context.Background(), []string{" ", ""})

		var genErr *GenerationError
		require.ErrorAs(t, err, &genErr)
		assert.ErrorIs(t, err, ErrNoIngredients)
		assert.Equal(t, "Selecione pelo menos um ingrediente.", err.Error())
		assert.Equal(t, 0, gen.calls, "no backend call for an empty selection")
	})

	t.Run("BackendFailure", func(t *testing.T) {
		gen := &mockTextGenerator{err: errors.New("quota exceeded")}
		_, err := NewService(gen, nil, nil).Generate(context.Background(), []string{"Ovos"})

		var genErr *GenerationError
		require.ErrorAs(t, err, &genErr)
		assert.Equal(t, "Não foi possível gerar a receita. Tente novamente.", err.Error())
		assert.EqualError(t, errors.Unwrap(err), "quota exceeded")
	})

	t.Run("MalformedResponse", func(t *testing.T) {
		gen := &mockTextGenerator{content: "not json"}
		_, err := NewService(gen, nil, nil).Generate(context.Background(), []string{"Ovos"})

		var genErr *GenerationError
		assert.ErrorAs(t, err, &genErr)
	})
}

func TestRewrite(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		gen := &mockTextGenerator{content: "```json\n" + omelette + "\n```"}
		res, err := NewService(gen, nil, nil).Rewrite(context.Background(), draft())
		require.NoError(t, err)

		assert.Equal(t, "Omelete Cremosa", res.Patch.Get(recipe.FieldTitle))
		assert.Equal(t, AgentRewriter, res.Meta.AgentName)

		prompt := gen.lastPrompt()
		assert.Contains(t, prompt, "Título: bolo da vó")
		assert.Contains(t, prompt, "Modo de Preparo: mistura tudo e assa")
		assert.Contains(t, prompt, "Observações: forno quente")
	})

	t.Run("Failure", func(t *testing.T) {
		gen := &mockTextGenerator{err: errors.New("timeout")}
		_, err := NewService(gen, nil, nil).Rewrite(context.Background(), draft())

		var rwErr *RewriteError
		require.ErrorAs(t, err, &rwErr)
		assert.Equal(t, "Não foi possível reescrever a receita. Tente novamente.", err.Error())
	})
}

func TestErase(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		gen := &mockTextGenerator{content: `{"title":"Bolo da Vó","ingredients":"farinha\nacucar","preparation":"Asse."}`}
		res, err := NewService(gen, nil, nil).Erase(context.Background(), draft(), "  nozes ")
		require.NoError(t, err)

		assert.Equal(t, "farinha\nacucar", res.Patch.Get(recipe.FieldIngredients))
		assert.Nil(t, res.Patch.Notes, "absent fields stay absent")
		assert.Contains(t, gen.lastPrompt(), `qualquer menção de "nozes"`)
		assert.Equal(t, AgentEraser, res.Meta.AgentName)
	})

	t.Run("BlankTerm", func(t *testing.T) {
		gen := &mockTextGenerator{content: omelette}
		_, err := NewService(gen, nil, nil).Erase(context.Background(), draft(), "   ")

		var eErr *EraseError
		require.ErrorAs(t, err, &eErr)
		assert.ErrorIs(t, err, ErrEmptyTerm)
		assert.Equal(t, 0, gen.calls)
	})

	t.Run("Failure", func(t *testing.T) {
		gen := &mockTextGenerator{err: errors.New("boom")}
		_, err := NewService(gen, nil, nil).Erase(context.Background(), draft(), "nozes")
		assert.EqualError(t, err, "A Borracha Mágica falhou. Tente novamente.")
	})
}

func TestImport(t *testing.T) {
	page := `<html><body>
		<nav>Menu principal</nav>
		<script>trackEverything()</script>
		<h1>Brigadeiro</h1>
		<ul>
			<li>Leite condensado</li>
			<li>Chocolate</li>
		</ul>
		<div class="ads">Compre agora</div>
		<footer>Rodapé</footer>
	</body></html>`

	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(page))
		}))
		defer server.Close()

		gen := &mockTextGenerator{content: `{"title":"Brigadeiro","ingredients":"Leite condensado\nChocolate","preparation":"Mexa."}`}
		res, err := NewService(gen, server.Client(), nil).Import(context.Background(), server.URL+"/brigadeiro")
		require.NoError(t, err)

		assert.Equal(t, "Brigadeiro", res.Patch.Get(recipe.FieldTitle))
		assert.Equal(t, AgentImporter, res.Meta.AgentName)

		prompt := gen.lastPrompt()
		assert.Contains(t, prompt, "Brigadeiro Leite condensado Chocolate")
		assert.Contains(t, prompt, server.URL+"/brigadeiro")
		for _, noise := range []string{"Menu principal", "trackEverything", "Compre agora", "Rodapé"} {
			assert.NotContains(t, prompt, noise)
		}
	})

	t.Run("InvalidURL", func(t *testing.T) {
		gen := &mockTextGenerator{}
		for _, u := range []string{"", "   ", "ftp://example.com/x", "not a url", "http://"} {
			_, err := NewService(gen, nil, nil).Import(context.Background(), u)
			assert.ErrorIs(t, err, ErrInvalidURL, u)
		}
		assert.Equal(t, 0, gen.calls)
	})

	t.Run("FetchFailure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		gen := &mockTextGenerator{}
		_, err := NewService(gen, server.Client(), nil).Import(context.Background(), server.URL)

		var iErr *ImportError
		require.ErrorAs(t, err, &iErr)
		assert.Equal(t, "Não foi possível importar a receita. Tente novamente.", err.Error())
		assert.Equal(t, 0, gen.calls)
	})
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("```\n{\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence(`{"a":1}`))
}

func TestTruncateUTF8(t *testing.T) {
	s := strings.Repeat("ã", 10)
	got := truncateUTF8(s, 5)
	assert.Equal(t, "ãã", got)
}
