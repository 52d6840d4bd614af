// Package chef turns ingredient selections, drafts and web pages into recipe
// content with a text generation backend.
package chef

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"text/template"
	"time"

	"cozinha-magica/internal/llm"
	"cozinha-magica/internal/recipe"

	"go.uber.org/zap"
)

//go:embed prompts/*.md
var promptFS embed.FS

var prompts = template.Must(
	template.New("prompts").
		Funcs(template.FuncMap{"join": strings.Join}).
		ParseFS(promptFS, "prompts/*.md"),
)

// Agent names reported with token usage.
const (
	AgentGenerator = "Generator"
	AgentRewriter  = "Rewriter"
	AgentEraser    = "Eraser"
	AgentImporter  = "Importer"
)

// RecipeSchema is the structured output every operation asks for.
var RecipeSchema = &llm.Schema{
	Type: llm.TypeObject,
	Properties: map[string]*llm.Schema{
		"title":            {Type: llm.TypeString, Description: "Título da receita"},
		"description":      {Type: llm.TypeString, Description: "Uma breve descrição da receita."},
		"ingredients":      {Type: llm.TypeString, Description: "Lista de ingredientes, formatada com um item por linha."},
		"preparation":      {Type: llm.TypeString, Description: "Passo a passo do modo de preparo."},
		"prepTime":         {Type: llm.TypeString, Description: "Tempo estimado de preparo."},
		"difficulty":       {Type: llm.TypeString, Description: "Nível de dificuldade (e.g., Fácil, Médio, Difícil)."},
		"extraSuggestions": {Type: llm.TypeString, Description: "Sugestões extras ou dicas."},
		"notes":            {Type: llm.TypeString, Description: "Observações úteis sobre a receita."},
	},
	Order:    []string{"title", "description", "ingredients", "preparation", "prepTime", "difficulty", "extraSuggestions", "notes"},
	Required: []string{"title", "ingredients", "preparation"},
}

// Result is the content a backend produced plus call metadata.
type Result struct {
	Patch recipe.Patch
	Meta  llm.AgentMeta
}

// Service is the AI content service. It keeps no state between calls.
type Service struct {
	textGen    llm.TextGenerator
	httpClient *http.Client
	logger     *zap.Logger
}

// NewService creates a Service. A nil httpClient gets a default with a 15s timeout.
func NewService(textGen llm.TextGenerator, httpClient *http.Client, logger *zap.Logger) *Service {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{textGen: textGen, httpClient: httpClient, logger: logger}
}

type draftData struct {
	Title       string
	Ingredients string
	Preparation string
	Notes       string
	Term        string
}

func newDraftData(p recipe.Patch) draftData {
	return draftData{
		Title:       p.Get(recipe.FieldTitle),
		Ingredients: p.Get(recipe.FieldIngredients),
		Preparation: p.Get(recipe.FieldPreparation),
		Notes:       p.Get(recipe.FieldNotes),
	}
}

// Generate creates a recipe that uses only the given ingredients.
func (s *Service) Generate(ctx context.Context, ingredients []string) (Result, error) {
	selected := normalizeIngredients(ingredients)
	if len(selected) == 0 {
		return Result{}, &GenerationError{Err: ErrNoIngredients}
	}

	prompt, err := renderPrompt("generate.md", struct{ Ingredients []string }{selected})
	if err != nil {
		return Result{}, &GenerationError{Err: err}
	}

	res, err := s.run(ctx, AgentGenerator, prompt)
	if err != nil {
		s.logger.Error("Error generating recipe with AI", zap.Strings("ingredients", selected), zap.Error(err))
		return Result{}, &GenerationError{Err: err}
	}
	return res, nil
}

// Rewrite asks for a clearer, more professional version of the draft.
func (s *Service) Rewrite(ctx context.Context, draft recipe.Patch) (Result, error) {
	prompt, err := renderPrompt("rewrite.md", newDraftData(draft))
	if err != nil {
		return Result{}, &RewriteError{Err: err}
	}

	res, err := s.run(ctx, AgentRewriter, prompt)
	if err != nil {
		s.logger.Error("Error rewriting recipe with AI", zap.Error(err))
		return Result{}, &RewriteError{Err: err}
	}
	return res, nil
}

// Erase removes every mention of term from the draft.
func (s *Service) Erase(ctx context.Context, draft recipe.Patch, term string) (Result, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return Result{}, &EraseError{Err: ErrEmptyTerm}
	}

	data := newDraftData(draft)
	data.Term = term
	prompt, err := renderPrompt("erase.md", data)
	if err != nil {
		return Result{}, &EraseError{Err: err}
	}

	res, err := s.run(ctx, AgentEraser, prompt)
	if err != nil {
		s.logger.Error("Error with Magic Eraser", zap.String("term", term), zap.Error(err))
		return Result{}, &EraseError{Err: err}
	}
	return res, nil
}

func (s *Service) run(ctx context.Context, agent, prompt string) (Result, error) {
	start := time.Now()
	resp, err := s.textGen.GenerateContent(ctx, llm.Request{Prompt: prompt, Schema: RecipeSchema})
	if err != nil {
		return Result{}, err
	}

	meta := llm.AgentMeta{AgentName: agent, Usage: resp.Usage, Latency: time.Since(start)}
	patch, err := parsePatch(resp.Content)
	if err != nil {
		return Result{Meta: meta}, err
	}

	s.logger.Debug("Recipe content generated",
		zap.String("agent", agent),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
		zap.Duration("latency", meta.Latency),
	)
	return Result{Patch: patch, Meta: meta}, nil
}

func renderPrompt(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := prompts.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render prompt %s: %w", name, err)
	}
	return buf.String(), nil
}

// normalizeIngredients trims, drops blanks and removes duplicates, keeping order.
func normalizeIngredients(ingredients []string) []string {
	seen := make(map[string]bool, len(ingredients))
	out := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		ing = strings.TrimSpace(ing)
		if ing == "" || seen[ing] {
			continue
		}
		seen[ing] = true
		out = append(out, ing)
	}
	return out
}

// parsePatch reads a JSON recipe object and keeps only its content fields.
func parsePatch(content string) (recipe.Patch, error) {
	text := stripCodeFence(strings.TrimSpace(content))

	var p recipe.Patch
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		return recipe.Patch{}, fmt.Errorf("failed to parse recipe response: %w", err)
	}
	return p.Content(), nil
}

func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[i+1:]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
