package recipe

import (
	"strings"
	"time"
)

// Recipe is a saved, user-owned recipe.
type Recipe struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description,omitempty"`
	Ingredients      string    `json:"ingredients"`
	Preparation      string    `json:"preparation"`
	Notes            string    `json:"notes,omitempty"`
	PrepTime         string    `json:"prepTime,omitempty"`
	Difficulty       string    `json:"difficulty,omitempty"`
	ExtraSuggestions string    `json:"extraSuggestions,omitempty"`
	IsAIGenerated    bool      `json:"isAiGenerated"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Field names a free-text field of a recipe.
type Field string

const (
	FieldTitle            Field = "title"
	FieldDescription      Field = "description"
	FieldIngredients      Field = "ingredients"
	FieldPreparation      Field = "preparation"
	FieldNotes            Field = "notes"
	FieldPrepTime         Field = "prepTime"
	FieldDifficulty       Field = "difficulty"
	FieldExtraSuggestions Field = "extraSuggestions"
)

// Fields lists the editable text fields in display order.
var Fields = []Field{
	FieldTitle,
	FieldDescription,
	FieldIngredients,
	FieldPreparation,
	FieldNotes,
	FieldPrepTime,
	FieldDifficulty,
	FieldExtraSuggestions,
}

// Label returns the pt-BR label shown next to a field.
func (f Field) Label() string {
	switch f {
	case FieldTitle:
		return "Título"
	case FieldDescription:
		return "Descrição"
	case FieldIngredients:
		return "Ingredientes"
	case FieldPreparation:
		return "Modo de Preparo"
	case FieldNotes:
		return "Observações"
	case FieldPrepTime:
		return "Tempo"
	case FieldDifficulty:
		return "Dificuldade"
	case FieldExtraSuggestions:
		return "Sugestões Extras"
	}
	return string(f)
}

// ParseField maps a field name back to a Field.
func ParseField(name string) (Field, bool) {
	for _, f := range Fields {
		if string(f) == name {
			return f, true
		}
	}
	return "", false
}

// Lines splits one-item-per-line text into trimmed, non-empty items.
func Lines(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		if item := strings.TrimSpace(line); item != "" {
			items = append(items, item)
		}
	}
	return items
}
