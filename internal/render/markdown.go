package render

import (
	"fmt"
	"strings"

	"cozinha-magica/internal/recipe"
	"cozinha-magica/internal/shopping"
)

// RecipeMarkdown formats a recipe for the terminal.
func RecipeMarkdown(r recipe.Recipe) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", r.Title)
	if r.Description != "" {
		fmt.Fprintf(&sb, "*%s*\n\n", r.Description)
	}
	if r.PrepTime != "" {
		fmt.Fprintf(&sb, "**Tempo:** %s  \n", r.PrepTime)
	}
	if r.Difficulty != "" {
		fmt.Fprintf(&sb, "**Dificuldade:** %s  \n", r.Difficulty)
	}
	if r.PrepTime != "" || r.Difficulty != "" {
		sb.WriteString("\n")
	}

	sb.WriteString("## Ingredientes\n\n")
	writeBullets(&sb, r.Ingredients)

	sb.WriteString("## Modo de Preparo\n\n")
	for _, line := range recipe.Lines(r.Preparation) {
		sb.WriteString(line + "\n\n")
	}

	if r.ExtraSuggestions != "" {
		fmt.Fprintf(&sb, "## Sugestões Extras\n\n%s\n\n", r.ExtraSuggestions)
	}
	if r.Notes != "" {
		sb.WriteString("## Observações\n\n")
		for _, line := range recipe.Lines(r.Notes) {
			sb.WriteString("> " + line + "\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// ShoppingListMarkdown formats a shopping list for the terminal.
func ShoppingListMarkdown(l shopping.ShoppingList) string {
	var sb strings.Builder

	sb.WriteString("# Lista de Compras\n\n")
	fmt.Fprintf(&sb, "Para a receita: **%s**\n\n", l.RecipeTitle)

	for _, d := range []shopping.Detail{shopping.DetailMarket, shopping.DetailStore, shopping.DetailDate, shopping.DetailTime} {
		if v := l.Details().Get(d); v != "" {
			fmt.Fprintf(&sb, "**%s:** %s  \n", d.Label(), v)
		}
	}
	sb.WriteString("\n## Itens da Receita\n\n")
	writeBullets(&sb, l.Ingredients)

	if len(recipe.Lines(l.ExtraItems)) > 0 {
		sb.WriteString("## Itens Extras\n\n")
		writeBullets(&sb, l.ExtraItems)
	}
	return sb.String()
}

func writeBullets(sb *strings.Builder, text string) {
	for _, line := range recipe.Lines(text) {
		sb.WriteString("- " + line + "\n")
	}
	sb.WriteString("\n")
}
