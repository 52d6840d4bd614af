// Package render produces the printable HTML pages and the terminal Markdown
// for recipes and shopping lists.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"cozinha-magica/internal/recipe"
	"cozinha-magica/internal/shopping"
)

// Ids of the content nodes that get exported.
const (
	RecipeNodeID       = "recipe-view"
	ShoppingListNodeID = "shoppinglist-view"
)

// ExportingClass is the CSS state applied to a node while it is captured.
const ExportingClass = "exporting"

// PageBackground is the cream page color, also used as the export background.
const PageBackground = "#F6ECDC"

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(
	template.New("pages").
		Funcs(template.FuncMap{"lines": recipe.Lines}).
		ParseFS(templateFS, "templates/*.html"),
)

// RecipePage renders the full HTML document for one recipe.
func RecipePage(r recipe.Recipe) (string, error) {
	return execute("recipe.html", r)
}

// ShoppingListPage renders the full HTML document for one shopping list.
func ShoppingListPage(l shopping.ShoppingList) (string, error) {
	return execute("shopping_list.html", l)
}

func execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}
