package render

import (
	"strings"
	"testing"
	"time"

	"cozinha-magica/internal/recipe"
	"cozinha-magica/internal/shopping"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecipe() recipe.Recipe {
	return recipe.Recipe{
		ID:               "r1",
		Title:            "Moqueca <Baiana>",
		Description:      "Peixe no dendê.",
		Ingredients:      "Peixe\n\n  Dendê  \nLeite de coco",
		Preparation:      "Refogue.\nCozinhe.",
		PrepTime:         "40 min",
		ExtraSuggestions: "Sirva com farofa.",
		CreatedAt:        time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

func parse(t *testing.T, page string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)
	return doc
}

func TestRecipePage(t *testing.T) {
	page, err := RecipePage(sampleRecipe())
	require.NoError(t, err)
	doc := parse(t, page)

	node := doc.Find("#" + RecipeNodeID)
	require.Equal(t, 1, node.Length())

	assert.Equal(t, "Moqueca <Baiana>", node.Find("h2").Text(), "title must be escaped and round trip")
	assert.NotContains(t, page, "<Baiana>")

	var items []string
	node.Find("ul.ingredients li").Each(func(_ int, s *goquery.Selection) {
		items = append(items, s.Text())
	})
	assert.Equal(t, []string{"Peixe", "Dendê", "Leite de coco"}, items)

	assert.Contains(t, node.Find(".meta").Text(), "40 min")
	assert.NotContains(t, node.Find(".meta").Text(), "Dificuldade", "empty difficulty is hidden")
	assert.Equal(t, "Sirva com farofa.", node.Find(".suggestions").Text())
	assert.Equal(t, 0, node.Find(".notes").Length(), "empty notes are hidden")
	assert.Contains(t, page, PageBackground)
	assert.Contains(t, page, "."+ExportingClass)
}

func TestShoppingListPage(t *testing.T) {
	list := shopping.ShoppingList{
		ID:          "l1",
		RecipeTitle: "Moqueca",
		Market:      "Feira",
		Time:        "08:00",
		Ingredients: "Peixe\nDendê",
		ExtraItems:  "Limão\n",
	}

	page, err := ShoppingListPage(list)
	require.NoError(t, err)
	node := parse(t, page).Find("#" + ShoppingListNodeID)
	require.Equal(t, 1, node.Length())

	details := node.Find(".details").Text()
	assert.Contains(t, details, "Mercado:")
	assert.Contains(t, details, "Horário:")
	assert.NotContains(t, details, "Loja:")
	assert.Equal(t, 2, node.Find("ul.recipe-items li").Length())
	assert.Equal(t, 1, node.Find("ul.extra-items li").Length())

	list.ExtraItems = "  \n"
	page, err = ShoppingListPage(list)
	require.NoError(t, err)
	assert.NotContains(t, page, "Itens Extras")
}

func TestRecipeMarkdown(t *testing.T) {
	md := RecipeMarkdown(sampleRecipe())

	assert.True(t, strings.HasPrefix(md, "# Moqueca <Baiana>\n"))
	assert.Contains(t, md, "**Tempo:** 40 min")
	assert.Contains(t, md, "- Dendê\n")
	assert.Contains(t, md, "## Sugestões Extras")
	assert.NotContains(t, md, "Observações")
}

func TestShoppingListMarkdown(t *testing.T) {
	md := ShoppingListMarkdown(shopping.ShoppingList{RecipeTitle: "Moqueca", Store: "Centro", Ingredients: "Peixe"})

	assert.Contains(t, md, "Para a receita: **Moqueca**")
	assert.Contains(t, md, "**Loja:** Centro")
	assert.Contains(t, md, "- Peixe\n")
	assert.NotContains(t, md, "Itens Extras")
}
