package recipe

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatchApply(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	base := Recipe{
		ID:          "r1",
		Title:       "Bolo",
		Ingredients: "Ovos\nLeite",
		Preparation: "Misture.",
		Notes:       "Forno médio",
		CreatedAt:   created,
	}

	t.Run("OnlyPresentFieldsChange", func(t *testing.T) {
		got := Patch{Title: String("Bolo de Milho"), Notes: String("")}.Apply(base)

		assert.Equal(t, "Bolo de Milho", got.Title)
		assert.Equal(t, "", got.Notes, "present empty string must overwrite")
		assert.Equal(t, "Ovos\nLeite", got.Ingredients)
		assert.Equal(t, created, got.CreatedAt)
		assert.Equal(t, "r1", got.ID)
	})

	t.Run("EmptyPatchIsIdentity", func(t *testing.T) {
		assert.Equal(t, base, Patch{}.Apply(base))
	})
}

func TestPatchMerge(t *testing.T) {
	draft := Blank().Set(FieldTitle, "Panqueca")
	rewrite := Patch{Title: String("Panquecas Gourmet"), Description: String("Leves e macias")}

	got := draft.Merge(rewrite)

	assert.Equal(t, "Panquecas Gourmet", got.Get(FieldTitle))
	assert.Equal(t, "Leves e macias", got.Get(FieldDescription))
	require.NotNil(t, got.Notes, "fields absent from the overlay stay as they were")
	assert.Equal(t, "", *got.Notes)
	assert.Equal(t, "Panqueca", draft.Get(FieldTitle), "merge must not mutate the receiver")
}

func TestPatchCloneIsDeep(t *testing.T) {
	p := Patch{Title: String("A")}
	c := p.Clone()
	*c.Title = "B"
	assert.Equal(t, "A", *p.Title)
}

func TestPatchFromRoundTrip(t *testing.T) {
	r := Recipe{
		ID:            "abc",
		Title:         "Arroz",
		Ingredients:   "Arroz\nSal",
		Preparation:   "Cozinhe.",
		IsAIGenerated: true,
		CreatedAt:     time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	assert.Equal(t, r, PatchFrom(r).Apply(Recipe{}))
}

func TestPatchContentDropsIdentity(t *testing.T) {
	now := time.Now()
	p := Patch{
		ID:            String("injected"),
		Title:         String("T"),
		IsAIGenerated: Bool(false),
		CreatedAt:     &now,
	}
	c := p.Content()
	assert.Nil(t, c.ID)
	assert.Nil(t, c.IsAIGenerated)
	assert.Nil(t, c.CreatedAt)
	assert.Equal(t, "T", c.Get(FieldTitle))
}

func TestPatchJSONKeepsAbsentFieldsAbsent(t *testing.T) {
	var p Patch
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Omelete","ingredients":"Ovos\nSal","preparation":"Bata e frite."}`), &p))

	assert.Equal(t, "Omelete", p.Get(FieldTitle))
	assert.Nil(t, p.Description)
	assert.Nil(t, p.Notes)
	assert.Nil(t, p.ExtraSuggestions)
}

func TestSetAndGet(t *testing.T) {
	var p Patch
	for _, f := range Fields {
		p = p.Set(f, "v-"+string(f))
	}
	for _, f := range Fields {
		assert.Equal(t, "v-"+string(f), p.Get(f))
	}
	assert.False(t, p.IsEmpty())
	assert.True(t, Patch{}.IsEmpty())
}

func TestParseField(t *testing.T) {
	f, ok := ParseField("extraSuggestions")
	require.True(t, ok)
	assert.Equal(t, FieldExtraSuggestions, f)

	_, ok = ParseField("id")
	assert.False(t, ok, "identity is not an editable field")
}

func TestLines(t *testing.T) {
	got := Lines("  Ovos \n\nLeite\n   \nFarinha de Trigo\n")
	assert.Equal(t, []string{"Ovos", "Leite", "Farinha de Trigo"}, got)
	assert.Nil(t, Lines(""))
}

func TestCatalog(t *testing.T) {
	c := Catalog()
	require.Len(t, c, 37)
	assert.Equal(t, "Abacate", c[0])
	assert.Equal(t, "Vinagre", c[len(c)-1])

	c[0] = "Trufa"
	assert.False(t, InCatalog("Trufa"), "Catalog must return a copy")
	assert.True(t, InCatalog("Farinha de Trigo"))
	assert.Equal(t, -1, CatalogIndex("Caviar"))
}
