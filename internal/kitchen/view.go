package kitchen

import (
	"errors"
	"time"

	"cozinha-magica/internal/recipe"
	"cozinha-magica/internal/shopping"
)

// View is one screen of the application.
type View int

const (
	Dashboard View = iota
	ManualEditor
	AiGenerator
	Cookbook
	ShoppingListIndex
	ViewRecipe
	ViewShoppingList
)

var viewNames = map[View]string{
	Dashboard:         "dashboard",
	ManualEditor:      "manual-editor",
	AiGenerator:       "ai-generator",
	Cookbook:          "cookbook",
	ShoppingListIndex: "shopping-lists",
	ViewRecipe:        "view-recipe",
	ViewShoppingList:  "view-shopping-list",
}

func (v View) String() string {
	if name, ok := viewNames[v]; ok {
		return name
	}
	return "unknown"
}

// ParseView maps a view name back to a View.
func ParseView(name string) (View, bool) {
	for v, n := range viewNames {
		if n == name {
			return v, true
		}
	}
	return Dashboard, false
}

// Kind tells which collection a record belongs to.
type Kind string

const (
	KindRecipe       Kind = "recipe"
	KindShoppingList Kind = "list"
)

var (
	ErrBusy         = errors.New("uma operação de IA já está em andamento, aguarde")
	ErrNotAvailable = errors.New("ação indisponível nesta tela")
	ErrNotFound     = errors.New("registro não encontrado")
)

// Loading labels shown while a backend call is in flight.
const (
	LabelGenerating = "Gerando sua receita mágica..."
	LabelRewriting  = "Reescrevendo com IA..."
	LabelImporting  = "Importando receita..."
)

// EraseLabel is the loading label of the Magic Eraser.
func EraseLabel(term string) string {
	return `Removendo "` + term + `"...`
}

// ErrorTTL is how long an error banner stays visible.
const ErrorTTL = 5 * time.Second

// Messages for validation failures detected by the controller.
const (
	MsgTitleRequired = "O título da receita é obrigatório para salvar."
)

// PendingDelete is a delete waiting for confirmation.
type PendingDelete struct {
	Kind Kind
	ID   string
}

// Snapshot is a read-only copy of the controller state for rendering.
type Snapshot struct {
	View          View
	Draft         *recipe.Patch
	Selection     []string
	Recipes       []recipe.Recipe
	ShoppingLists []shopping.ShoppingList
	ActiveRecipe  *recipe.Recipe
	ActiveList    *shopping.ShoppingList
	ListForm      *shopping.Details
	PendingDelete *PendingDelete
	LoadingLabel  string
	Error         string
}

// Loading reports whether a backend call is in flight.
func (s Snapshot) Loading() bool { return s.LoadingLabel != "" }

// Selected reports whether a catalog ingredient is selected.
func (s Snapshot) Selected(name string) bool {
	for _, n := range s.Selection {
		if n == name {
			return true
		}
	}
	return false
}
