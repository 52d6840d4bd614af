// Package kitchen holds the application state and every view transition of
// the recipe manager.
package kitchen

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"cozinha-magica/internal/chef"
	"cozinha-magica/internal/export"
	"cozinha-magica/internal/llm"
	"cozinha-magica/internal/recipe"
	"cozinha-magica/internal/shopping"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Repository persists the two collections. Implementations are best-effort.
type Repository interface {
	Recipes(ctx context.Context) []recipe.Recipe
	SaveRecipes(ctx context.Context, recipes []recipe.Recipe)
	ShoppingLists(ctx context.Context) []shopping.ShoppingList
	SaveShoppingLists(ctx context.Context, lists []shopping.ShoppingList)
}

// AIService produces recipe content.
type AIService interface {
	Generate(ctx context.Context, ingredients []string) (chef.Result, error)
	Rewrite(ctx context.Context, draft recipe.Patch) (chef.Result, error)
	Erase(ctx context.Context, draft recipe.Patch, term string) (chef.Result, error)
	Import(ctx context.Context, url string) (chef.Result, error)
}

// Exporter captures recipe and shopping list views.
type Exporter interface {
	ExportRecipe(ctx context.Context, r recipe.Recipe, format export.Format) *export.File
	ExportShoppingList(ctx context.Context, l shopping.ShoppingList, format export.Format) *export.File
}

// UsageRecorder stores token usage of backend calls.
type UsageRecorder interface {
	RecordMeta(ctx context.Context, meta llm.AgentMeta) error
}

// Options configures a Controller. Zero values get defaults.
type Options struct {
	Logger   *zap.Logger
	Exporter Exporter
	Usage    UsageRecorder
	Now      func() time.Time
	NewID    func() string
}

// Controller is the view state machine. It is safe for concurrent use; the
// lock is never held while a backend call runs.
type Controller struct {
	repo     Repository
	ai       AIService
	exporter Exporter
	usage    UsageRecorder
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string

	mu        sync.Mutex
	view      View
	draft     *recipe.Patch
	epoch     uint64
	selection map[string]bool
	recipes   []recipe.Recipe
	lists     []shopping.ShoppingList
	recipeID  string
	listID    string
	listForm  *shopping.Details
	pending   *PendingDelete
	loading   string
	errMsg    string
	errAt     time.Time
}

// New loads both collections from repo and starts on the Dashboard.
func New(ctx context.Context, repo Repository, ai AIService, opts Options) *Controller {
	c := &Controller{
		repo:      repo,
		ai:        ai,
		exporter:  opts.Exporter,
		usage:     opts.Usage,
		logger:    opts.Logger,
		now:       opts.Now,
		newID:     opts.NewID,
		view:      Dashboard,
		selection: make(map[string]bool),
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.newID == nil {
		c.newID = uuid.NewString
	}

	c.recipes = repo.Recipes(ctx)
	c.lists = repo.ShoppingLists(ctx)
	c.logger.Info("Kitchen ready",
		zap.Int("recipes", len(c.recipes)),
		zap.Int("shopping_lists", len(c.lists)),
	)
	return c
}

// Snapshot returns a copy of the current state. Collections are sorted
// newest first; storage order is not changed.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		View:          c.view,
		Recipes:       slices.Clone(c.recipes),
		ShoppingLists: slices.Clone(c.lists),
		LoadingLabel:  c.loading,
		Error:         c.errorLocked(),
	}
	slices.SortStableFunc(s.Recipes, func(a, b recipe.Recipe) int { return b.CreatedAt.Compare(a.CreatedAt) })
	slices.SortStableFunc(s.ShoppingLists, func(a, b shopping.ShoppingList) int { return b.CreatedAt.Compare(a.CreatedAt) })

	if c.draft != nil {
		d := c.draft.Clone()
		s.Draft = &d
	}
	for _, name := range recipe.Catalog() {
		if c.selection[name] {
			s.Selection = append(s.Selection, name)
		}
	}
	if r, ok := c.findRecipe(c.recipeID); ok && c.recipeID != "" {
		s.ActiveRecipe = &r
	}
	if l, ok := c.findList(c.listID); ok && c.listID != "" {
		s.ActiveList = &l
	}
	if c.listForm != nil {
		f := *c.listForm
		s.ListForm = &f
	}
	if c.pending != nil {
		p := *c.pending
		s.PendingDelete = &p
	}
	return s
}

// Reload re-reads both collections from the repository and returns to the
// Dashboard.
func (c *Controller) Reload(ctx context.Context) {
	recipes := c.repo.Recipes(ctx)
	lists := c.repo.ShoppingLists(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.recipes = recipes
	c.lists = lists
	c.discardLocked()
	c.view = Dashboard
}

// Error returns the visible error banner, or "" once it expired.
func (c *Controller) Error() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errorLocked()
}

func (c *Controller) errorLocked() string {
	if c.errMsg == "" || c.now().Sub(c.errAt) >= ErrorTTL {
		return ""
	}
	return c.errMsg
}

func (c *Controller) setErrorLocked(msg string) {
	c.errMsg = msg
	c.errAt = c.now()
}

// discardLocked drops the draft and every transient overlay.
func (c *Controller) discardLocked() {
	c.draft = nil
	c.recipeID = ""
	c.listID = ""
	c.listForm = nil
	c.pending = nil
	c.epoch++
}

// StartManualRecipe opens the editor with a blank draft.
func (c *Controller) StartManualRecipe() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.view != Dashboard {
		return ErrNotAvailable
	}
	c.discardLocked()
	d := recipe.Blank()
	c.draft = &d
	c.view = ManualEditor
	return nil
}

// StartGenerator opens the AI generator with an empty selection.
func (c *Controller) StartGenerator() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.view != Dashboard {
		return ErrNotAvailable
	}
	c.discardLocked()
	c.selection = make(map[string]bool)
	c.view = AiGenerator
	return nil
}

// ToggleIngredient selects or unselects a catalog ingredient.
func (c *Controller) ToggleIngredient(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.view != AiGenerator {
		return ErrNotAvailable
	}
	if !recipe.InCatalog(name) {
		return ErrNotFound
	}
	if c.selection[name] {
		delete(c.selection, name)
	} else {
		c.selection[name] = true
	}
	return nil
}

// SetField changes one text field of the draft.
func (c *Controller) SetField(field recipe.Field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.view != ManualEditor || c.draft == nil {
		return ErrNotAvailable
	}
	if _, ok := recipe.ParseField(string(field)); !ok {
		return ErrNotFound
	}
	d := c.draft.Set(field, value)
	c.draft = &d
	return nil
}

// SaveDraft validates and upserts the draft, then opens the Cookbook.
func (c *Controller) SaveDraft(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.view != ManualEditor || c.draft == nil {
		return ErrNotAvailable
	}
	if strings.TrimSpace(c.draft.Get(recipe.FieldTitle)) == "" {
		c.setErrorLocked(MsgTitleRequired)
		return &chef.ValidationError{Message: MsgTitleRequired}
	}

	draft := *c.draft
	updated := slices.Clone(c.recipes)
	idx := -1
	if draft.ID != nil {
		idx = slices.IndexFunc(updated, func(r recipe.Recipe) bool { return r.ID == *draft.ID })
	}

	if idx >= 0 {
		// Identity and creation time of the stored record win.
		draft.ID, draft.CreatedAt = nil, nil
		updated[idx] = draft.Apply(updated[idx])
		c.logger.Info("Recipe updated", zap.String("recipe_id", updated[idx].ID))
	} else {
		draft.ID, draft.CreatedAt = nil, nil
		r := draft.Apply(recipe.Recipe{
			ID:        c.newID(),
			CreatedAt: c.now(),
		})
		updated = append([]recipe.Recipe{r}, updated...)
		c.logger.Info("Recipe created", zap.String("recipe_id", r.ID), zap.Bool("ai_generated", r.IsAIGenerated))
	}

	c.recipes = updated
	c.repo.SaveRecipes(ctx, slices.Clone(updated))

	c.discardLocked()
	c.view = Cookbook
	return nil
}

// OpenRecipe shows a saved recipe.
func (c *Controller) OpenRecipe(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.view != Cookbook {
		return ErrNotAvailable
	}
	if _, ok := c.findRecipe(id); !ok {
		return ErrNotFound
	}
	c.discardLocked()
	c.recipeID = id
	c.view = ViewRecipe
	return nil
}

// EditRecipe opens the editor with the full record as the draft.
func (c *Controller) EditRecipe() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.view != ViewRecipe {
		return ErrNotAvailable
	}
	r, ok := c.findRecipe(c.recipeID)
	if !ok {
		return ErrNotFound
	}
	c.discardLocked()
	d := recipe.PatchFrom(r)
	c.draft = &d
	c.view = ManualEditor
	return nil
}

// OpenShoppingList shows a saved shopping list.
func (c *Controller) OpenShoppingList(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.view != ShoppingListIndex {
		return ErrNotAvailable
	}
	if _, ok := c.findList(id); !ok {
		return ErrNotFound
	}
	c.discardLocked()
	c.listID = id
	c.view = ViewShoppingList
	return nil
}

// RequestDelete asks for confirmation before deleting a record.
func (c *Controller) RequestDelete(kind Kind, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch kind {
	case KindRecipe:
		if c.view != Cookbook && c.view != ViewRecipe {
			return ErrNotAvailable
		}
		if _, ok := c.findRecipe(id); !ok {
			return ErrNotFound
		}
	case KindShoppingList:
		if c.view != ShoppingListIndex && c.view != ViewShoppingList {
			return ErrNotAvailable
		}
		if _, ok := c.findList(id); !ok {
			return ErrNotFound
		}
	default:
		return ErrNotAvailable
	}
	c.pending = &PendingDelete{Kind: kind, ID: id}
	return nil
}

// CancelDelete drops the pending confirmation.
func (c *Controller) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = nil
}

// ConfirmDelete removes the record waiting for confirmation. When it was the
// record on screen the view falls back to its index.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending == nil {
		return ErrNotAvailable
	}
	p := *c.pending
	c.pending = nil

	switch p.Kind {
	case KindRecipe:
		idx := slices.IndexFunc(c.recipes, func(r recipe.Recipe) bool { return r.ID == p.ID })
		if idx < 0 {
			return ErrNotFound
		}
		c.recipes = slices.Delete(slices.Clone(c.recipes), idx, idx+1)
		c.repo.SaveRecipes(ctx, slices.Clone(c.recipes))
		c.logger.Info("Recipe deleted", zap.String("recipe_id", p.ID))

		if c.recipeID == p.ID || (c.draft != nil && c.draft.ID != nil && *c.draft.ID == p.ID) {
			c.discardLocked()
			c.view = Cookbook
		}
	case KindShoppingList:
		idx := slices.IndexFunc(c.lists, func(l shopping.ShoppingList) bool { return l.ID == p.ID })
		if idx < 0 {
			return ErrNotFound
		}
		c.lists = slices.Delete(slices.Clone(c.lists), idx, idx+1)
		c.repo.SaveShoppingLists(ctx, slices.Clone(c.lists))
		c.logger.Info("Shopping list deleted", zap.String("list_id", p.ID))

		if c.listID == p.ID {
			c.discardLocked()
			c.view = ShoppingListIndex
		}
	}
	return nil
}

// OpenShoppingListForm opens the list creation form over the recipe view.
func (c *Controller) OpenShoppingListForm() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.view != ViewRecipe {
		return ErrNotAvailable
	}
	c.listForm = &shopping.Details{}
	return nil
}

// SetListDetail fills one optional field of the open form.
func (c *Controller) SetListDetail(field shopping.Detail, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.listForm == nil {
		return ErrNotAvailable
	}
	if _, ok := shopping.ParseDetail(string(field)); !ok {
		return ErrNotFound
	}
	f := c.listForm.Set(field, value)
	c.listForm = &f
	return nil
}

// CancelShoppingListForm closes the form without creating a list.
func (c *Controller) CancelShoppingListForm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listForm = nil
}

// CreateShoppingList snapshots the viewed recipe into a new list at the
// front of the collection and opens the shopping list index.
func (c *Controller) CreateShoppingList(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.view != ViewRecipe || c.listForm == nil {
		return ErrNotAvailable
	}
	r, ok := c.findRecipe(c.recipeID)
	if !ok {
		return ErrNotFound
	}

	list := shopping.New(r, *c.listForm, c.newID(), c.now())
	c.lists = append([]shopping.ShoppingList{list}, c.lists...)
	c.repo.SaveShoppingLists(ctx, slices.Clone(c.lists))
	c.logger.Info("Shopping list created", zap.String("list_id", list.ID), zap.String("recipe_id", r.ID))

	c.discardLocked()
	c.view = ShoppingListIndex
	return nil
}

// Back leaves the current view and discards the draft.
func (c *Controller) Back() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var next View
	switch c.view {
	case Dashboard:
		return ErrNotAvailable
	case ViewRecipe:
		next = Cookbook
	case ViewShoppingList:
		next = ShoppingListIndex
	default:
		next = Dashboard
	}
	c.discardLocked()
	c.view = next
	return nil
}

// Navigate jumps to the Dashboard, Cookbook or shopping list index.
func (c *Controller) Navigate(v View) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch v {
	case Dashboard, Cookbook, ShoppingListIndex:
	default:
		return ErrNotAvailable
	}
	c.discardLocked()
	c.view = v
	return nil
}

// Export captures the recipe or shopping list on screen. It returns nil when
// nothing was produced and never changes state.
func (c *Controller) Export(ctx context.Context, format export.Format) (*export.File, error) {
	c.mu.Lock()
	view := c.view
	r, rOK := c.findRecipe(c.recipeID)
	l, lOK := c.findList(c.listID)
	c.mu.Unlock()

	if c.exporter == nil {
		return nil, ErrNotAvailable
	}
	switch {
	case view == ViewRecipe && rOK:
		return c.exporter.ExportRecipe(ctx, r, format), nil
	case view == ViewShoppingList && lOK:
		return c.exporter.ExportShoppingList(ctx, l, format), nil
	}
	return nil, ErrNotAvailable
}

func (c *Controller) findRecipe(id string) (recipe.Recipe, bool) {
	for _, r := range c.recipes {
		if r.ID == id {
			return r, true
		}
	}
	return recipe.Recipe{}, false
}

func (c *Controller) findList(id string) (shopping.ShoppingList, bool) {
	for _, l := range c.lists {
		if l.ID == id {
			return l, true
		}
	}
	return shopping.ShoppingList{}, false
}
