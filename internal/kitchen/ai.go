package kitchen

import (
	"context"
	"strings"

	"cozinha-magica/internal/chef"
	"cozinha-magica/internal/llm"
	"cozinha-magica/internal/recipe"

	"go.uber.org/zap"
)

// beginLocked takes the single-flight slot. Callers hold c.mu.
func (c *Controller) beginLocked(label string) error {
	if c.loading != "" {
		return ErrBusy
	}
	c.loading = label
	c.errMsg = ""
	return nil
}

func (c *Controller) release() {
	c.mu.Lock()
	c.loading = ""
	c.mu.Unlock()
}

func (c *Controller) recordUsage(ctx context.Context, meta llm.AgentMeta) {
	if c.usage == nil {
		return
	}
	if err := c.usage.RecordMeta(ctx, meta); err != nil {
		c.logger.Warn("Failed to record token usage", zap.String("agent", meta.AgentName), zap.Error(err))
	}
}

// Generate asks for a recipe made from the selected ingredients and opens it
// in the editor.
func (c *Controller) Generate(ctx context.Context) error {
	c.mu.Lock()
	if c.view != AiGenerator {
		c.mu.Unlock()
		return ErrNotAvailable
	}
	var selected []string
	for _, name := range recipe.Catalog() {
		if c.selection[name] {
			selected = append(selected, name)
		}
	}
	if len(selected) == 0 {
		err := &chef.GenerationError{Err: chef.ErrNoIngredients}
		c.setErrorLocked(err.Error())
		c.mu.Unlock()
		return err
	}
	if err := c.beginLocked(LabelGenerating); err != nil {
		c.mu.Unlock()
		return err
	}
	epoch := c.epoch
	c.mu.Unlock()
	defer c.release()

	res, err := c.ai.Generate(ctx, selected)
	if err == nil {
		c.recordUsage(ctx, res.Meta)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.setErrorLocked(err.Error())
		return err
	}
	if c.epoch != epoch || c.view != AiGenerator {
		c.logger.Info("Generated recipe dropped, user left the generator")
		return nil
	}

	d := res.Patch.Clone()
	d.IsAIGenerated = recipe.Bool(true)
	c.draft = &d
	c.view = ManualEditor
	return nil
}

// Rewrite replaces the draft content with a rewritten version.
func (c *Controller) Rewrite(ctx context.Context) error {
	return c.refine(ctx, LabelRewriting, true, func(draft recipe.Patch) (chef.Result, error) {
		return c.ai.Rewrite(ctx, draft)
	})
}

// Erase removes every mention of term from the draft.
func (c *Controller) Erase(ctx context.Context, term string) error {
	term = strings.TrimSpace(term)
	if term == "" {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.view != ManualEditor || c.draft == nil {
			return ErrNotAvailable
		}
		err := &chef.EraseError{Err: chef.ErrEmptyTerm}
		c.setErrorLocked(err.Error())
		return err
	}
	return c.refine(ctx, EraseLabel(term), false, func(draft recipe.Patch) (chef.Result, error) {
		return c.ai.Erase(ctx, draft, term)
	})
}

// Import merges a recipe extracted from a web page into the draft.
func (c *Controller) Import(ctx context.Context, url string) error {
	return c.refine(ctx, LabelImporting, true, func(recipe.Patch) (chef.Result, error) {
		return c.ai.Import(ctx, url)
	})
}

// refine runs one backend call against the current draft and merges the
// result. Failures leave the draft untouched; a result that arrives after the
// draft was discarded is dropped.
func (c *Controller) refine(ctx context.Context, label string, markAI bool, call func(recipe.Patch) (chef.Result, error)) error {
	c.mu.Lock()
	if c.view != ManualEditor || c.draft == nil {
		c.mu.Unlock()
		return ErrNotAvailable
	}
	if err := c.beginLocked(label); err != nil {
		c.mu.Unlock()
		return err
	}
	draft := c.draft.Clone()
	epoch := c.epoch
	c.mu.Unlock()
	defer c.release()

	res, err := call(draft)
	if err == nil {
		c.recordUsage(ctx, res.Meta)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.setErrorLocked(err.Error())
		return err
	}
	if c.epoch != epoch || c.draft == nil {
		c.logger.Info("Backend result dropped, draft was discarded", zap.String("label", label))
		return nil
	}

	merged := c.draft.Merge(res.Patch)
	if markAI {
		merged.IsAIGenerated = recipe.Bool(true)
	}
	c.draft = &merged
	return nil
}
