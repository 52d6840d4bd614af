package app

import (
	"context"
	"encoding/json"
	"fmt"

	"cozinha-magica/internal/recipe"
	"cozinha-magica/internal/shopping"
	"cozinha-magica/internal/storage"

	"go.uber.org/zap"
)

// legacyDump is a browser localStorage export: each collection is a JSON
// string holding the bare array the old app wrote.
type legacyDump struct {
	Recipes       *string `json:"recipes"`
	ShoppingLists *string `json:"shoppingLists"`
}

// MigrationReport counts the records taken from a legacy dump.
type MigrationReport struct {
	Recipes        int
	ShoppingLists  int
	SkippedRecipes int
	SkippedLists   int
}

// ImportLegacy merges a localStorage dump into the stored collections and
// reloads the controller.
func (a *App) ImportLegacy(ctx context.Context, data []byte) (MigrationReport, error) {
	report, err := MigrateLegacy(ctx, a.Collections, data, a.Logger)
	if err != nil {
		return report, err
	}
	a.Kitchen.Reload(ctx)
	return report, nil
}

// MigrateLegacy merges a localStorage dump into cols. Records whose id is
// already stored are skipped.
func MigrateLegacy(ctx context.Context, cols *storage.Collections, data []byte, logger *zap.Logger) (MigrationReport, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var report MigrationReport

	var dump legacyDump
	if err := json.Unmarshal(data, &dump); err != nil {
		return report, fmt.Errorf("failed to parse localStorage dump: %w", err)
	}

	if dump.Recipes != nil {
		incoming, err := storage.RecipesCodec.Decode([]byte(*dump.Recipes))
		if err != nil {
			return report, fmt.Errorf("failed to decode recipes: %w", err)
		}
		merged, added := mergeByID(cols.Recipes(ctx), incoming, func(r recipe.Recipe) string { return r.ID })
		report.Recipes, report.SkippedRecipes = added, len(incoming)-added
		cols.SaveRecipes(ctx, merged)
	}

	if dump.ShoppingLists != nil {
		incoming, err := storage.ShoppingListsCodec.Decode([]byte(*dump.ShoppingLists))
		if err != nil {
			return report, fmt.Errorf("failed to decode shopping lists: %w", err)
		}
		merged, added := mergeByID(cols.ShoppingLists(ctx), incoming, func(l shopping.ShoppingList) string { return l.ID })
		report.ShoppingLists, report.SkippedLists = added, len(incoming)-added
		cols.SaveShoppingLists(ctx, merged)
	}

	logger.Info("Legacy data migrated",
		zap.Int("recipes", report.Recipes),
		zap.Int("shopping_lists", report.ShoppingLists),
		zap.Int("skipped_recipes", report.SkippedRecipes),
		zap.Int("skipped_lists", report.SkippedLists),
	)
	return report, nil
}

func mergeByID[T any](existing, incoming []T, id func(T) string) ([]T, int) {
	seen := make(map[string]struct{}, len(existing))
	for _, v := range existing {
		seen[id(v)] = struct{}{}
	}
	merged := existing
	added := 0
	for _, v := range incoming {
		key := id(v)
		if _, ok := seen[key]; ok || key == "" {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, v)
		added++
	}
	return merged, added
}
