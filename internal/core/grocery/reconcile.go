package grocery

import (
	"context"
	"fmt"
)

// CreateItemFunc persists one new grocery item. Supplied by the caller so the
// engine stays free of transport concerns.
type CreateItemFunc func(ctx context.Context, name string) error

// ReconcileResult summarizes one reconciliation pass for user-facing messaging
// ("3 new items added" / "all ingredients already on the list").
type ReconcileResult struct {
	Added   []string `json:"added"`
	Skipped []string `json:"skipped"`
}

// Reconcile adds the subset of ingredients not yet on the grocery list,
// leaving duplicates untouched.
//
// Ingredients are defensively re-normalized, then walked in order against a
// working copy of the index. An ingredient already present is classified as
// skipped; otherwise it is classified as added, its canonical key enters the
// working set (so duplicates within the same meal are created once, first-seen
// casing wins), and createItem runs for it. Creates are sequential and awaited
// one at a time, keeping at most one write in flight and a deterministic add
// order.
//
// On a createItem failure the pass stops: prior additions stand (no rollback),
// remaining ingredients are not attempted, and the partial result is returned
// with the error. A failed add is user-correctable by retrying.
func Reconcile(ctx context.Context, ingredients []string, index Index, createItem CreateItemFunc) (ReconcileResult, error) {
	result := ReconcileResult{
		Added:   []string{},
		Skipped: []string{},
	}

	working := index.Clone()
	for _, ingredient := range NormalizeIngredients(ingredients) {
		if working.Contains(ingredient) {
			result.Skipped = append(result.Skipped, ingredient)
			continue
		}
		working.Add(ingredient)
		if err := createItem(ctx, ingredient); err != nil {
			return result, fmt.Errorf("failed to create grocery item %q: %w", ingredient, err)
		}
		result.Added = append(result.Added, ingredient)
	}

	return result, nil
}
