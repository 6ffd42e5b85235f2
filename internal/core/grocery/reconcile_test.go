package grocery

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"trip-pantry/internal/pkg/common"
)

// recordingCreate collects createItem calls and fails after failAfter
// successes when failAfter >= 0.
type recordingCreate struct {
	calls     []string
	failAfter int
}

func newRecordingCreate() *recordingCreate {
	return &recordingCreate{failAfter: -1}
}

func (r *recordingCreate) fn(ctx context.Context, name string) error {
	if r.failAfter >= 0 && len(r.calls) >= r.failAfter {
		return fmt.Errorf("backend unavailable")
	}
	r.calls = append(r.calls, name)
	return nil
}

func TestReconcileSkipsExistingItems(t *testing.T) {
	index := BuildIndex([]common.GroceryItem{
		{ID: "1", Name: "milk"},
		{ID: "2", Name: "eggs"},
	})
	create := newRecordingCreate()

	result, err := Reconcile(context.Background(), []string{"Milk", "Bread"}, index, create.fn)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	if !reflect.DeepEqual(result.Added, []string{"Bread"}) {
		t.Errorf("Added = %v, want [Bread]", result.Added)
	}
	if !reflect.DeepEqual(result.Skipped, []string{"Milk"}) {
		t.Errorf("Skipped = %v, want [Milk]", result.Skipped)
	}
	if !reflect.DeepEqual(create.calls, []string{"Bread"}) {
		t.Errorf("createItem calls = %v, want [Bread]", create.calls)
	}
}

func TestReconcileDedupesWithinMeal(t *testing.T) {
	create := newRecordingCreate()

	result, err := Reconcile(context.Background(), []string{"Bread", "bread", "BREAD "}, Index{}, create.fn)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	// First-seen casing wins; the two later duplicates are skips.
	if !reflect.DeepEqual(create.calls, []string{"Bread"}) {
		t.Errorf("createItem calls = %v, want exactly one call for Bread", create.calls)
	}
	if !reflect.DeepEqual(result.Added, []string{"Bread"}) {
		t.Errorf("Added = %v, want [Bread]", result.Added)
	}
	if len(result.Skipped) != 2 {
		t.Errorf("Skipped = %v, want two entries", result.Skipped)
	}
}

func TestReconcileIdempotentAcrossPasses(t *testing.T) {
	ingredients := []string{"Tortillas", "Salsa", "Cheese"}
	create := newRecordingCreate()

	first, err := Reconcile(context.Background(), ingredients, Index{}, create.fn)
	if err != nil {
		t.Fatalf("first pass failed: %v", err)
	}
	if len(first.Added) != 3 {
		t.Fatalf("first pass Added = %v, want 3 entries", first.Added)
	}

	// Second pass with the index updated to include everything just added.
	updated := Index{}
	for _, name := range first.Added {
		updated.Add(name)
	}
	second, err := Reconcile(context.Background(), ingredients, updated, create.fn)
	if err != nil {
		t.Fatalf("second pass failed: %v", err)
	}
	if len(second.Added) != 0 {
		t.Errorf("second pass Added = %v, want none", second.Added)
	}
	if len(second.Skipped) != 3 {
		t.Errorf("second pass Skipped = %v, want 3 entries", second.Skipped)
	}
}

func TestReconcileNormalizesDefensively(t *testing.T) {
	create := newRecordingCreate()

	result, err := Reconcile(context.Background(), []string{"Tortillas\nSalsa, Cheese"}, Index{"salsa": struct{}{}}, create.fn)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	if !reflect.DeepEqual(result.Added, []string{"Tortillas", "Cheese"}) {
		t.Errorf("Added = %v, want [Tortillas Cheese]", result.Added)
	}
	if !reflect.DeepEqual(result.Skipped, []string{"Salsa"}) {
		t.Errorf("Skipped = %v, want [Salsa]", result.Skipped)
	}
}

func TestReconcileFailFastKeepsPartialResult(t *testing.T) {
	create := newRecordingCreate()
	create.failAfter = 1

	result, err := Reconcile(context.Background(), []string{"Milk", "Eggs", "Bread"}, Index{}, create.fn)
	if err == nil {
		t.Fatal("expected an error from the failing create")
	}

	// The first add stands, the failing one and everything after are not
	// attempted.
	if !reflect.DeepEqual(result.Added, []string{"Milk"}) {
		t.Errorf("Added = %v, want [Milk]", result.Added)
	}
	if !reflect.DeepEqual(create.calls, []string{"Milk"}) {
		t.Errorf("createItem calls = %v, want [Milk]", create.calls)
	}
}

func TestReconcileSequentialOrder(t *testing.T) {
	create := newRecordingCreate()

	_, err := Reconcile(context.Background(), []string{"C", "A", "B"}, Index{}, create.fn)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	if !reflect.DeepEqual(create.calls, []string{"C", "A", "B"}) {
		t.Errorf("createItem calls = %v, want ingredient order preserved", create.calls)
	}
}
