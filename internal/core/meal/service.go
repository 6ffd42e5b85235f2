package meal

import (
	"context"
	"strings"
	"sync"
	"time"

	"trip-pantry/internal/core/grocery"
	"trip-pantry/internal/pkg/common"

	"go.uber.org/zap"
)

// Service owns the in-memory meal proposal collections, one per trip. All
// transitions go through the pure reducer under the service lock; the only
// side effect it pairs with a transition is grocery reconciliation on the
// status edge into accepted.
type Service struct {
	mu      sync.RWMutex
	meals   map[string][]common.MealProposal
	ids     common.IDGenerator
	grocery grocery.Gateway
}

// NewService creates a meal service over the given grocery gateway and ID
// generator.
func NewService(gateway grocery.Gateway, ids common.IDGenerator) *Service {
	return &Service{
		meals:   make(map[string][]common.MealProposal),
		ids:     ids,
		grocery: gateway,
	}
}

// Propose creates a meal proposal from raw ingredient input. The name must be
// non-empty; ingredients are normalized and may legitimately end up empty.
func (s *Service) Propose(tripID, name string, rawIngredients []string, userID string) (common.MealProposal, error) {
	if strings.TrimSpace(name) == "" {
		return common.MealProposal{}, common.NewValidationError("meal name is required")
	}

	proposal := common.MealProposal{
		ID:          s.ids.Next(),
		TripID:      tripID,
		Name:        strings.TrimSpace(name),
		Ingredients: grocery.NormalizeIngredients(rawIngredients),
		Status:      common.MealStatusProposed,
		Upvotes:     []string{},
		Comments:    []common.MealComment{},
		CreatedBy:   userID,
		CreatedAt:   time.Now().UTC(),
	}

	s.mu.Lock()
	s.meals[tripID] = Apply(s.meals[tripID], Action{Type: ActionAddMeal, Meal: &proposal})
	s.mu.Unlock()

	common.LogInfo("meal proposed",
		zap.String("trip_id", tripID),
		zap.String("meal_id", proposal.ID),
		zap.String("name", proposal.Name),
		zap.Int("ingredients", len(proposal.Ingredients)),
	)
	return proposal, nil
}

// List returns the trip's meal proposals in proposal order.
func (s *Service) List(tripID string) []common.MealProposal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	meals := s.meals[tripID]
	out := make([]common.MealProposal, len(meals))
	copy(out, meals)
	return out
}

// Get returns one meal proposal by id.
func (s *Service) Get(tripID, mealID string) (common.MealProposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.meals[tripID] {
		if m.ID == mealID {
			return m, nil
		}
	}
	return common.MealProposal{}, common.ErrMealNotFound
}

// SetStatus replaces a meal's status. Reconciliation runs exactly when the
// transition edge is non-accepted to accepted; re-accepting an accepted meal
// or any other change returns a nil reconciliation result. On an upstream
// failure the status change stands, the partial reconciliation result is
// returned with the error, and nothing is rolled back.
func (s *Service) SetStatus(ctx context.Context, tripID, mealID string, status common.MealStatus) (common.MealProposal, *grocery.ReconcileResult, error) {
	s.mu.Lock()
	previous, found := findMeal(s.meals[tripID], mealID)
	if !found {
		s.mu.Unlock()
		return common.MealProposal{}, nil, common.ErrMealNotFound
	}
	s.meals[tripID] = Apply(s.meals[tripID], Action{Type: ActionSetMealStatus, MealID: mealID, Status: status})
	updated, _ := findMeal(s.meals[tripID], mealID)
	s.mu.Unlock()

	common.LogInfo("meal status changed",
		zap.String("trip_id", tripID),
		zap.String("meal_id", mealID),
		zap.String("from", string(previous.Status)),
		zap.String("to", string(status)),
	)

	if previous.Status == common.MealStatusAccepted || status != common.MealStatusAccepted {
		return updated, nil, nil
	}

	result, err := s.reconcile(ctx, tripID, updated)
	return updated, &result, err
}

// ToggleUpvote adds or removes a user's upvote on a meal.
func (s *Service) ToggleUpvote(tripID, mealID, userID string) (common.MealProposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := findMeal(s.meals[tripID], mealID); !found {
		return common.MealProposal{}, common.ErrMealNotFound
	}
	s.meals[tripID] = Apply(s.meals[tripID], Action{Type: ActionToggleUpvote, MealID: mealID, UserID: userID})
	updated, _ := findMeal(s.meals[tripID], mealID)
	return updated, nil
}

// AddComment appends a comment to a meal.
func (s *Service) AddComment(tripID, mealID string, authorID, authorName, body string) (common.MealProposal, error) {
	if strings.TrimSpace(body) == "" {
		return common.MealProposal{}, common.NewValidationError("comment body is required")
	}

	comment := common.MealComment{
		ID:         s.ids.Next(),
		AuthorID:   authorID,
		AuthorName: authorName,
		Body:       body,
		CreatedAt:  time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := findMeal(s.meals[tripID], mealID); !found {
		return common.MealProposal{}, common.ErrMealNotFound
	}
	s.meals[tripID] = Apply(s.meals[tripID], Action{Type: ActionAddComment, MealID: mealID, Comment: &comment})
	updated, _ := findMeal(s.meals[tripID], mealID)
	return updated, nil
}

// reconcile fetches the current grocery snapshot and adds the meal's missing
// ingredients through the gateway, one create in flight at a time. Runs
// outside the service lock; the snapshot is disposable and the grocery backend
// stays the source of truth.
func (s *Service) reconcile(ctx context.Context, tripID string, m common.MealProposal) (grocery.ReconcileResult, error) {
	start := time.Now()

	items, err := s.grocery.FetchItems(ctx, tripID)
	if err != nil {
		common.LogReconciliation(tripID, m.ID, 0, 0, time.Since(start), err)
		return grocery.ReconcileResult{Added: []string{}, Skipped: []string{}}, err
	}

	result, err := grocery.Reconcile(ctx, m.Ingredients, grocery.BuildIndex(items), func(ctx context.Context, name string) error {
		_, createErr := s.grocery.CreateItem(ctx, tripID, name)
		return createErr
	})

	common.LogReconciliation(tripID, m.ID, len(result.Added), len(result.Skipped), time.Since(start), err)
	return result, err
}

func findMeal(meals []common.MealProposal, id string) (common.MealProposal, bool) {
	for _, m := range meals {
		if m.ID == id {
			return m, true
		}
	}
	return common.MealProposal{}, false
}
