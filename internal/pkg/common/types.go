package common

import (
	"strings"
	"time"
)

// GroceryItem is one entry on a trip's shared grocery list. Items are owned by
// the grocery backend; this service never generates their IDs or mutates them.
type GroceryItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Purchased bool   `json:"purchased"`
}

// MealStatus is the lifecycle state of a meal proposal.
type MealStatus string

const (
	MealStatusProposed MealStatus = "proposed"
	MealStatusAccepted MealStatus = "accepted"
	MealStatusDeclined MealStatus = "declined"
)

// ParseMealStatus validates a raw status string.
func ParseMealStatus(s string) (MealStatus, bool) {
	switch MealStatus(strings.ToLower(strings.TrimSpace(s))) {
	case MealStatusProposed:
		return MealStatusProposed, true
	case MealStatusAccepted:
		return MealStatusAccepted, true
	case MealStatusDeclined:
		return MealStatusDeclined, true
	}
	return "", false
}

// MealComment is one append-only comment on a meal proposal.
type MealComment struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"author_id,omitempty"`
	AuthorName string    `json:"author_name"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

// MealProposal is a candidate group meal for a trip, subject to voting and
// acceptance. Status always starts at proposed; any transition between the
// three states is allowed afterwards.
//
// Invariants: Ingredients holds normalized, non-empty strings in the order the
// proposer entered them (duplicates within one meal are kept); Upvotes never
// contains the same user twice.
type MealProposal struct {
	ID          string        `json:"id"`
	TripID      string        `json:"trip_id"`
	Name        string        `json:"name"`
	Ingredients []string      `json:"ingredients"`
	Status      MealStatus    `json:"status"`
	Upvotes     []string      `json:"upvotes"`
	Comments    []MealComment `json:"comments"`
	CreatedBy   string        `json:"created_by,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// FormatIngredients renders an ingredient list for log output.
func FormatIngredients(ingredients []string) string {
	if len(ingredients) == 0 {
		return ""
	}
	return strings.Join(ingredients, ", ")
}
