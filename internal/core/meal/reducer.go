package meal

import (
	"trip-pantry/internal/pkg/common"
)

// ActionType enumerates meal collection transitions.
type ActionType string

const (
	ActionAddMeal       ActionType = "ADD_MEAL"
	ActionSetMealStatus ActionType = "SET_MEAL_STATUS"
	ActionToggleUpvote  ActionType = "TOGGLE_MEAL_UPVOTE"
	ActionAddComment    ActionType = "ADD_MEAL_COMMENT"
)

// Action is one transition over a meal proposal collection. Which fields are
// read depends on Type.
type Action struct {
	Type    ActionType
	Meal    *common.MealProposal
	MealID  string
	Status  common.MealStatus
	UserID  string
	Comment *common.MealComment
}

// Apply is the pure state-transition function over a collection of meal
// proposals. It never mutates its input and never panics: actions referencing
// an unknown meal id, upvote toggles without a user id, and unknown action
// types all return the collection unchanged.
func Apply(meals []common.MealProposal, action Action) []common.MealProposal {
	switch action.Type {
	case ActionAddMeal:
		if action.Meal == nil {
			return meals
		}
		out := make([]common.MealProposal, len(meals), len(meals)+1)
		copy(out, meals)
		return append(out, *action.Meal)

	case ActionSetMealStatus:
		return replaceMeal(meals, action.MealID, func(m common.MealProposal) common.MealProposal {
			m.Status = action.Status
			return m
		})

	case ActionToggleUpvote:
		if action.UserID == "" {
			return meals
		}
		return replaceMeal(meals, action.MealID, func(m common.MealProposal) common.MealProposal {
			m.Upvotes = toggleUpvote(m.Upvotes, action.UserID)
			return m
		})

	case ActionAddComment:
		if action.Comment == nil {
			return meals
		}
		return replaceMeal(meals, action.MealID, func(m common.MealProposal) common.MealProposal {
			comments := make([]common.MealComment, len(m.Comments), len(m.Comments)+1)
			copy(comments, m.Comments)
			m.Comments = append(comments, *action.Comment)
			return m
		})
	}

	return meals
}

// replaceMeal returns a new collection with the matching meal transformed.
// Unknown ids return the input unchanged.
func replaceMeal(meals []common.MealProposal, id string, fn func(common.MealProposal) common.MealProposal) []common.MealProposal {
	for i := range meals {
		if meals[i].ID != id {
			continue
		}
		out := make([]common.MealProposal, len(meals))
		copy(out, meals)
		out[i] = fn(out[i])
		return out
	}
	return meals
}

// toggleUpvote removes userID if present, appends it otherwise. The sequence
// keeps insertion order with implied uniqueness.
func toggleUpvote(upvotes []string, userID string) []string {
	for i, id := range upvotes {
		if id == userID {
			out := make([]string, 0, len(upvotes)-1)
			out = append(out, upvotes[:i]...)
			out = append(out, upvotes[i+1:]...)
			return out
		}
	}
	out := make([]string, len(upvotes), len(upvotes)+1)
	copy(out, upvotes)
	return append(out, userID)
}
