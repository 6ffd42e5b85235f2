package meal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	mealService "trip-pantry/internal/core/meal"
	"trip-pantry/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	common.Logger = zap.NewNop()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fakeGateway struct {
	mu    sync.Mutex
	items []common.GroceryItem
}

func (f *fakeGateway) FetchItems(ctx context.Context, tripID string) ([]common.GroceryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]common.GroceryItem, len(f.items))
	copy(out, f.items)
	return out, nil
}

func (f *fakeGateway) CreateItem(ctx context.Context, tripID, name string) (common.GroceryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item := common.GroceryItem{ID: fmt.Sprintf("g%d", len(f.items)+1), Name: name}
	f.items = append(f.items, item)
	return item, nil
}

func newTestRouter(gw *fakeGateway) *gin.Engine {
	svc := mealService.NewService(gw, common.UUIDGenerator{})
	h := NewHandler(svc)

	r := gin.New()
	trips := r.Group("/api/v1/trips/:tripID/meals")
	trips.POST("", h.HandlePropose)
	trips.GET("", h.HandleList)
	trips.PUT("/:mealID/status", h.HandleSetStatus)
	trips.POST("/:mealID/upvote", h.HandleToggleUpvote)
	trips.POST("/:mealID/comments", h.HandleAddComment)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestProposeAndAcceptFlow(t *testing.T) {
	gw := &fakeGateway{items: []common.GroceryItem{{ID: "g1", Name: "Salsa"}}}
	r := newTestRouter(gw)

	w := doJSON(t, r, http.MethodPost, "/api/v1/trips/t1/meals", ProposeRequest{
		Name:        "Taco Night",
		Ingredients: []string{"Tortillas\nSalsa, Cheese"},
	}, map[string]string{"X-User-ID": "alice"})
	if w.Code != http.StatusCreated {
		t.Fatalf("propose status = %d, body %s", w.Code, w.Body.String())
	}

	var proposal common.MealProposal
	if err := json.Unmarshal(w.Body.Bytes(), &proposal); err != nil {
		t.Fatalf("failed to parse proposal: %v", err)
	}
	if len(proposal.Ingredients) != 3 {
		t.Fatalf("Ingredients = %v, want 3 normalized entries", proposal.Ingredients)
	}

	w = doJSON(t, r, http.MethodPut, "/api/v1/trips/t1/meals/"+proposal.ID+"/status", StatusRequest{Status: "accepted"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status update = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Meal           common.MealProposal `json:"meal"`
		Reconciliation struct {
			Added   []string `json:"added"`
			Skipped []string `json:"skipped"`
		} `json:"reconciliation"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Meal.Status != common.MealStatusAccepted {
		t.Errorf("meal status = %s, want accepted", resp.Meal.Status)
	}
	if len(resp.Reconciliation.Added) != 2 {
		t.Errorf("Added = %v, want [Tortillas Cheese]", resp.Reconciliation.Added)
	}
	if len(resp.Reconciliation.Skipped) != 1 {
		t.Errorf("Skipped = %v, want [Salsa]", resp.Reconciliation.Skipped)
	}
}

func TestProposeRequiresName(t *testing.T) {
	r := newTestRouter(&fakeGateway{})

	w := doJSON(t, r, http.MethodPost, "/api/v1/trips/t1/meals", map[string]interface{}{
		"ingredients": []string{"Milk"},
	}, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSetStatusUnknownMealIs404(t *testing.T) {
	r := newTestRouter(&fakeGateway{})

	w := doJSON(t, r, http.MethodPut, "/api/v1/trips/t1/meals/nope/status", StatusRequest{Status: "accepted"}, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestSetStatusRejectsUnknownStatus(t *testing.T) {
	r := newTestRouter(&fakeGateway{})

	w := doJSON(t, r, http.MethodPut, "/api/v1/trips/t1/meals/nope/status", StatusRequest{Status: "devoured"}, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestUpvoteRequiresUser(t *testing.T) {
	gw := &fakeGateway{}
	r := newTestRouter(gw)

	w := doJSON(t, r, http.MethodPost, "/api/v1/trips/t1/meals", ProposeRequest{Name: "Pasta"}, nil)
	var proposal common.MealProposal
	json.Unmarshal(w.Body.Bytes(), &proposal)

	w = doJSON(t, r, http.MethodPost, "/api/v1/trips/t1/meals/"+proposal.ID+"/upvote", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 without X-User-ID", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/v1/trips/t1/meals/"+proposal.ID+"/upvote", nil, map[string]string{"X-User-ID": "bob"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var updated common.MealProposal
	json.Unmarshal(w.Body.Bytes(), &updated)
	if len(updated.Upvotes) != 1 || updated.Upvotes[0] != "bob" {
		t.Errorf("Upvotes = %v, want [bob]", updated.Upvotes)
	}
}

func TestAddComment(t *testing.T) {
	r := newTestRouter(&fakeGateway{})

	w := doJSON(t, r, http.MethodPost, "/api/v1/trips/t1/meals", ProposeRequest{Name: "Pasta"}, nil)
	var proposal common.MealProposal
	json.Unmarshal(w.Body.Bytes(), &proposal)

	w = doJSON(t, r, http.MethodPost, "/api/v1/trips/t1/meals/"+proposal.ID+"/comments", CommentRequest{
		AuthorName: "Bob",
		Body:       "can we do pesto?",
	}, map[string]string{"X-User-ID": "bob"})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var updated common.MealProposal
	json.Unmarshal(w.Body.Bytes(), &updated)
	if len(updated.Comments) != 1 || updated.Comments[0].AuthorID != "bob" {
		t.Errorf("Comments = %v, want Bob's comment with author id", updated.Comments)
	}
}

func TestListMeals(t *testing.T) {
	r := newTestRouter(&fakeGateway{})

	doJSON(t, r, http.MethodPost, "/api/v1/trips/t1/meals", ProposeRequest{Name: "Pasta"}, nil)
	doJSON(t, r, http.MethodPost, "/api/v1/trips/t1/meals", ProposeRequest{Name: "Curry"}, nil)
	doJSON(t, r, http.MethodPost, "/api/v1/trips/t2/meals", ProposeRequest{Name: "Other trip"}, nil)

	w := doJSON(t, r, http.MethodGet, "/api/v1/trips/t1/meals", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		Meals []common.MealProposal `json:"meals"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(resp.Meals) != 2 {
		t.Errorf("meals = %d, want 2 for trip t1", len(resp.Meals))
	}
}
