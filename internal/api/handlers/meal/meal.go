package meal

import (
	"errors"
	"net/http"

	mealService "trip-pantry/internal/core/meal"
	"trip-pantry/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves the meal proposal endpoints.
type Handler struct {
	meals *mealService.Service
}

// NewHandler creates a meal handler.
func NewHandler(meals *mealService.Service) *Handler {
	return &Handler{meals: meals}
}

// ProposeRequest is the body for creating a meal proposal. Ingredients accepts
// raw text blobs: a single multi-line paste or pre-split tokens.
type ProposeRequest struct {
	Name        string   `json:"name" binding:"required"`
	Ingredients []string `json:"ingredients"`
}

// StatusRequest is the body for replacing a meal's status.
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CommentRequest is the body for appending a comment.
type CommentRequest struct {
	AuthorName string `json:"author_name" binding:"required"`
	Body       string `json:"body" binding:"required"`
}

// StatusResponse pairs the updated meal with the reconciliation summary when
// the transition ran one.
type StatusResponse struct {
	Meal           common.MealProposal `json:"meal"`
	Reconciliation interface{}         `json:"reconciliation,omitempty"`
}

// HandlePropose creates a meal proposal for a trip.
func (h *Handler) HandlePropose(c *gin.Context) {
	tripID := c.Param("tripID")

	var req ProposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("invalid propose request",
			zap.Error(err),
			zap.String("trip_id", tripID),
		)
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: "name is required",
		})
		return
	}

	proposal, err := h.meals.Propose(tripID, req.Name, req.Ingredients, c.GetHeader("X-User-ID"))
	if err != nil {
		if common.IsValidationError(err) {
			c.JSON(http.StatusBadRequest, common.ErrorResponse{
				Code:    common.ErrCodeInvalidRequest,
				Message: err.Error(),
			})
			return
		}
		common.LogError("failed to propose meal",
			zap.Error(err),
			zap.String("trip_id", tripID),
		)
		c.JSON(http.StatusInternalServerError, common.ErrorResponse{
			Code:    common.ErrCodeInternalError,
			Message: "failed to propose meal",
		})
		return
	}

	c.JSON(http.StatusCreated, proposal)
}

// HandleList returns all meal proposals for a trip.
func (h *Handler) HandleList(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"meals": h.meals.List(c.Param("tripID")),
	})
}

// HandleSetStatus replaces a meal's status. When the change transitions the
// meal into accepted, the response carries the reconciliation summary; an
// upstream grocery failure mid-pass returns 502 with the partial summary, and
// neither the status change nor prior additions are rolled back.
func (h *Handler) HandleSetStatus(c *gin.Context) {
	tripID := c.Param("tripID")
	mealID := c.Param("mealID")

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: "status is required",
		})
		return
	}

	status, ok := common.ParseMealStatus(req.Status)
	if !ok {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrInvalidStatus.Code,
			Message: common.ErrInvalidStatus.Message,
			Details: req.Status,
		})
		return
	}

	updated, result, err := h.meals.SetStatus(c.Request.Context(), tripID, mealID, status)
	if err != nil {
		if errors.Is(err, common.ErrMealNotFound) {
			c.JSON(http.StatusNotFound, common.ErrorResponse{
				Code:    common.ErrMealNotFound.Code,
				Message: common.ErrMealNotFound.Message,
			})
			return
		}
		// Reconciliation hit the grocery backend and failed part way. The
		// accepted status stands; the client gets the partial summary.
		response := StatusResponse{Meal: updated}
		if result != nil {
			response.Reconciliation = result
		}
		common.LogError("reconciliation failed during status change",
			zap.Error(err),
			zap.String("trip_id", tripID),
			zap.String("meal_id", mealID),
		)
		c.JSON(http.StatusBadGateway, gin.H{
			"error":  common.ErrGroceryUpstream.Message,
			"code":   common.ErrGroceryUpstream.Code,
			"result": response,
		})
		return
	}

	response := StatusResponse{Meal: updated}
	if result != nil {
		response.Reconciliation = result
	}
	c.JSON(http.StatusOK, response)
}

// HandleToggleUpvote toggles the caller's upvote on a meal.
func (h *Handler) HandleToggleUpvote(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, common.ErrorResponse{
			Code:    common.ErrUserIDRequired.Code,
			Message: common.ErrUserIDRequired.Message,
		})
		return
	}

	updated, err := h.meals.ToggleUpvote(c.Param("tripID"), c.Param("mealID"), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, common.ErrorResponse{
			Code:    common.ErrMealNotFound.Code,
			Message: common.ErrMealNotFound.Message,
		})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// HandleAddComment appends a comment to a meal.
func (h *Handler) HandleAddComment(c *gin.Context) {
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: "author_name and body are required",
		})
		return
	}

	updated, err := h.meals.AddComment(c.Param("tripID"), c.Param("mealID"), c.GetHeader("X-User-ID"), req.AuthorName, req.Body)
	if err != nil {
		if errors.Is(err, common.ErrMealNotFound) {
			c.JSON(http.StatusNotFound, common.ErrorResponse{
				Code:    common.ErrMealNotFound.Code,
				Message: common.ErrMealNotFound.Message,
			})
			return
		}
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, updated)
}
