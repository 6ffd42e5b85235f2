package grocery

import (
	"context"
	"net/http"

	groceryCore "trip-pantry/internal/core/grocery"
	"trip-pantry/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves the grocery list endpoints, proxying reads and writes through
// the cached gateway to the external grocery backend.
type Handler struct {
	gateway groceryCore.Gateway
}

// NewHandler creates a grocery handler.
func NewHandler(gateway groceryCore.Gateway) *Handler {
	return &Handler{gateway: gateway}
}

// AddRequest is the body for adding free-text entries to the list. Entries
// accepts raw blobs the same way meal ingredients do.
type AddRequest struct {
	Entries []string `json:"entries" binding:"required"`
}

// HandleList returns the trip's current grocery list snapshot.
func (h *Handler) HandleList(c *gin.Context) {
	tripID := c.Param("tripID")

	items, err := h.gateway.FetchItems(c.Request.Context(), tripID)
	if err != nil {
		common.LogError("failed to fetch grocery items",
			zap.Error(err),
			zap.String("trip_id", tripID),
		)
		c.JSON(http.StatusBadGateway, common.ErrorResponse{
			Code:    common.ErrGroceryUpstream.Code,
			Message: common.ErrGroceryUpstream.Message,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// HandleAdd normalizes the submitted entries and adds the ones not already on
// the list, reporting added vs. skipped. Duplicates are skips, not errors.
func (h *Handler) HandleAdd(c *gin.Context) {
	tripID := c.Param("tripID")

	var req AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: "entries are required",
		})
		return
	}

	items, err := h.gateway.FetchItems(c.Request.Context(), tripID)
	if err != nil {
		common.LogError("failed to fetch grocery items",
			zap.Error(err),
			zap.String("trip_id", tripID),
		)
		c.JSON(http.StatusBadGateway, common.ErrorResponse{
			Code:    common.ErrGroceryUpstream.Code,
			Message: common.ErrGroceryUpstream.Message,
		})
		return
	}

	result, err := groceryCore.Reconcile(c.Request.Context(), req.Entries, groceryCore.BuildIndex(items),
		func(ctx context.Context, name string) error {
			_, createErr := h.gateway.CreateItem(ctx, tripID, name)
			return createErr
		})
	if err != nil {
		common.LogError("failed to add grocery entries",
			zap.Error(err),
			zap.String("trip_id", tripID),
			zap.Int("added", len(result.Added)),
		)
		c.JSON(http.StatusBadGateway, gin.H{
			"error":  common.ErrGroceryUpstream.Message,
			"code":   common.ErrGroceryUpstream.Code,
			"result": result,
		})
		return
	}

	common.LogInfo("grocery entries added",
		zap.String("trip_id", tripID),
		zap.Int("added", len(result.Added)),
		zap.Int("skipped", len(result.Skipped)),
	)
	c.JSON(http.StatusOK, result)
}
