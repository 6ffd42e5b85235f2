package grocery

import (
	"context"
	"fmt"
	"net/http"

	"trip-pantry/internal/infrastructure/config"
	"trip-pantry/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client talks to the external grocery persistence API. It is the sole owner
// of grocery item storage; this service only reads snapshots and requests
// creations. No retries here: retrying a failed add is the caller's decision.
type Client struct {
	http *resty.Client
}

// NewClient creates a grocery backend client from configuration.
func NewClient(cfg *config.GroceryAPIConfig) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		client.SetHeader("X-API-Key", cfg.APIKey)
	}

	return &Client{http: client}
}

type itemListResponse struct {
	Items []common.GroceryItem `json:"items"`
}

type createItemRequest struct {
	Name string `json:"name"`
}

// FetchItems returns the current grocery list snapshot for a trip.
func (c *Client) FetchItems(ctx context.Context, tripID string) ([]common.GroceryItem, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("tripID", tripID).
		Get("/trips/{tripID}/items")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch grocery items: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("grocery API returned status %d: %s", resp.StatusCode(), resp.String())
	}

	var body itemListResponse
	if err := common.ParseJSONBytes(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("failed to parse grocery item list: %w", err)
	}

	common.LogDebug("fetched grocery items",
		zap.String("trip_id", tripID),
		zap.Int("count", len(body.Items)),
	)
	return body.Items, nil
}

// CreateItem asks the backend to add one item to a trip's grocery list. The
// backend assigns the item ID.
func (c *Client) CreateItem(ctx context.Context, tripID, name string) (common.GroceryItem, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("tripID", tripID).
		SetBody(createItemRequest{Name: name}).
		Post("/trips/{tripID}/items")
	if err != nil {
		return common.GroceryItem{}, fmt.Errorf("failed to create grocery item: %w", err)
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
		return common.GroceryItem{}, fmt.Errorf("grocery API returned status %d: %s", resp.StatusCode(), resp.String())
	}

	var item common.GroceryItem
	if err := common.ParseJSONBytes(resp.Body(), &item); err != nil {
		return common.GroceryItem{}, fmt.Errorf("failed to parse created grocery item: %w", err)
	}

	common.LogDebug("created grocery item",
		zap.String("trip_id", tripID),
		zap.String("item_id", item.ID),
	)
	return item, nil
}
