package webflow

import (
	"context"
	"fmt"

	"sclhub-api/internal/cluster/domain/model"

	"go.uber.org/zap"
)

// itemPayload is the write shape for collection items. The CMS treats an
// update as replacing the entire fieldData object, so callers always send
// the complete field set.
type itemPayload struct {
	IsArchived bool                   `json:"isArchived"`
	IsDraft    bool                   `json:"isDraft"`
	FieldData  map[string]interface{} `json:"fieldData"`
}

type itemListResponse struct {
	Items      []model.Item `json:"items"`
	Pagination pagination   `json:"pagination"`
}

type pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// CreateItem creates a live (non-draft) collection item.
func (c *Client) CreateItem(ctx context.Context, fieldData map[string]interface{}) (*model.Item, error) {
	url := fmt.Sprintf("%s/collections/%s/items", c.baseURL, c.collectionID)
	payload := itemPayload{FieldData: fieldData}

	var item model.Item
	if err := c.doJSON(ctx, "POST", url, payload, &item); err != nil {
		return nil, err
	}
	c.log.Info("created CMS item", zap.String("item_id", item.ID))
	return &item, nil
}

// GetItem fetches one collection item by id.
func (c *Client) GetItem(ctx context.Context, itemID string) (*model.Item, error) {
	url := fmt.Sprintf("%s/collections/%s/items/%s", c.baseURL, c.collectionID, itemID)

	var item model.Item
	if err := c.doJSON(ctx, "GET", url, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItem patches a collection item, resending the full field set.
func (c *Client) UpdateItem(ctx context.Context, itemID string, fieldData map[string]interface{}) (*model.Item, error) {
	url := fmt.Sprintf("%s/collections/%s/items/%s", c.baseURL, c.collectionID, itemID)
	payload := itemPayload{FieldData: fieldData}

	var item model.Item
	if err := c.doJSON(ctx, "PATCH", url, payload, &item); err != nil {
		return nil, err
	}
	c.log.Info("updated CMS item", zap.String("item_id", itemID))
	return &item, nil
}

// DeleteItem removes a collection item.
func (c *Client) DeleteItem(ctx context.Context, itemID string) error {
	url := fmt.Sprintf("%s/collections/%s/items/%s", c.baseURL, c.collectionID, itemID)
	return c.doJSON(ctx, "DELETE", url, nil, nil)
}

// ListItems fetches the full collection, following pagination.
func (c *Client) ListItems(ctx context.Context) ([]model.Item, error) {
	const limit = 100
	var all []model.Item
	offset := 0
	for {
		url := fmt.Sprintf("%s/collections/%s/items?offset=%d&limit=%d", c.baseURL, c.collectionID, offset, limit)
		var page itemListResponse
		if err := c.doJSON(ctx, "GET", url, nil, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Items...)
		if page.Pagination.Offset+len(page.Items) >= page.Pagination.Total || len(page.Items) == 0 {
			break
		}
		offset += limit
	}
	return all, nil
}

// PublishItems requests publication of the given item ids. Publishing is
// asynchronous: the call succeeds once the request is accepted, it does not
// wait for the items to go live.
func (c *Client) PublishItems(ctx context.Context, itemIDs []string) error {
	url := fmt.Sprintf("%s/collections/%s/items/publish", c.baseURL, c.collectionID)
	payload := map[string]interface{}{"itemIds": itemIDs}
	if err := c.doJSON(ctx, "POST", url, payload, nil); err != nil {
		return err
	}
	c.log.Info("publish accepted", zap.Strings("item_ids", itemIDs))
	return nil
}
