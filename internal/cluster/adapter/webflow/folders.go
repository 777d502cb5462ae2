package webflow

import (
	"context"
	"fmt"

	"sclhub-api/internal/cluster/domain/repository"

	"go.uber.org/zap"
)

type folderListResponse struct {
	AssetFolders []repository.AssetFolder `json:"assetFolders"`
	Pagination   pagination               `json:"pagination"`
}

// ListAssetFolders returns one page of the site's asset folders plus the
// reported total. The remote API caps the page size, so callers loop while
// offset + len(page) < total.
func (c *Client) ListAssetFolders(ctx context.Context, offset, limit int) ([]repository.AssetFolder, int, error) {
	url := fmt.Sprintf("%s/sites/%s/asset_folders?offset=%d&limit=%d", c.baseURL, c.siteID, offset, limit)

	var page folderListResponse
	if err := c.doJSON(ctx, "GET", url, nil, &page); err != nil {
		return nil, 0, err
	}
	return page.AssetFolders, page.Pagination.Total, nil
}

// CreateAssetFolder creates a subfolder under the configured parent folder.
func (c *Client) CreateAssetFolder(ctx context.Context, displayName string) (*repository.AssetFolder, error) {
	url := fmt.Sprintf("%s/sites/%s/asset_folders", c.baseURL, c.siteID)
	payload := map[string]interface{}{
		"displayName":  displayName,
		"parentFolder": c.parentFolderID,
	}

	var folder repository.AssetFolder
	if err := c.doJSON(ctx, "POST", url, payload, &folder); err != nil {
		return nil, err
	}
	c.log.Info("created asset folder",
		zap.String("folder_id", folder.ID),
		zap.String("display_name", displayName))
	return &folder, nil
}

// GetAssetFolder fetches one folder's details, including its asset ids.
func (c *Client) GetAssetFolder(ctx context.Context, folderID string) (*repository.AssetFolder, error) {
	url := fmt.Sprintf("%s/asset_folders/%s", c.baseURL, folderID)

	var folder repository.AssetFolder
	if err := c.doJSON(ctx, "GET", url, nil, &folder); err != nil {
		return nil, err
	}
	return &folder, nil
}
