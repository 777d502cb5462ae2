package repository

import (
	"context"
	"io"

	"sclhub-api/internal/cluster/domain/model"
)

// AssetFolder is a CMS-side logical subfolder. Folders are created one per
// cluster, named by the cluster id, and are never deleted (the remote API
// has no folder delete).
type AssetFolder struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"displayName"`
	Assets      []string `json:"assets,omitempty"`
}

// AssetRegistration is the metadata sent when registering a new asset.
type AssetRegistration struct {
	FileName     string `json:"fileName"`
	FileHash     string `json:"fileHash"`
	ParentFolder string `json:"parentFolder,omitempty"`
}

// RegisteredAsset is the upload target returned by asset registration: the
// permanent id/URL plus the presigned POST the raw bytes must be sent to.
type RegisteredAsset struct {
	ID            string            `json:"id"`
	UploadURL     string            `json:"uploadUrl"`
	UploadDetails map[string]string `json:"uploadDetails"`
	HostedURL     string            `json:"hostedUrl"`
}

// CMSClient is the port to the remote CMS. Implementations depend only on
// the stable HTTP contract, never on a concrete SDK. Remote transient
// conditions surface as apperrors: conflicts via IsConflict, missing
// resources via IsNotFound.
type CMSClient interface {
	// Collection items
	CreateItem(ctx context.Context, fieldData map[string]interface{}) (*model.Item, error)
	GetItem(ctx context.Context, itemID string) (*model.Item, error)
	UpdateItem(ctx context.Context, itemID string, fieldData map[string]interface{}) (*model.Item, error)
	DeleteItem(ctx context.Context, itemID string) error
	ListItems(ctx context.Context) ([]model.Item, error)
	PublishItems(ctx context.Context, itemIDs []string) error

	// Asset folders, paginated by offset+limit
	ListAssetFolders(ctx context.Context, offset, limit int) (folders []AssetFolder, total int, err error)
	CreateAssetFolder(ctx context.Context, displayName string) (*AssetFolder, error)
	GetAssetFolder(ctx context.Context, folderID string) (*AssetFolder, error)

	// Assets
	RegisterAsset(ctx context.Context, reg AssetRegistration) (*RegisteredAsset, error)
	UploadAssetFile(ctx context.Context, uploadURL string, details map[string]string, file io.Reader, fileName string) error
	DeleteAsset(ctx context.Context, assetID string) error
}
