package usecase

import (
	"context"
	"errors"
	"io"

	"sclhub-api/internal/cluster/config"
	"sclhub-api/internal/cluster/domain/model"
	"sclhub-api/internal/cluster/domain/repository"
)

// testConfig returns a config with production-like defaults.
func testConfig() *config.Config {
	return &config.Config{
		WebflowAPIBaseURL: "https://api.webflow.example",
		PublicSiteBaseURL: "https://sclhub.webflow.io/directory-asa",
		MaxUploadBytes:    3670016,
		AllowedImageTypes: []string{"image/webp"},
	}
}

var errUnexpectedCall = errors.New("unexpected call")

var (
	_ repository.CMSClient     = (*fakeCMS)(nil)
	_ repository.DocumentStore = (*fakeStore)(nil)
	_ AssetUsecaseInterface    = (*fakeAssets)(nil)
	_ ClusterUsecaseInterface  = (*ClusterUsecase)(nil)
	_ AssetUsecaseInterface    = (*AssetUsecase)(nil)
)

// fakeCMS is a function-backed CMSClient double. Calls without a configured
// function fail loudly so a test never silently exercises an unexpected path.
type fakeCMS struct {
	createItemFn   func(ctx context.Context, fieldData map[string]interface{}) (*model.Item, error)
	getItemFn      func(ctx context.Context, itemID string) (*model.Item, error)
	updateItemFn   func(ctx context.Context, itemID string, fieldData map[string]interface{}) (*model.Item, error)
	deleteItemFn   func(ctx context.Context, itemID string) error
	listItemsFn    func(ctx context.Context) ([]model.Item, error)
	publishFn      func(ctx context.Context, itemIDs []string) error
	listFoldersFn  func(ctx context.Context, offset, limit int) ([]repository.AssetFolder, int, error)
	createFolderFn func(ctx context.Context, displayName string) (*repository.AssetFolder, error)
	getFolderFn    func(ctx context.Context, folderID string) (*repository.AssetFolder, error)
	registerFn     func(ctx context.Context, reg repository.AssetRegistration) (*repository.RegisteredAsset, error)
	uploadFn       func(ctx context.Context, uploadURL string, details map[string]string, file io.Reader, fileName string) error
	deleteAssetFn  func(ctx context.Context, assetID string) error

	createItemCalls  int
	getItemCalls     int
	updateItemCalls  int
	deleteItemCalls  int
	listItemsCalls   int
	publishCalls     int
	listFolderCalls  int
	createFolderCall int
	getFolderCalls   int
	registerCalls    int
	uploadCalls      int
	deletedAssets    []string
}

func (f *fakeCMS) remoteCalls() int {
	return f.createItemCalls + f.getItemCalls + f.updateItemCalls + f.deleteItemCalls +
		f.listItemsCalls + f.publishCalls + f.listFolderCalls + f.createFolderCall +
		f.getFolderCalls + f.registerCalls + f.uploadCalls + len(f.deletedAssets)
}

func (f *fakeCMS) CreateItem(ctx context.Context, fieldData map[string]interface{}) (*model.Item, error) {
	f.createItemCalls++
	if f.createItemFn == nil {
		return nil, errUnexpectedCall
	}
	return f.createItemFn(ctx, fieldData)
}

func (f *fakeCMS) GetItem(ctx context.Context, itemID string) (*model.Item, error) {
	f.getItemCalls++
	if f.getItemFn == nil {
		return nil, errUnexpectedCall
	}
	return f.getItemFn(ctx, itemID)
}

func (f *fakeCMS) UpdateItem(ctx context.Context, itemID string, fieldData map[string]interface{}) (*model.Item, error) {
	f.updateItemCalls++
	if f.updateItemFn == nil {
		return nil, errUnexpectedCall
	}
	return f.updateItemFn(ctx, itemID, fieldData)
}

func (f *fakeCMS) DeleteItem(ctx context.Context, itemID string) error {
	f.deleteItemCalls++
	if f.deleteItemFn == nil {
		return errUnexpectedCall
	}
	return f.deleteItemFn(ctx, itemID)
}

func (f *fakeCMS) ListItems(ctx context.Context) ([]model.Item, error) {
	f.listItemsCalls++
	if f.listItemsFn == nil {
		return nil, errUnexpectedCall
	}
	return f.listItemsFn(ctx)
}

func (f *fakeCMS) PublishItems(ctx context.Context, itemIDs []string) error {
	f.publishCalls++
	if f.publishFn == nil {
		return errUnexpectedCall
	}
	return f.publishFn(ctx, itemIDs)
}

func (f *fakeCMS) ListAssetFolders(ctx context.Context, offset, limit int) ([]repository.AssetFolder, int, error) {
	f.listFolderCalls++
	if f.listFoldersFn == nil {
		return nil, 0, errUnexpectedCall
	}
	return f.listFoldersFn(ctx, offset, limit)
}

func (f *fakeCMS) CreateAssetFolder(ctx context.Context, displayName string) (*repository.AssetFolder, error) {
	f.createFolderCall++
	if f.createFolderFn == nil {
		return nil, errUnexpectedCall
	}
	return f.createFolderFn(ctx, displayName)
}

func (f *fakeCMS) GetAssetFolder(ctx context.Context, folderID string) (*repository.AssetFolder, error) {
	f.getFolderCalls++
	if f.getFolderFn == nil {
		return nil, errUnexpectedCall
	}
	return f.getFolderFn(ctx, folderID)
}

func (f *fakeCMS) RegisterAsset(ctx context.Context, reg repository.AssetRegistration) (*repository.RegisteredAsset, error) {
	f.registerCalls++
	if f.registerFn == nil {
		return nil, errUnexpectedCall
	}
	return f.registerFn(ctx, reg)
}

func (f *fakeCMS) UploadAssetFile(ctx context.Context, uploadURL string, details map[string]string, file io.Reader, fileName string) error {
	f.uploadCalls++
	if f.uploadFn == nil {
		return errUnexpectedCall
	}
	return f.uploadFn(ctx, uploadURL, details, file, fileName)
}

func (f *fakeCMS) DeleteAsset(ctx context.Context, assetID string) error {
	f.deletedAssets = append(f.deletedAssets, assetID)
	if f.deleteAssetFn == nil {
		return errUnexpectedCall
	}
	return f.deleteAssetFn(ctx, assetID)
}

// storeCall records one mutating document-store invocation.
type storeCall struct {
	op         string
	collection string
	key        string
	field      string
	values     []interface{}
	fields     map[string]interface{}
}

// fakeStore is a function-backed DocumentStore double that records every
// mutation in order.
type fakeStore struct {
	getFn         func(ctx context.Context, collection, key string) (map[string]interface{}, bool, error)
	setMergeFn    func(ctx context.Context, collection, key string, fields map[string]interface{}) error
	deleteFn      func(ctx context.Context, collection, key string) error
	arrayUnionFn  func(ctx context.Context, collection, key, field string, values ...interface{}) error
	arrayRemoveFn func(ctx context.Context, collection, key, field string, values ...interface{}) error

	calls []storeCall
}

func (f *fakeStore) mutations() []storeCall {
	return f.calls
}

func (f *fakeStore) Get(ctx context.Context, collection, key string) (map[string]interface{}, bool, error) {
	if f.getFn == nil {
		return nil, false, nil
	}
	return f.getFn(ctx, collection, key)
}

func (f *fakeStore) SetMerge(ctx context.Context, collection, key string, fields map[string]interface{}) error {
	f.calls = append(f.calls, storeCall{op: "setMerge", collection: collection, key: key, fields: fields})
	if f.setMergeFn == nil {
		return nil
	}
	return f.setMergeFn(ctx, collection, key, fields)
}

func (f *fakeStore) Delete(ctx context.Context, collection, key string) error {
	f.calls = append(f.calls, storeCall{op: "delete", collection: collection, key: key})
	if f.deleteFn == nil {
		return nil
	}
	return f.deleteFn(ctx, collection, key)
}

func (f *fakeStore) ArrayUnion(ctx context.Context, collection, key, field string, values ...interface{}) error {
	f.calls = append(f.calls, storeCall{op: "arrayUnion", collection: collection, key: key, field: field, values: values})
	if f.arrayUnionFn == nil {
		return nil
	}
	return f.arrayUnionFn(ctx, collection, key, field, values...)
}

func (f *fakeStore) ArrayRemove(ctx context.Context, collection, key, field string, values ...interface{}) error {
	f.calls = append(f.calls, storeCall{op: "arrayRemove", collection: collection, key: key, field: field, values: values})
	if f.arrayRemoveFn == nil {
		return nil
	}
	return f.arrayRemoveFn(ctx, collection, key, field, values...)
}

// fakeAssets is a function-backed AssetUsecaseInterface double for the
// cluster facade tests.
type fakeAssets struct {
	uploadFn        func(ctx context.Context, req UploadRequest) (*model.UploadResult, error)
	resolveFolderFn func(ctx context.Context, clusterID string) (string, error)
	cleanupFn       func(ctx context.Context, clusterID string) error

	cleanupCalls []string
}

func (f *fakeAssets) Upload(ctx context.Context, req UploadRequest) (*model.UploadResult, error) {
	if f.uploadFn == nil {
		return nil, errUnexpectedCall
	}
	return f.uploadFn(ctx, req)
}

func (f *fakeAssets) ResolveFolder(ctx context.Context, clusterID string) (string, error) {
	if f.resolveFolderFn == nil {
		return "", errUnexpectedCall
	}
	return f.resolveFolderFn(ctx, clusterID)
}

func (f *fakeAssets) CleanupClusterAssets(ctx context.Context, clusterID string) error {
	if f.cleanupFn == nil {
		return errUnexpectedCall
	}
	return f.cleanupFn(ctx, clusterID)
}
