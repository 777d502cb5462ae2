package http

import (
	"context"
	"errors"

	"sclhub-api/internal/cluster/domain/model"
	"sclhub-api/internal/cluster/domain/repository"
	"sclhub-api/internal/cluster/usecase"
)

var errUnexpectedCall = errors.New("unexpected call")

// mockClusterUsecase is a function-backed ClusterUsecaseInterface double.
type mockClusterUsecase struct {
	createFn     func(ctx context.Context, principal *repository.Principal, input usecase.CreateClusterInput) (*model.Item, error)
	getFn        func(ctx context.Context, principal *repository.Principal, clusterID string) (*model.Item, error)
	listFn       func(ctx context.Context, principal *repository.Principal) ([]model.Item, error)
	updateFn     func(ctx context.Context, principal *repository.Principal, clusterID string, fields map[string]interface{}) (*model.Item, error)
	deleteFn     func(ctx context.Context, principal *repository.Principal, clusterID string) error
	publishFn    func(ctx context.Context, principal *repository.Principal, clusterID string) (*usecase.PublishResult, error)
	getDetailsFn func(ctx context.Context, clusterID string) (*usecase.ClusterDetails, error)
}

var _ usecase.ClusterUsecaseInterface = (*mockClusterUsecase)(nil)

func (m *mockClusterUsecase) Create(ctx context.Context, principal *repository.Principal, input usecase.CreateClusterInput) (*model.Item, error) {
	if m.createFn == nil {
		return nil, errUnexpectedCall
	}
	return m.createFn(ctx, principal, input)
}

func (m *mockClusterUsecase) Get(ctx context.Context, principal *repository.Principal, clusterID string) (*model.Item, error) {
	if m.getFn == nil {
		return nil, errUnexpectedCall
	}
	return m.getFn(ctx, principal, clusterID)
}

func (m *mockClusterUsecase) List(ctx context.Context, principal *repository.Principal) ([]model.Item, error) {
	if m.listFn == nil {
		return nil, errUnexpectedCall
	}
	return m.listFn(ctx, principal)
}

func (m *mockClusterUsecase) Update(ctx context.Context, principal *repository.Principal, clusterID string, fields map[string]interface{}) (*model.Item, error) {
	if m.updateFn == nil {
		return nil, errUnexpectedCall
	}
	return m.updateFn(ctx, principal, clusterID, fields)
}

func (m *mockClusterUsecase) Delete(ctx context.Context, principal *repository.Principal, clusterID string) error {
	if m.deleteFn == nil {
		return errUnexpectedCall
	}
	return m.deleteFn(ctx, principal, clusterID)
}

func (m *mockClusterUsecase) Publish(ctx context.Context, principal *repository.Principal, clusterID string) (*usecase.PublishResult, error) {
	if m.publishFn == nil {
		return nil, errUnexpectedCall
	}
	return m.publishFn(ctx, principal, clusterID)
}

func (m *mockClusterUsecase) GetDetails(ctx context.Context, clusterID string) (*usecase.ClusterDetails, error) {
	if m.getDetailsFn == nil {
		return nil, errUnexpectedCall
	}
	return m.getDetailsFn(ctx, clusterID)
}

// mockAssetUsecase is a function-backed AssetUsecaseInterface double.
type mockAssetUsecase struct {
	uploadFn        func(ctx context.Context, req usecase.UploadRequest) (*model.UploadResult, error)
	resolveFolderFn func(ctx context.Context, clusterID string) (string, error)
	cleanupFn       func(ctx context.Context, clusterID string) error
}

var _ usecase.AssetUsecaseInterface = (*mockAssetUsecase)(nil)

func (m *mockAssetUsecase) Upload(ctx context.Context, req usecase.UploadRequest) (*model.UploadResult, error) {
	if m.uploadFn == nil {
		return nil, errUnexpectedCall
	}
	return m.uploadFn(ctx, req)
}

func (m *mockAssetUsecase) ResolveFolder(ctx context.Context, clusterID string) (string, error) {
	if m.resolveFolderFn == nil {
		return "", errUnexpectedCall
	}
	return m.resolveFolderFn(ctx, clusterID)
}

func (m *mockAssetUsecase) CleanupClusterAssets(ctx context.Context, clusterID string) error {
	if m.cleanupFn == nil {
		return errUnexpectedCall
	}
	return m.cleanupFn(ctx, clusterID)
}

// mockVerifier is a function-backed TokenVerifier double.
type mockVerifier struct {
	verifyFn func(ctx context.Context, token string) (*repository.Principal, error)
}

var _ repository.TokenVerifier = (*mockVerifier)(nil)

func (m *mockVerifier) Verify(ctx context.Context, token string) (*repository.Principal, error) {
	if m.verifyFn == nil {
		return nil, errUnexpectedCall
	}
	return m.verifyFn(ctx, token)
}
