package http

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"sclhub-api/internal/cluster/config"
	"sclhub-api/internal/cluster/domain/model"
	"sclhub-api/internal/cluster/domain/repository"
	"sclhub-api/internal/cluster/usecase"
	"sclhub-api/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdminApp(clusters usecase.ClusterUsecaseInterface, assets usecase.AssetUsecaseInterface) *fiber.App {
	app := fiber.New()
	handler := NewAdminHandler(clusters, assets, &config.Config{}, logger.NewLogger())
	handler.RegisterRoutes(app.Group("/api/admin"))
	return app
}

func TestAdminHandlerGetDetails(t *testing.T) {
	clusters := &mockClusterUsecase{
		getDetailsFn: func(_ context.Context, clusterID string) (*usecase.ClusterDetails, error) {
			assert.Equal(t, "cluster-1", clusterID)
			return &usecase.ClusterDetails{
				Item:     &model.Item{ID: clusterID},
				OwnerUID: "user-9",
				Assets:   map[string]interface{}{},
			}, nil
		},
	}
	app := newAdminApp(clusters, &mockAssetUsecase{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/admin/cluster/cluster-1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, "user-9", body["ownerUid"])
}

func TestAdminHandlerUpdate_NilPrincipal(t *testing.T) {
	var gotPrincipal *repository.Principal = &repository.Principal{UID: "sentinel"}
	clusters := &mockClusterUsecase{
		updateFn: func(_ context.Context, principal *repository.Principal, clusterID string, fields map[string]interface{}) (*model.Item, error) {
			gotPrincipal = principal
			return &model.Item{ID: clusterID, FieldData: fields}, nil
		},
	}
	app := newAdminApp(clusters, &mockAssetUsecase{})

	req := httptest.NewRequest("PATCH", "/api/admin/cluster/cluster-1", strings.NewReader(`{"name":"Renamed"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Nil(t, gotPrincipal, "the admin surface passes no principal")

	body := decodeBody(t, resp.Body)
	assert.Equal(t, "Admin successfully updated cluster!", body["message"])
}

func TestAdminHandlerPublish(t *testing.T) {
	clusters := &mockClusterUsecase{
		publishFn: func(_ context.Context, principal *repository.Principal, clusterID string) (*usecase.PublishResult, error) {
			assert.Nil(t, principal)
			return &usecase.PublishResult{LiveURL: "https://sclhub.webflow.io/directory-asa/any"}, nil
		},
	}
	app := newAdminApp(clusters, &mockAssetUsecase{})

	resp, err := app.Test(httptest.NewRequest("POST", "/api/admin/cluster/cluster-1/publish", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, "https://sclhub.webflow.io/directory-asa/any", body["publishedUrl"])
}

func TestAdminHandlerDelete(t *testing.T) {
	deleted := ""
	clusters := &mockClusterUsecase{
		deleteFn: func(_ context.Context, principal *repository.Principal, clusterID string) error {
			assert.Nil(t, principal)
			deleted = clusterID
			return nil
		},
	}
	app := newAdminApp(clusters, &mockAssetUsecase{})

	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/admin/cluster/cluster-1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "cluster-1", deleted)

	body := decodeBody(t, resp.Body)
	assert.Contains(t, body["message"], "successfully deleted")
}

func TestAdminHandlerUploadImage(t *testing.T) {
	assets := &mockAssetUsecase{
		uploadFn: func(_ context.Context, req usecase.UploadRequest) (*model.UploadResult, error) {
			assert.Equal(t, "cluster-1", req.ClusterID)
			assert.Equal(t, model.SlotBannerWide, req.Slot)
			return &model.UploadResult{URL: "https://cdn.example/banner.webp"}, nil
		},
	}
	app := newAdminApp(&mockClusterUsecase{}, assets)

	body, contentType := multipartImage(t, "banner.webp", []byte("banner bytes"))
	req := httptest.NewRequest("POST", "/api/admin/cluster/cluster-1/image?type=banner-16-9", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	respBody := decodeBody(t, resp.Body)
	assert.Equal(t, "https://cdn.example/banner.webp", respBody["imageUrl"])
}
