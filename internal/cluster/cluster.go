package cluster

import (
	"context"
	"fmt"

	clusterhttp "sclhub-api/internal/cluster/adapter/http"
	"sclhub-api/internal/cluster/adapter/persistence/mongodb"
	"sclhub-api/internal/cluster/adapter/security"
	"sclhub-api/internal/cluster/adapter/webflow"
	"sclhub-api/internal/cluster/config"
	"sclhub-api/internal/cluster/usecase"
	"sclhub-api/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Module wires the cluster feature: the Webflow client, the document store,
// the usecases and the HTTP surface. All collaborators are constructed
// explicitly and injected; there is no shared global client handle.
type Module struct {
	config       *config.Config
	store        *mongodb.DocumentStore
	cms          *webflow.Client
	clusterUC    *usecase.ClusterUsecase
	assetUC      *usecase.AssetUsecase
	middleware   *clusterhttp.AuthMiddleware
	handler      *clusterhttp.ClusterHandler
	adminHandler *clusterhttp.AdminHandler
}

// NewModule creates a fully wired cluster module.
func NewModule(db *mongo.Database, cfg *config.Config, appLogger logger.Logger, zapLogger *zap.Logger) (*Module, error) {
	if zapLogger == nil {
		zapLogger = zap.NewNop()
	}

	store := mongodb.NewDocumentStore(db, zapLogger)

	cms := webflow.NewClient(webflow.Options{
		BaseURL:        cfg.WebflowAPIBaseURL,
		Token:          cfg.WebflowAPIToken,
		SiteID:         cfg.WebflowSiteID,
		CollectionID:   cfg.WebflowCollectionID,
		ParentFolderID: cfg.ParentAssetFolderID,
		Timeout:        cfg.RemoteTimeout,
		Logger:         zapLogger,
	})

	verifier, err := security.NewJWTVerifier(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create token verifier: %w", err)
	}
	adminCreds := security.NewAdminCredentials(cfg.AdminUsername, cfg.AdminPassword)

	assetUC := usecase.NewAssetUsecase(cms, store, cfg, zapLogger)
	clusterUC := usecase.NewClusterUsecase(cms, store, assetUC, cfg, zapLogger)

	middleware := clusterhttp.NewAuthMiddleware(verifier, adminCreds)
	handler := clusterhttp.NewClusterHandler(clusterUC, assetUC, cfg, appLogger)
	adminHandler := clusterhttp.NewAdminHandler(clusterUC, assetUC, cfg, appLogger)

	return &Module{
		config:       cfg,
		store:        store,
		cms:          cms,
		clusterUC:    clusterUC,
		assetUC:      assetUC,
		middleware:   middleware,
		handler:      handler,
		adminHandler: adminHandler,
	}, nil
}

// RegisterRoutes mounts the API surface on the given router.
func (m *Module) RegisterRoutes(router fiber.Router) {
	api := router.Group("/api", m.middleware.RequestID())

	api.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "SCL Hub API is running!"})
	})

	clusters := api.Group("/clusters", m.middleware.RequireUser())
	m.handler.RegisterRoutes(clusters)

	admin := api.Group("/admin", m.middleware.RequireAdmin())
	m.adminHandler.RegisterRoutes(admin)
}

// HealthCheck pings the module's dependencies.
func (m *Module) HealthCheck(ctx context.Context) error {
	if err := m.store.Ping(ctx); err != nil {
		return fmt.Errorf("document store unhealthy: %w", err)
	}
	return nil
}
