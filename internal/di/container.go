package di

import (
	"context"
	"fmt"
	"os"
	"sync"

	"sclhub-api/internal/cluster"
	"sclhub-api/internal/cluster/config"
	"sclhub-api/internal/shared/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Container holds the application's explicitly constructed dependencies and
// manages their lifecycle.
type Container struct {
	mu sync.RWMutex

	ClusterModule *cluster.Module
	MongoDB       *mongo.Database
	Config        *config.Config
	Logger        logger.Logger

	zapLogger *zap.Logger
}

// NewContainer creates a new DI container.
func NewContainer() *Container {
	return &Container{}
}

// InitializeCluster wires the cluster module against the given database and
// configuration.
func (c *Container) InitializeCluster(mongoDB *mongo.Database, cfg *config.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.MongoDB = mongoDB
	c.Config = cfg

	if c.Logger == nil {
		c.Logger = logger.NewLogger()
	}
	if c.zapLogger == nil {
		c.zapLogger = newZapLogger()
	}

	module, err := cluster.NewModule(mongoDB, cfg, c.Logger, c.zapLogger)
	if err != nil {
		return fmt.Errorf("failed to create cluster module: %w", err)
	}

	c.ClusterModule = module
	return nil
}

// GetClusterModule returns the cluster module instance.
func (c *Container) GetClusterModule() *cluster.Module {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ClusterModule
}

// HealthCheck verifies that all managed services are healthy.
func (c *Container) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.ClusterModule == nil {
		return fmt.Errorf("cluster module not initialized")
	}
	return c.ClusterModule.HealthCheck(ctx)
}

// Close releases container resources.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.zapLogger != nil {
		_ = c.zapLogger.Sync()
	}
	return nil
}

func newZapLogger() *zap.Logger {
	env := os.Getenv("ENVIRONMENT")
	if env == "production" || env == "prod" {
		log, err := zap.NewProduction()
		if err == nil {
			return log
		}
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return log
}
