package config

import (
	"errors"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds all configuration for the cluster module. Every remote
// identifier is required: a missing value must fail startup with a clear
// error instead of an obscure downstream failure.
type Config struct {
	// Webflow CMS
	WebflowAPIToken     string `env:"WEBFLOW_API_TOKEN,required"`
	WebflowSiteID       string `env:"WEBFLOW_SITE_ID,required"`
	WebflowCollectionID string `env:"WEBFLOW_CLUSTER_COLLECTION_ID,required"`
	ParentAssetFolderID string `env:"WEBFLOW_PARENT_ASSET_FOLDER_ID,required"`
	WebflowAPIBaseURL   string `env:"WEBFLOW_API_BASE_URL" envDefault:"https://api.webflow.com/v2"`
	PublicSiteBaseURL   string `env:"PUBLIC_SITE_BASE_URL" envDefault:"https://sclhub.webflow.io/directory-asa"`

	// Document store
	MongoDBURI   string `env:"MONGODB_URI,required"`
	DatabaseName string `env:"DATABASE_NAME" envDefault:"sclhub"`

	// Auth
	AuthSecretKey string `env:"AUTH_SECRET_KEY,required"`
	AuthIssuer    string `env:"AUTH_ISSUER" envDefault:"sclhub-auth"`
	AdminUsername string `env:"ADMIN_USERNAME,required"`
	AdminPassword string `env:"ADMIN_PASSWORD,required"`

	// Upload limits
	MaxUploadBytes    int64    `env:"MAX_UPLOAD_BYTES" envDefault:"3670016"` // 3.5 MiB
	AllowedImageTypes []string `env:"ALLOWED_IMAGE_TYPES" envDefault:"image/webp" envSeparator:","`

	// Every remote call runs under this timeout and surfaces a retryable
	// error on expiry rather than hanging.
	RemoteTimeout time.Duration `env:"REMOTE_TIMEOUT" envDefault:"15s"`
}

// LoadConfig loads configuration from environment variables and applies defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load configuration from environment: " + err.Error() +
			". Please ensure all required environment variables are set.")
	}

	if cfg.MaxUploadBytes <= 0 {
		return nil, errors.New("max_upload_bytes must be positive")
	}
	if cfg.RemoteTimeout <= 0 {
		return nil, errors.New("remote_timeout must be positive")
	}

	for i, mime := range cfg.AllowedImageTypes {
		cfg.AllowedImageTypes[i] = strings.ToLower(strings.TrimSpace(mime))
	}

	cfg.WebflowAPIBaseURL = strings.TrimRight(cfg.WebflowAPIBaseURL, "/")
	cfg.PublicSiteBaseURL = strings.TrimRight(cfg.PublicSiteBaseURL, "/")

	return cfg, nil
}

// MimeAllowed reports whether the content type is in the configured allow-list.
func (c *Config) MimeAllowed(mime string) bool {
	mime = strings.ToLower(mime)
	for _, allowed := range c.AllowedImageTypes {
		if mime == allowed {
			return true
		}
	}
	return false
}
