package config

import (
	"errors"

	"github.com/caarlos0/env/v6"
)

// StorageConfig holds the blob-store connection settings. The bucket API
// is addressed by {endpoint, projectId, bucketId}; the API key
// authenticates server-side uploads.
type StorageConfig struct {
	Endpoint  string `env:"STORAGE_ENDPOINT" envDefault:"https://cloud.appwrite.io/v1"`
	ProjectID string `env:"STORAGE_PROJECT_ID"`
	BucketID  string `env:"STORAGE_BUCKET_ID"`
	APIKey    string `env:"STORAGE_API_KEY"`
}

// CampusConfig holds all configuration for the campus module.
type CampusConfig struct {
	MongoDBURI   string `env:"MONGODB_URI,required"`
	DatabaseName string `env:"MONGODB_DATABASE" envDefault:"campus"`

	Storage StorageConfig
}

// LoadConfig loads configuration from environment variables and applies
// defaults. Store endpoints and identifiers are never compiled in.
func LoadConfig() (*CampusConfig, error) {
	cfg := &CampusConfig{}

	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load campus configuration from environment: " + err.Error())
	}
	if err := env.Parse(&cfg.Storage); err != nil {
		return nil, errors.New("failed to load storage configuration from environment: " + err.Error())
	}

	if cfg.MongoDBURI == "" {
		return nil, errors.New("MONGODB_URI environment variable is not set")
	}
	if cfg.Storage.ProjectID == "" {
		return nil, errors.New("STORAGE_PROJECT_ID environment variable is not set")
	}
	if cfg.Storage.BucketID == "" {
		return nil, errors.New("STORAGE_BUCKET_ID environment variable is not set")
	}

	return cfg, nil
}
