package storagefactory

import (
	"fmt"

	"lingoreel/internal/config"
	"lingoreel/internal/pkg/storage"
	"lingoreel/internal/pkg/storage/local"
	"lingoreel/internal/pkg/storage/oss"
)

// NewStorage builds the publish backend selected by config. A missing
// local config falls back to defaultBasePath, which callers set to the
// pipeline's output directory so `publish` works out of the box.
func NewStorage(cfg *config.StorageConfig, defaultBasePath string) (storage.Storage, error) {
	switch cfg.Type {
	case "local", "":
		basePath := defaultBasePath
		baseURL := ""
		if cfg.Local != nil {
			if cfg.Local.BasePath != "" {
				basePath = cfg.Local.BasePath
			}
			baseURL = cfg.Local.BaseURL
		}
		return local.NewStorage(basePath, baseURL)
	case "oss":
		if cfg.OSS == nil {
			return nil, fmt.Errorf("oss storage config is required")
		}
		return oss.NewStorage(
			cfg.OSS.Endpoint,
			cfg.OSS.Bucket,
			cfg.OSS.AccessKeyID,
			cfg.OSS.AccessKeySecret,
			cfg.OSS.PresignExpiry,
		)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
