package storage

import (
	"fmt"
	"log"

	"github.com/anoixa/gen-studio/config"
)

// New 根据配置创建存储提供者
// 必需配置缺失时返回 ErrNotConfigured，调用方据此让所有
// 历史/图片接口直接短路为 "storage not configured"
func New(cfg *config.Config) (Provider, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = "minio"
	}

	log.Printf("Initializing storage, type: %s", storageType)

	switch storageType {
	case "local":
		if cfg.LocalPath == "" {
			return nil, ErrNotConfigured
		}
		return NewLocalStorage(cfg.LocalPath)
	case "webdav":
		if cfg.WebdavURL == "" {
			return nil, ErrNotConfigured
		}
		return NewWebDAVStorage(WebDAVConfig{
			URL:      cfg.WebdavURL,
			Username: cfg.WebdavUsername,
			Password: cfg.WebdavPassword,
			RootPath: cfg.WebdavRootPath,
		})
	case "minio":
		if cfg.StorageEndpoint == "" || cfg.StorageAccessKey == "" ||
			cfg.StorageSecretKey == "" || cfg.StorageBucket == "" {
			return nil, ErrNotConfigured
		}
		return NewMinioStorage(cfg)
	default:
		return nil, fmt.Errorf("invalid storage type specified in config: %s", storageType)
	}
}
