package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/studio-b12/gowebdav"
)

// WebDAVConfig WebDAV 配置结构
type WebDAVConfig struct {
	URL      string
	Username string
	Password string
	RootPath string
}

// WebDAVStorage WebDAV 存储实现
type WebDAVStorage struct {
	client   *gowebdav.Client
	rootPath string
}

// NewWebDAVStorage 创建 WebDAV 存储提供者
func NewWebDAVStorage(cfg WebDAVConfig) (*WebDAVStorage, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("webdav URL is required")
	}

	rootPath := strings.Trim(cfg.RootPath, "/")
	if rootPath != "" {
		rootPath = "/" + rootPath
	}

	client := gowebdav.NewClient(cfg.URL, cfg.Username, cfg.Password)

	return &WebDAVStorage{
		client:   client,
		rootPath: rootPath,
	}, nil
}

// fullPath 生成完整的 WebDAV 路径
func (s *WebDAVStorage) fullPath(key string) string {
	key = strings.TrimLeft(key, "/")
	if s.rootPath != "" {
		return s.rootPath + "/" + key
	}
	return "/" + key
}

// ensureParentDir 逐级创建父目录
func (s *WebDAVStorage) ensureParentDir(fullPath string) error {
	parentDir := path.Dir(fullPath)
	if parentDir == "/" || parentDir == "." {
		return nil
	}

	parts := strings.Split(strings.Trim(parentDir, "/"), "/")
	currentPath := ""
	for _, part := range parts {
		if part == "" {
			continue
		}
		currentPath = currentPath + "/" + part

		if err := s.client.Mkdir(currentPath, os.FileMode(0755)); err != nil {
			if !isCollectionExistsError(err) {
				return fmt.Errorf("failed to create directory %s: %w", currentPath, err)
			}
		}
	}

	return nil
}

// isCollectionExistsError 判断是否为目录已存在的错误
func isCollectionExistsError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	containsAny := []string{
		"already exists",
		"conflict",
		"Conflict",
		"409",
		"Method Not Allowed",
		"405",
	}
	for _, s := range containsAny {
		if strings.Contains(errStr, s) {
			return true
		}
	}
	return false
}

// Save 保存对象到 WebDAV
func (s *WebDAVStorage) Save(ctx context.Context, key string, r io.Reader, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fullPath := s.fullPath(key)

	if err := s.ensureParentDir(fullPath); err != nil {
		return fmt.Errorf("failed to ensure parent directory for %s: %w", key, err)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read content: %w", err)
	}

	if err := s.client.Write(fullPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", key, err)
	}
	return nil
}

// Get 从 WebDAV 获取对象
func (s *WebDAVStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fullPath := s.fullPath(key)

	stream, err := s.client.ReadStream(fullPath)
	if err != nil {
		if isNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read file %s: %w", key, err)
	}

	return stream, nil
}

// Delete 从 WebDAV 删除对象，不存在不视为错误
func (s *WebDAVStorage) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fullPath := s.fullPath(key)

	if err := s.client.Remove(fullPath); err != nil {
		if isNotFoundError(err) {
			return nil
		}
		return fmt.Errorf("failed to delete file %s: %w", key, err)
	}
	return nil
}

// Exists 检查对象是否存在
func (s *WebDAVStorage) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	fullPath := s.fullPath(key)

	_, err := s.client.Stat(fullPath)
	if err != nil {
		if isNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat file %s: %w", key, err)
	}
	return true, nil
}

// isNotFoundError 判断是否为 404 错误
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "404") || strings.Contains(errStr, "Not Found")
}

// Health 检查存储健康状态
func (s *WebDAVStorage) Health(ctx context.Context) error {
	rootPath := s.rootPath
	if rootPath == "" {
		rootPath = "/"
	}
	_, err := s.client.ReadDir(rootPath)
	return err
}

// Name 返回存储名称
func (s *WebDAVStorage) Name() string {
	return "webdav"
}
