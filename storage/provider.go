package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound 对象不存在（软缺失，区别于后端故障）
var ErrNotFound = errors.New("storage: object not found")

// ErrNotConfigured 必需的存储配置缺失
var ErrNotConfigured = errors.New("storage: storage not configured")

// Provider 存储提供者接口 - 依赖倒置的核心抽象
// 所有操作均为远程 I/O，无本地缓存、无重试
type Provider interface {
	// Save 保存对象，覆盖写语义（同 key 幂等替换）
	Save(ctx context.Context, key string, r io.Reader, contentType string) error

	// Get 获取对象，不存在时返回 ErrNotFound
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete 删除对象，key 不存在不视为错误
	Delete(ctx context.Context, key string) error

	// Exists 检查对象是否存在，仅用于去重探测
	Exists(ctx context.Context, key string) (bool, error)

	// Health 检查存储健康状态
	Health(ctx context.Context) error

	// Name 返回存储名称
	Name() string
}
