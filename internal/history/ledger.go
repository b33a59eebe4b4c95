// Package history maintains the per-user generation history: an ordered
// JSON document in the object store, newest first, capped at MaxItems.
//
// The document is read-then-written with no locking or version check.
// Two concurrent writers for the same user race and the later Save wins,
// silently discarding the earlier writer's changes. Known limitation,
// kept deliberately; see the lost-update test.
package history

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/anoixa/gen-studio/storage"
)

// ErrItemNotFound 历史记录中不存在该 ID
var ErrItemNotFound = errors.New("history: item not found")

// Ledger 用户历史账本
type Ledger struct {
	provider storage.Provider
}

func NewLedger(provider storage.Provider) *Ledger {
	return &Ledger{provider: provider}
}

// Load 读取用户历史，任何读取失败（包括文档不存在）都按空历史处理
func (l *Ledger) Load(ctx context.Context, userID string) []Item {
	rc, err := l.provider.Get(ctx, DocKey(userID))
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("[Ledger] Failed to load history for user %s: %v", userID, err)
		}
		return []Item{}
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	if err != nil {
		log.Printf("[Ledger] Failed to read history document for user %s: %v", userID, err)
		return []Item{}
	}

	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		log.Printf("[Ledger] Corrupt history document for user %s: %v", userID, err)
		return []Item{}
	}

	return items
}

// Save 整体序列化并覆盖用户文档，后写者胜
func (l *Ledger) Save(ctx context.Context, userID string, items []Item) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize history for user %s: %w", userID, err)
	}

	if err := l.provider.Save(ctx, DocKey(userID), bytes.NewReader(data), "application/json"); err != nil {
		return fmt.Errorf("failed to save history for user %s: %w", userID, err)
	}

	return nil
}

// Add 头插新记录并截断到 MaxItems
func (l *Ledger) Add(ctx context.Context, userID string, item Item) error {
	items := l.Load(ctx, userID)

	items = append([]Item{item}, items...)
	if len(items) > MaxItems {
		items = items[:MaxItems]
	}

	return l.Save(ctx, userID, items)
}

// Delete 删除指定记录并尽力清理其独占的 blob
//
// 输出图及其缩略图归记录独占，直接删除。参考图清理只覆盖
// 旧版单图字段：该 key 在没有其他剩余记录引用（新旧字段都
// 算引用）时才删除——通过全表扫描的手工引用计数，而不是
// 存储的计数器。仅存在于多图字段中的 key 不在删除路径内。
// blob 删除失败不会中止账本更新。
func (l *Ledger) Delete(ctx context.Context, userID string, id string) error {
	items := l.Load(ctx, userID)

	idx := -1
	for i := range items {
		if items[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrItemNotFound
	}

	target := items[idx]
	remaining := append(items[:idx:idx], items[idx+1:]...)

	if target.ImageKey != "" {
		l.bestEffortDelete(ctx, target.ImageKey)
		l.bestEffortDelete(ctx, ThumbKey(target.ImageKey))
	}

	if target.InputImageKey != "" && !referencesInputKey(remaining, target.InputImageKey) {
		l.bestEffortDelete(ctx, target.InputImageKey)
	}

	return l.Save(ctx, userID, remaining)
}

// bestEffortDelete 删除失败只记录日志
func (l *Ledger) bestEffortDelete(ctx context.Context, key string) {
	if err := l.provider.Delete(ctx, key); err != nil {
		log.Printf("[Ledger] Best-effort blob cleanup failed for %s: %v", key, err)
	}
}

// referencesInputKey 扫描剩余记录是否仍引用该参考图 key
func referencesInputKey(items []Item, key string) bool {
	for i := range items {
		if items[i].InputImageKey == key {
			return true
		}
		for _, k := range items[i].InputImageKeys {
			if k == key {
				return true
			}
		}
	}
	return false
}
