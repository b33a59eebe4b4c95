// Package inputstore deduplicates uploaded reference images by content
// hash before storing. Byte-identical uploads by the same user resolve
// to the same key; namespaces are isolated per user.
package inputstore

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"log"
	"strings"

	"github.com/anoixa/gen-studio/storage"
	"github.com/anoixa/gen-studio/utils"
)

// StoredInput 去重上传结果
type StoredInput struct {
	Key    string
	Hash   string
	Reused bool
}

// Store 内容寻址的参考图存储
type Store struct {
	provider storage.Provider
}

func New(provider storage.Provider) *Store {
	return &Store{provider: provider}
}

// Put 解码 data URI，按内容哈希寻址后上传
// 已存在同 key 对象时跳过上传并报告 Reused=true
func (s *Store) Put(ctx context.Context, rawDataURI string, userID string, fallbackMime string) (StoredInput, error) {
	data, mimeType, err := DecodeDataURI(rawDataURI, fallbackMime)
	if err != nil {
		return StoredInput{}, err
	}

	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	ext := utils.ExtensionForMime(mimeType)
	key := fmt.Sprintf("inputs/%s/%s.%s", userID, hash, ext)

	// 探测失败按"不存在"处理，宁可重复上传（覆盖写安全）
	// 也不阻塞主流程
	exists, err := s.provider.Exists(ctx, key)
	if err != nil {
		log.Printf("[InputStore] Existence probe failed for %s, re-uploading: %v", key, err)
		exists = false
	}

	if exists {
		return StoredInput{Key: key, Hash: hash, Reused: true}, nil
	}

	if err := s.provider.Save(ctx, key, bytes.NewReader(data), mimeType); err != nil {
		return StoredInput{}, fmt.Errorf("failed to store input image '%s': %w", key, err)
	}

	return StoredInput{Key: key, Hash: hash, Reused: false}, nil
}

// DecodeDataURI 解析可选的 "data:<mime>;base64," 前缀
// 无前缀时整体按 base64 解码并使用 fallbackMime
func DecodeDataURI(raw string, fallbackMime string) ([]byte, string, error) {
	mimeType := fallbackMime
	payload := raw

	if strings.HasPrefix(raw, "data:") {
		idx := strings.Index(raw, ",")
		if idx < 0 {
			return nil, "", fmt.Errorf("malformed data URI: missing comma separator")
		}

		header := raw[len("data:"):idx]
		payload = raw[idx+1:]

		if m, _, _ := strings.Cut(header, ";"); m != "" {
			mimeType = m
		}
	}

	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode base64 image payload: %w", err)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("empty image payload")
	}

	return data, mimeType, nil
}
