package inputstore

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/anoixa/gen-studio/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	provider, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return New(provider)
}

func pngDataURI(payload []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)
}

func TestPut_DeduplicatesSameContent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	uri := pngDataURI([]byte("same-bytes"))

	first, err := store.Put(ctx, uri, "user-a", "image/jpeg")
	require.NoError(t, err)
	assert.False(t, first.Reused)

	second, err := store.Put(ctx, uri, "user-a", "image/jpeg")
	require.NoError(t, err)
	assert.True(t, second.Reused)
	assert.Equal(t, first.Key, second.Key)
	assert.Equal(t, first.Hash, second.Hash)
}

func TestPut_NamespacesPerUser(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	uri := pngDataURI([]byte("shared-content"))

	a, err := store.Put(ctx, uri, "user-a", "image/jpeg")
	require.NoError(t, err)
	b, err := store.Put(ctx, uri, "user-b", "image/jpeg")
	require.NoError(t, err)

	// 同样内容，不同用户，key 必须不同但哈希一致
	assert.NotEqual(t, a.Key, b.Key)
	assert.Equal(t, a.Hash, b.Hash)
	assert.False(t, b.Reused)
	assert.True(t, strings.HasPrefix(a.Key, "inputs/user-a/"))
	assert.True(t, strings.HasPrefix(b.Key, "inputs/user-b/"))
}

func TestPut_KeyLayout(t *testing.T) {
	store := newTestStore(t)

	result, err := store.Put(context.Background(), pngDataURI([]byte("x")), "3f6a14d0b2c55e18", "image/jpeg")
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("inputs/3f6a14d0b2c55e18/%s.png", result.Hash), result.Key)
	assert.Len(t, result.Hash, 64)
}

func TestPut_ExtensionTable(t *testing.T) {
	tests := []struct {
		mime string
		ext  string
	}{
		{"image/png", "png"},
		{"image/webp", "webp"},
		{"image/gif", "gif"},
		{"image/jpeg", "jpg"},
		{"image/jpg", "jpg"},
		{"application/unknown", "jpg"},
	}

	store := newTestStore(t)
	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			uri := "data:" + tt.mime + ";base64," + base64.StdEncoding.EncodeToString([]byte(tt.mime))
			result, err := store.Put(context.Background(), uri, "user-a", "")
			require.NoError(t, err)
			assert.True(t, strings.HasSuffix(result.Key, "."+tt.ext), "key %s", result.Key)
		})
	}
}

func TestPut_FallbackMimeWithoutPrefix(t *testing.T) {
	store := newTestStore(t)

	raw := base64.StdEncoding.EncodeToString([]byte("no-prefix"))
	result, err := store.Put(context.Background(), raw, "user-a", "image/webp")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(result.Key, ".webp"))
}

func TestPut_RejectsBadPayloads(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Put(context.Background(), "data:image/png;base64", "user-a", "")
	assert.Error(t, err)

	_, err = store.Put(context.Background(), "data:image/png;base64,!!!not-base64!!!", "user-a", "")
	assert.Error(t, err)

	_, err = store.Put(context.Background(), "data:image/png;base64,", "user-a", "")
	assert.Error(t, err)
}

// probeFailProvider 存在性探测永远失败，用于验证保守重传行为
type probeFailProvider struct {
	*storage.LocalStorage
	probes int
	saves  int
}

func (p *probeFailProvider) Exists(ctx context.Context, key string) (bool, error) {
	p.probes++
	return false, errors.New("backend degraded")
}

func (p *probeFailProvider) Save(ctx context.Context, key string, r io.Reader, contentType string) error {
	p.saves++
	return p.LocalStorage.Save(ctx, key, r, contentType)
}

func TestPut_AmbiguousProbeFallsThroughToUpload(t *testing.T) {
	local, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	provider := &probeFailProvider{LocalStorage: local}
	store := New(provider)

	uri := pngDataURI([]byte("probe-me"))

	first, err := store.Put(context.Background(), uri, "user-a", "")
	require.NoError(t, err)
	assert.False(t, first.Reused)

	// 探测失败时重新上传而不是误跳过；覆盖写幂等
	second, err := store.Put(context.Background(), uri, "user-a", "")
	require.NoError(t, err)
	assert.False(t, second.Reused)
	assert.Equal(t, 2, provider.probes)
	assert.Equal(t, 2, provider.saves)

	rc, err := provider.LocalStorage.Get(context.Background(), first.Key)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.True(t, bytes.Equal([]byte("probe-me"), data))
}
