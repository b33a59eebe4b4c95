package images

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anoixa/gen-studio/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T, provider storage.Provider) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/api/image", NewHandler(provider).GetImage)
	return router
}

func get(router *gin.Engine, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetImage_MissingKey(t *testing.T) {
	provider, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	router := setupRouter(t, provider)

	w := get(router, "/api/image")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetImage_RejectsTraversalKey(t *testing.T) {
	provider, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	router := setupRouter(t, provider)

	w := get(router, "/api/image?key=..%2F..%2Fetc%2Fpasswd")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetImage_NotFound(t *testing.T) {
	provider, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	router := setupRouter(t, provider)

	w := get(router, "/api/image?key=images%2Fu1%2Fabc.jpg")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestGetImage_StreamsBlobWithContentType(t *testing.T) {
	provider, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	payload := []byte("jpeg-bytes")
	require.NoError(t, provider.Save(context.Background(), "images/u1/abc.jpg", bytes.NewReader(payload), "image/jpeg"))

	router := setupRouter(t, provider)
	w := get(router, "/api/image?key=images%2Fu1%2Fabc.jpg")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, payload, w.Body.Bytes())
	assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=31536000, immutable", w.Header().Get("Cache-Control"))
}

func TestGetImage_ContentTypeTable(t *testing.T) {
	provider, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	router := setupRouter(t, provider)

	tests := []struct {
		key         string
		contentType string
	}{
		{"inputs/u1/a.webp", "image/webp"},
		{"inputs/u1/a.gif", "image/gif"},
		{"inputs/u1/a.png", "image/png"},
		{"inputs/u1/a.jpeg", "image/jpeg"},
		{"inputs/u1/noext", "image/png"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			require.NoError(t, provider.Save(context.Background(), tt.key, bytes.NewReader([]byte("x")), ""))

			w := get(router, "/api/image?key="+tt.key)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.contentType, w.Header().Get("Content-Type"))
		})
	}
}

func TestGetImage_StorageNotConfigured(t *testing.T) {
	router := setupRouter(t, nil)

	w := get(router, "/api/image?key=images%2Fu1%2Fabc.jpg")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "storage not configured")
}
