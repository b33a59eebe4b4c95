// Package images proxies raw blob bytes when no public base URL is
// configured in front of the object store.
package images

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/anoixa/gen-studio/api/common"
	"github.com/anoixa/gen-studio/storage"
	"github.com/anoixa/gen-studio/utils"
	"github.com/gin-gonic/gin"
)

// Handler 图片代理处理器
type Handler struct {
	provider storage.Provider // nil 表示存储未配置
}

func NewHandler(provider storage.Provider) *Handler {
	return &Handler{provider: provider}
}

// GetImage 按 key 流式返回对象内容
func (h *Handler) GetImage(c *gin.Context) {
	if h.provider == nil {
		common.RespondStorageNotConfigured(c)
		return
	}

	key := c.Query("key")
	if key == "" {
		common.RespondError(c, http.StatusBadRequest, "key is required")
		return
	}
	if !storage.IsValidKey(key) {
		common.RespondError(c, http.StatusBadRequest, "invalid key")
		return
	}

	rc, err := h.provider.Get(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			common.RespondError(c, http.StatusNotFound, "image not found")
			return
		}
		log.Printf("[GetImage] Failed to fetch %s: %v", utils.SanitizeLogMessage(key), err)
		common.RespondError(c, http.StatusInternalServerError, "failed to fetch image")
		return
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	if err != nil {
		log.Printf("[GetImage] Failed to read %s: %v", utils.SanitizeLogMessage(key), err)
		common.RespondError(c, http.StatusInternalServerError, "failed to read image")
		return
	}

	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	c.Data(http.StatusOK, utils.ContentTypeForKey(key), data)
}
