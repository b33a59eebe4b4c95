// Package history exposes the per-user generation history over HTTP.
// User identity is derived from the credential header, never verified.
package history

import (
	"net/url"

	"github.com/anoixa/gen-studio/internal/history"
	"github.com/anoixa/gen-studio/internal/identity"
	"github.com/anoixa/gen-studio/internal/inputstore"
	"github.com/anoixa/gen-studio/storage"
	"github.com/gin-gonic/gin"
)

// CredentialHeader 凭证请求头，仅用于派生存储命名空间
const CredentialHeader = "X-Api-Key"

// Handler 历史记录处理器
type Handler struct {
	provider      storage.Provider // nil 表示存储未配置
	ledger        *history.Ledger
	inputs        *inputstore.Store
	publicBaseURL string
}

// NewHandler 创建历史记录处理器
// provider 为 nil 时所有接口返回 "storage not configured"
func NewHandler(provider storage.Provider, publicBaseURL string) *Handler {
	h := &Handler{
		provider:      provider,
		publicBaseURL: publicBaseURL,
	}
	if provider != nil {
		h.ledger = history.NewLedger(provider)
		h.inputs = inputstore.New(provider)
	}
	return h
}

// userID 从凭证头派生用户 ID
func (h *Handler) userID(c *gin.Context) string {
	return identity.DeriveUserID(c.GetHeader(CredentialHeader))
}

// enrichedItem 带访问 URL 的历史记录
type enrichedItem struct {
	history.Item
	ImageURL       string   `json:"imageUrl"`
	ThumbnailURL   string   `json:"thumbnailUrl"`
	InputImageURLs []string `json:"inputImageUrls,omitempty"`
}

// enrich 为记录补全图片访问 URL
func (h *Handler) enrich(item history.Item) enrichedItem {
	enriched := enrichedItem{
		Item:         item,
		ImageURL:     h.blobURL(item.ImageKey),
		ThumbnailURL: h.blobURL(history.ThumbKey(item.ImageKey)),
	}

	keys := item.InputImageKeys
	if len(keys) == 0 && item.InputImageKey != "" {
		keys = []string{item.InputImageKey}
	}
	for _, key := range keys {
		enriched.InputImageURLs = append(enriched.InputImageURLs, h.blobURL(key))
	}

	return enriched
}

// blobURL 未配置公共地址时退回本地代理路径
func (h *Handler) blobURL(key string) string {
	if key == "" {
		return ""
	}
	if h.publicBaseURL != "" {
		return h.publicBaseURL + "/" + key
	}
	return "/api/image?key=" + url.QueryEscape(key)
}
