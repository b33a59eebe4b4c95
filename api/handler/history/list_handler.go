package history

import (
	"github.com/anoixa/gen-studio/api/common"
	"github.com/gin-gonic/gin"
)

// ListHistory 返回用户的完整生成历史，最新在前
func (h *Handler) ListHistory(c *gin.Context) {
	if h.provider == nil {
		common.RespondStorageNotConfigured(c)
		return
	}

	userID := h.userID(c)
	items := h.ledger.Load(c.Request.Context(), userID)

	enriched := make([]enrichedItem, 0, len(items))
	for _, item := range items {
		enriched = append(enriched, h.enrich(item))
	}

	common.RespondSuccess(c, gin.H{"history": enriched})
}
