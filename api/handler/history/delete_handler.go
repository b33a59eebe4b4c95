package history

import (
	"log"
	"net/http"

	"github.com/anoixa/gen-studio/api/common"
	"github.com/anoixa/gen-studio/utils"
	"github.com/gin-gonic/gin"
)

// DeleteHistoryItem 删除一条历史记录及其独占的 blob
func (h *Handler) DeleteHistoryItem(c *gin.Context) {
	if h.provider == nil {
		common.RespondStorageNotConfigured(c)
		return
	}

	id := c.Query("id")
	if id == "" {
		common.RespondError(c, http.StatusBadRequest, "id is required")
		return
	}

	userID := h.userID(c)

	if err := h.ledger.Delete(c.Request.Context(), userID, id); err != nil {
		log.Printf("[History] Failed to delete item %s for user %s: %v", utils.SanitizeLogMessage(id), userID, err)
		common.RespondError(c, http.StatusInternalServerError, "failed to delete history item")
		return
	}

	common.RespondSuccess(c, nil)
}
