package history

import (
	"bytes"
	"context"
	"log"
	"net/http"
	"time"

	"github.com/anoixa/gen-studio/api/common"
	"github.com/anoixa/gen-studio/internal/history"
	"github.com/anoixa/gen-studio/internal/inputstore"
	"github.com/anoixa/gen-studio/internal/thumbnail"
	"github.com/anoixa/gen-studio/utils"
	"github.com/gin-gonic/gin"
)

type createRequest struct {
	ImageData     string   `json:"imageData" binding:"required"`
	ThumbnailData string   `json:"thumbnailData"`
	Prompt        string   `json:"prompt" binding:"required"`
	Mode          string   `json:"mode"`
	Model         string   `json:"model"`
	AspectRatio   string   `json:"aspectRatio"`
	InputImages   []string `json:"inputImages"`
	InputImage    string   `json:"inputImage"`
	InputMimeType string   `json:"inputMimeType"`
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

// CreateHistoryItem 保存一次生成结果：上传输出图和缩略图、
// 去重存储参考图、追加账本记录
func (h *Handler) CreateHistoryItem(c *gin.Context) {
	if h.provider == nil {
		common.RespondStorageNotConfigured(c)
		return
	}

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, "imageData and prompt are required")
		return
	}

	mode := req.Mode
	if mode == "" {
		mode = history.ModeTextToImage
	}

	ctx := c.Request.Context()
	userID := h.userID(c)

	imageBytes, _, err := inputstore.DecodeDataURI(req.ImageData, "image/jpeg")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "invalid image data")
		return
	}

	item := history.Item{
		ID:          history.NewItemID(),
		Timestamp:   nowMillis(),
		Prompt:      req.Prompt,
		Mode:        mode,
		Model:       req.Model,
		AspectRatio: req.AspectRatio,
	}
	item.ImageKey = history.ImageKey(userID, item.ID)

	if err := h.provider.Save(ctx, item.ImageKey, bytes.NewReader(imageBytes), "image/jpeg"); err != nil {
		log.Printf("[History] Failed to store generated image %s: %v", item.ImageKey, err)
		common.RespondError(c, http.StatusInternalServerError, "failed to store image")
		return
	}

	// 缩略图走异步尽力路径，失败不影响整体结果
	thumbnailData := req.ThumbnailData
	imageKey := item.ImageKey
	utils.SafeGo(func() {
		h.storeThumbnail(context.Background(), thumbnailData, imageBytes, imageKey)
	})

	// 参考图：多图优先，单图字段保留兼容
	references := req.InputImages
	if len(references) == 0 && req.InputImage != "" {
		references = []string{req.InputImage}
	}

	for _, raw := range references {
		stored, err := h.inputs.Put(ctx, raw, userID, req.InputMimeType)
		if err != nil {
			log.Printf("[History] Failed to store reference image for user %s: %v", userID, err)
			common.RespondError(c, http.StatusInternalServerError, "failed to store reference image")
			return
		}
		item.InputImageKeys = append(item.InputImageKeys, stored.Key)
		item.InputImageHashes = append(item.InputImageHashes, stored.Hash)
	}

	// 旧版字段镜像第一张参考图
	if len(item.InputImageKeys) > 0 {
		item.InputImageKey = item.InputImageKeys[0]
		item.InputImageHash = item.InputImageHashes[0]
	}

	if err := h.ledger.Add(ctx, userID, item); err != nil {
		log.Printf("[History] Failed to append history item for user %s: %v", userID, err)
		common.RespondError(c, http.StatusInternalServerError, "failed to save history")
		return
	}

	common.RespondSuccess(c, gin.H{"item": h.enrich(item)})
}

// storeThumbnail 上传客户端缩略图，缺失时服务端降级生成
func (h *Handler) storeThumbnail(ctx context.Context, thumbnailData string, imageBytes []byte, imageKey string) {
	thumbKey := history.ThumbKey(imageKey)

	var thumbBytes []byte
	if thumbnailData != "" {
		decoded, _, err := inputstore.DecodeDataURI(thumbnailData, "image/jpeg")
		if err != nil {
			log.Printf("[History] Invalid thumbnail payload for %s: %v", utils.SanitizeLogMessage(imageKey), err)
		} else {
			thumbBytes = decoded
		}
	}

	if thumbBytes == nil {
		generated, err := thumbnail.Generate(imageBytes)
		if err != nil {
			log.Printf("[History] Thumbnail fallback generation failed for %s: %v", imageKey, err)
			return
		}
		thumbBytes = generated
	}

	if err := h.provider.Save(ctx, thumbKey, bytes.NewReader(thumbBytes), "image/jpeg"); err != nil {
		log.Printf("[History] Best-effort thumbnail upload failed for %s: %v", thumbKey, err)
	}
}
