package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/anoixa/gen-studio/utils"
)

// 生成模式
const (
	ModeTextToImage  = "text-to-image"
	ModeImageToImage = "image-to-image"
	ModeOutpaint     = "outpaint"
)

// MaxItems 每个用户历史记录上限，超出部分在下一次追加时永久丢弃
const MaxItems = 100

// Item 一次生成事件及其关联资产的记录
// 创建后不可修改，只能整体删除
type Item struct {
	ID          string `json:"id"`
	Timestamp   int64  `json:"timestamp"`
	Prompt      string `json:"prompt"`
	Mode        string `json:"mode"`
	Model       string `json:"model"`
	ImageKey    string `json:"imageKey"`
	AspectRatio string `json:"aspectRatio,omitempty"`

	// 旧版单参考图字段，保留向后兼容
	InputImageKey  string `json:"inputImageKey,omitempty"`
	InputImageHash string `json:"inputImageHash,omitempty"`

	// 多参考图字段（当前形式），与旧版字段并存
	InputImageKeys   []string `json:"inputImageKeys,omitempty"`
	InputImageHashes []string `json:"inputImageHashes,omitempty"`
}

// NewItemID 生成历史记录 ID：毫秒时间戳 + 随机后缀
func NewItemID() string {
	suffix, err := utils.RandomHex(4)
	if err != nil {
		// crypto/rand 不可用时退化为纳秒
		suffix = fmt.Sprintf("%x", time.Now().UnixNano()&0xffffffff)
	}
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), suffix)
}

// DocKey 用户历史文档的存储 key
func DocKey(userID string) string {
	return fmt.Sprintf("history/%s/history.json", userID)
}

// ImageKey 生成输出图的存储 key
func ImageKey(userID string, imageID string) string {
	return fmt.Sprintf("images/%s/%s.jpg", userID, imageID)
}

// ThumbKey 在扩展名前插入 _thumb 派生缩略图 key
func ThumbKey(imageKey string) string {
	idx := strings.LastIndex(imageKey, ".")
	if idx < 0 {
		return imageKey + "_thumb"
	}
	return imageKey[:idx] + "_thumb" + imageKey[idx:]
}
