package utils

import (
	"path"
	"strings"
)

// ExtensionForMime MIME 类型到文件扩展名的固定映射
func ExtensionForMime(mimeType string) string {
	switch strings.ToLower(strings.TrimSpace(mimeType)) {
	case "image/png":
		return "png"
	case "image/webp":
		return "webp"
	case "image/gif":
		return "gif"
	case "image/jpeg", "image/jpg":
		return "jpg"
	default:
		return "jpg"
	}
}

// ContentTypeForKey 根据存储 key 的扩展名推断内容类型
func ContentTypeForKey(key string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(key), "."))
	switch ext {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "webp":
		return "image/webp"
	case "gif":
		return "image/gif"
	default:
		return "image/png"
	}
}
