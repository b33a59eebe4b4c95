// Package identity maps an opaque credential string to a stable
// pseudonymous user identifier. The credential is hashed, never stored
// and never validated; this is a namespacing mechanism, not auth.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
)

// AnonymousUserID 空凭证的固定匿名桶
const AnonymousUserID = "anonymous"

// userIDLength 截取十六进制摘要的前 16 位（约 64 bit），
// 作为命名空间足够，不用于安全性唯一
const userIDLength = 16

// DeriveUserID 从凭证派生用户 ID，同一凭证总是得到同一 ID
func DeriveUserID(credential string) string {
	if credential == "" {
		return AnonymousUserID
	}

	sum := sha256.Sum256([]byte(credential))
	return hex.EncodeToString(sum[:])[:userIDLength]
}
