package identity

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveUserID_EmptyCredential(t *testing.T) {
	assert.Equal(t, AnonymousUserID, DeriveUserID(""))
}

func TestDeriveUserID_Deterministic(t *testing.T) {
	first := DeriveUserID("sk-test-credential")
	second := DeriveUserID("sk-test-credential")
	assert.Equal(t, first, second)
}

func TestDeriveUserID_Format(t *testing.T) {
	hexPattern := regexp.MustCompile(`^[0-9a-f]{16}$`)

	credentials := []string{
		"sk-test-credential",
		"another-key",
		"x",
		"用户凭证-unicode",
	}

	for _, credential := range credentials {
		id := DeriveUserID(credential)
		assert.Regexp(t, hexPattern, id, "credential %q", credential)
	}
}

func TestDeriveUserID_DistinctCredentials(t *testing.T) {
	assert.NotEqual(t, DeriveUserID("key-a"), DeriveUserID("key-b"))
}

func TestDeriveUserID_NotRawCredential(t *testing.T) {
	credential := "super-secret-credential"
	id := DeriveUserID(credential)
	assert.NotContains(t, credential, id)
}
