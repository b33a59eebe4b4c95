package utils

import "testing"

func TestExtensionForMime(t *testing.T) {
	tests := []struct {
		mime string
		want string
	}{
		{"image/png", "png"},
		{"image/webp", "webp"},
		{"image/gif", "gif"},
		{"image/jpeg", "jpg"},
		{"image/jpg", "jpg"},
		{"IMAGE/PNG", "png"},
		{" image/gif ", "gif"},
		{"", "jpg"},
		{"application/pdf", "jpg"},
	}

	for _, tt := range tests {
		if got := ExtensionForMime(tt.mime); got != tt.want {
			t.Errorf("ExtensionForMime(%q) = %q, want %q", tt.mime, got, tt.want)
		}
	}
}

func TestContentTypeForKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"images/u/a.jpg", "image/jpeg"},
		{"images/u/a.jpeg", "image/jpeg"},
		{"inputs/u/a.webp", "image/webp"},
		{"inputs/u/a.gif", "image/gif"},
		{"inputs/u/a.png", "image/png"},
		{"inputs/u/noext", "image/png"},
		{"a.JPG", "image/jpeg"},
	}

	for _, tt := range tests {
		if got := ContentTypeForKey(tt.key); got != tt.want {
			t.Errorf("ContentTypeForKey(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
