package checksum

import (
	"strings"
	"testing"
)

func TestContentHash(t *testing.T) {
	hash1 := ContentHash("Post text", "<p>Post text</p>")
	hash2 := ContentHash("Post text", "<p>Post text</p>")

	if hash1 != hash2 {
		t.Errorf("Hash not deterministic: %s != %s", hash1, hash2)
	}
	if len(hash1) != 64 {
		t.Errorf("Hash wrong length: %d, expected 64", len(hash1))
	}

	tests := []struct {
		name string
		text string
		html string
	}{
		{"text changed", "Post text!", "<p>Post text</p>"},
		{"html changed", "Post text", "<p><b>Post</b> text</p>"},
	}
	for _, tt := range tests {
		if got := ContentHash(tt.text, tt.html); got == hash1 {
			t.Errorf("%s: hash should change", tt.name)
		}
	}
}

func TestSyntheticPostKey(t *testing.T) {
	hash := ContentHash("text", "<p>text</p>")

	key := SyntheticPostKey("123", hash)
	if key != SyntheticPostKey("123", hash) {
		t.Error("synthetic key not deterministic")
	}
	if !strings.HasPrefix(key, SyntheticPrefix) || !IsSyntheticKey(key) {
		t.Errorf("key %q lacks synthetic prefix", key)
	}
	if key == SyntheticPostKey("124", hash) {
		t.Error("different threads should give different keys")
	}
	if key == SyntheticPostKey("123", ContentHash("other", "")) {
		t.Error("different content should give different keys")
	}
	if IsSyntheticKey("98765") || IsSyntheticKey("") {
		t.Error("plain ids are not synthetic")
	}
}
