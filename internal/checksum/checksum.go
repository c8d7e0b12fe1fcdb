package checksum

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// SyntheticPrefix marks post keys that were not read from the page.
const SyntheticPrefix = "~"

// postKeyNamespace scopes the UUIDv5 keys of posts without an anchor id.
var postKeyNamespace = uuid.MustParse("5b0f3c2e-8d4a-5f61-9c7e-2a1d4e6b8f03")

// ContentHash returns the hex SHA-256 of text|html. A post whose hash is
// unchanged between crawls is considered unchanged.
func ContentHash(text, html string) string {
	sum := sha256.Sum256([]byte(text + "|" + html))
	return hex.EncodeToString(sum[:])
}

// SyntheticPostKey derives a stable key for a post that carries no id of its
// own. Same thread and same content give the same key.
func SyntheticPostKey(threadID, contentHash string) string {
	return SyntheticPrefix + uuid.NewSHA1(postKeyNamespace, []byte(threadID+"|"+contentHash)).String()
}

func IsSyntheticKey(key string) bool {
	return len(key) > 0 && key[:1] == SyntheticPrefix
}
