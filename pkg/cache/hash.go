package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	// Use full SHA-256 hash (64 hex chars / 256 bits) to prevent collisions
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// RenderKey generates a cache key for a rendered artifact. The key covers
// everything that determines the output bytes: the rendering tool, the
// output format, the diagram source, and the renderer config (empty when
// no config file is used). Tool version changes are not tracked; clear the
// cache after upgrading a renderer.
func RenderKey(tool, format string, source, config []byte) string {
	return hashKey("render", tool, format, Hash(source), Hash(config))
}
