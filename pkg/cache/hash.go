package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"strings"
)

// Hash computes a stable hex digest of data for use in cache keys.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashFile computes the digest of a file's contents. Used to key
// parsed topologies by their source diagram.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// hashKey builds a cache key from a prefix and parts, hashing the
// joined parts so keys stay fixed-length and filesystem safe.
func hashKey(prefix string, parts ...string) string {
	joined := strings.Join(parts, "\x00")
	return prefix + ":" + Hash([]byte(joined))
}
