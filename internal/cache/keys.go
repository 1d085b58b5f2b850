package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"strings"
)

const (
	GlobalKeyPrefix = "storybuddy"
	generationScope = "generation"
)

// GenerationKey builds the key of a cached raw model response:
// storybuddy:generation:<mode>:<sha256 over the length-prefixed inputs>.
func GenerationKey(mode string, inputs ...[]byte) string {
	h := sha256.New()
	var size [8]byte
	for _, in := range inputs {
		binary.BigEndian.PutUint64(size[:], uint64(len(in)))
		h.Write(size[:])
		h.Write(in)
	}
	return strings.Join([]string{GlobalKeyPrefix, generationScope, mode, hex.EncodeToString(h.Sum(nil))}, ":")
}
