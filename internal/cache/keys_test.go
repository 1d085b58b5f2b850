package cache

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerationKey(t *testing.T) {
	tests := []struct {
		name   string
		mode   string
		inputs [][]byte
	}{
		{name: "no inputs", mode: "story", inputs: nil},
		{name: "prompt only", mode: "story", inputs: [][]byte{[]byte("gemini-1.5-flash"), []byte("a fox")}},
		{name: "prompt and image", mode: "explain", inputs: [][]byte{[]byte("gemini-1.5-flash"), []byte("what is this"), {0x89, 'P', 'N', 'G'}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := GenerationKey(tt.mode, tt.inputs...)
			assert.True(t, strings.HasPrefix(key, "storybuddy:generation:"+tt.mode+":"), key)
			assert.Len(t, key[strings.LastIndex(key, ":")+1:], 64)
			assert.Equal(t, key, GenerationKey(tt.mode, tt.inputs...), "key must be stable")
		})
	}
}

func TestGenerationKey_Distinguishes(t *testing.T) {
	assert.NotEqual(t, GenerationKey("story", []byte("a")), GenerationKey("quiz", []byte("a")))
	assert.NotEqual(t, GenerationKey("story", []byte("a")), GenerationKey("story", []byte("b")))
	// Length prefixes keep split points from colliding.
	assert.NotEqual(t,
		GenerationKey("explain", []byte("ab"), []byte("c")),
		GenerationKey("explain", []byte("a"), []byte("bc")),
	)
}
