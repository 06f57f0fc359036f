package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkText(t *testing.T) {
	chunker := NewTextChunker()

	t.Run("short text stays in one chunk", func(t *testing.T) {
		chunks := chunker.ChunkText("A short profile.", 1000, 100)
		require.Len(t, chunks, 1)
		assert.Equal(t, "A short profile.", chunks[0])
	})

	t.Run("empty text yields no chunks", func(t *testing.T) {
		assert.Empty(t, chunker.ChunkText("   \n\n  ", 1000, 100))
	})

	t.Run("paragraphs are packed up to the limit", func(t *testing.T) {
		text := strings.Repeat("alpha beta gamma. ", 30) + "\n\n" + strings.Repeat("delta epsilon. ", 30)
		chunks := chunker.ChunkText(text, 200, 20)

		require.Greater(t, len(chunks), 1)
		for _, chunk := range chunks {
			// Overlap tail plus one sentence can push slightly past the
			// limit but not double it.
			assert.Less(t, len(chunk), 400)
		}
	})

	t.Run("consecutive chunks share overlap", func(t *testing.T) {
		text := strings.Repeat("one two three four five. ", 40)
		chunks := chunker.ChunkText(text, 150, 30)
		require.Greater(t, len(chunks), 1)

		tail := lastRunes(chunks[0], 30)
		assert.True(t, strings.HasPrefix(chunks[1], tail))
	})

	t.Run("defaults applied for invalid parameters", func(t *testing.T) {
		chunks := chunker.ChunkText("some text", -1, -1)
		require.Len(t, chunks, 1)
	})
}
