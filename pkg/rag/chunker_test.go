package rag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunkerShortText(t *testing.T) {
	c, err := NewChunker(512, 50)
	assert.NoError(t, err)

	chunks := c.Split("a short document")
	assert.Equal(t, []string{"a short document"}, chunks)
}

func TestChunkerEmptyText(t *testing.T) {
	c, _ := NewChunker(512, 50)
	assert.Empty(t, c.Split("   \n\t "))
}

func TestChunkerThousandChars(t *testing.T) {
	c, _ := NewChunker(512, 50)
	text := strings.Repeat("abcdefghij", 100)

	chunks := c.Split(text)
	assert.Len(t, chunks, 2)
	assert.Equal(t, text[0:512], chunks[0])
	assert.Equal(t, text[462:1000], chunks[1])
}

func TestChunkerOverlapInvariant(t *testing.T) {
	c, _ := NewChunker(100, 20)
	text := strings.Repeat("0123456789", 55)

	chunks := c.Split(text)
	assert.GreaterOrEqual(t, len(chunks), 2)
	for i := 0; i < len(chunks)-1; i++ {
		tail := chunks[i][len(chunks[i])-20:]
		head := chunks[i+1][:20]
		assert.Equal(t, tail, head)
	}
}

func TestChunkerMultibyteSafety(t *testing.T) {
	c, _ := NewChunker(10, 2)
	text := strings.Repeat("知识就是力量", 10)

	chunks := c.Split(text)
	assert.GreaterOrEqual(t, len(chunks), 2)
	for _, v := range chunks {
		assert.True(t, strings.Contains(text, v))
	}
}

func TestChunkerInvalidOverlap(t *testing.T) {
	_, err := NewChunker(100, 100)
	assert.Error(t, err)

	_, err = NewChunker(100, 200)
	assert.Error(t, err)
}
