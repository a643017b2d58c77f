package rag

import (
	"net/http"
	"strings"

	"github.com/tutornest-ai/tutornest/pkg/errors"
	"github.com/tutornest-ai/tutornest/pkg/i18n"
)

const (
	DEFAULT_CHUNK_SIZE    = 512
	DEFAULT_CHUNK_OVERLAP = 50
)

type Chunker struct {
	size    int
	overlap int
}

func NewChunker(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		size = DEFAULT_CHUNK_SIZE
	}
	if overlap < 0 {
		overlap = DEFAULT_CHUNK_OVERLAP
	}
	if overlap >= size {
		return nil, errors.New("rag.NewChunker", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Split 按固定窗口切分文本，相邻窗口保留 overlap 的重叠。
// 窗口边界按 rune 计算，避免切断多字节字符。
func (c *Chunker) Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	runes := []rune(text)
	if len(runes) <= c.size {
		return []string{text}
	}

	var chunks []string
	step := c.size - c.overlap
	for start := 0; start < len(runes); start += step {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		}
		// 尾部剩余不足一个 overlap 时并入当前窗口，避免产生几乎全是重叠的小尾块
		if start > 0 && len(runes)-end < c.overlap {
			end = len(runes)
		}

		chunks = append(chunks, string(runes[start:end]))

		if end == len(runes) {
			break
		}
	}

	return chunks
}
