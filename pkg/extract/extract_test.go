package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextPlainFiles(t *testing.T) {
	got, err := Text("notes.txt", []byte("  hello world \n"))
	assert.NoError(t, err)
	assert.Equal(t, "hello world", got)

	got, err = Text("README.md", []byte("# Title"))
	assert.NoError(t, err)
	assert.Equal(t, "# Title", got)
}

func TestTextUnsupportedExtension(t *testing.T) {
	_, err := Text("report.docx", []byte("whatever"))
	assert.Error(t, err)
}

func TestTextEmptyContent(t *testing.T) {
	_, err := Text("empty.txt", []byte("   \n\t"))
	assert.Error(t, err)
}

func TestTextBrokenPDF(t *testing.T) {
	_, err := Text("broken.pdf", []byte("not a pdf at all"))
	assert.Error(t, err)
}
