package extract

import (
	"bytes"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/tutornest-ai/tutornest/pkg/errors"
	"github.com/tutornest-ai/tutornest/pkg/i18n"
)

// Text 按扩展名提取上传文件的纯文本。
// 不支持的类型与提取后为空的文件都视为调用方输入错误。
func Text(filename string, raw []byte) (string, error) {
	var (
		text string
		err  error
	)

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		text, err = pdfText(raw)
		if err != nil {
			return "", errors.New("extract.Text.pdfText", i18n.ERROR_FILE_UNSUPPORTED, err).Code(http.StatusBadRequest)
		}
	case ".txt", ".md":
		text = string(raw)
	default:
		return "", errors.New("extract.Text.ext", i18n.ERROR_FILE_UNSUPPORTED, nil).Code(http.StatusBadRequest)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("extract.Text.empty", i18n.ERROR_FILE_EMPTY, nil).Code(http.StatusBadRequest)
	}
	return text, nil
}

func pdfText(raw []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", err
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}

	out, err := io.ReadAll(plain)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
