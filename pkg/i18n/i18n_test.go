package i18n

import "testing"

func TestLocalizerGet(t *testing.T) {
	l := NewLocalizer("en", "zh-CN")

	if got := l.Get("en", ERROR_NOT_FOUND); got != "Resource not found." {
		t.Errorf("unexpected en message: %q", got)
	}
	if got := l.Get("zh-CN", ERROR_NOT_FOUND); got != "资源不存在。" {
		t.Errorf("unexpected zh-CN message: %q", got)
	}
	// unknown language falls back to the message id
	if got := l.Get("fr", ERROR_NOT_FOUND); got != ERROR_NOT_FOUND {
		t.Errorf("expected raw id for unknown lang, got %q", got)
	}
}
