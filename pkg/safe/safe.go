package safe

import (
	"log/slog"
	"runtime/debug"
	"strings"
)

// Run executes fn and converts any panic into an error log with a trimmed
// stack trace, so a failing background job can never take the process down.
func Run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic recovered",
				slog.Any("recover", r),
				slog.String("stack", stackTrace(3)),
			)
		}
	}()

	fn()
}

func stackTrace(skipFrames int) string {
	lines := strings.Split(string(debug.Stack()), "\n")

	var kept []string
	for i := skipFrames; i < len(lines) && i < skipFrames+20; i++ {
		line := strings.TrimSpace(lines[i])
		if line != "" {
			kept = append(kept, line)
		}
	}
	if len(lines) > skipFrames+20 {
		kept = append(kept, "... (truncated)")
	}
	return strings.Join(kept, "\n")
}
