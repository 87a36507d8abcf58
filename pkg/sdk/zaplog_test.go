package nearbite

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestUseCaseLogger_ForwardsToSlog(t *testing.T) {
	var buf bytes.Buffer
	sl := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	log := newUseCaseLogger(sl).With(zap.String("request", "r1"))
	log.Warn("Nearby search query failed", zap.String("keyword", "消夜"), zap.Error(errors.New("timeout")))
	log.Debug("hidden below info")

	out := buf.String()
	for _, want := range []string{"level=WARN", "Nearby search query failed", "keyword=消夜", "error=timeout", "request=r1"} {
		if !strings.Contains(out, want) {
			t.Errorf("log %q missing %q", out, want)
		}
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line should be filtered: %q", out)
	}
}

func TestUseCaseLogger_NilIsNop(t *testing.T) {
	log := newUseCaseLogger(nil)
	if log.Core().Enabled(zap.ErrorLevel) {
		t.Error("expected a disabled logger without slog")
	}
}
