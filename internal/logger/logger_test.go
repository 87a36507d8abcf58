package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger_Environments(t *testing.T) {
	for _, env := range []string{"prod", "local", "dev", "docker", "test"} {
		if _, err := NewLogger(env); err != nil {
			t.Errorf("NewLogger(%q): %v", env, err)
		}
	}
	if _, err := NewLogger("staging"); err == nil {
		t.Error("expected error for unknown env")
	}
}

func TestNewLogger_LevelOverride(t *testing.T) {
	l, err := NewLogger("prod", "debug")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !l.Core().Enabled(zap.DebugLevel) {
		t.Error("debug level should be enabled")
	}
	if _, err := NewLogger("prod", "verbose"); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestFromContext(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	reqLogger := zap.New(core)

	ctx := ContextWithLogger(context.Background(), reqLogger)
	FromContext(ctx).Info("hello")
	if logs.Len() != 1 {
		t.Errorf("expected 1 log entry, got %d", logs.Len())
	}

	// no logger stored: nop, must not panic
	FromContext(context.Background()).Info("dropped")
}

func TestFromContextOr(t *testing.T) {
	fbCore, fbLogs := observer.New(zap.InfoLevel)
	fallback := zap.New(fbCore)

	FromContextOr(context.Background(), fallback).Info("to fallback")
	if fbLogs.Len() != 1 {
		t.Errorf("fallback got %d entries, want 1", fbLogs.Len())
	}

	reqCore, reqLogs := observer.New(zap.InfoLevel)
	ctx := ContextWithLogger(context.Background(), zap.New(reqCore))
	FromContextOr(ctx, fallback).Info("to request logger")
	if reqLogs.Len() != 1 || fbLogs.Len() != 1 {
		t.Errorf("request=%d fallback=%d, want 1/1", reqLogs.Len(), fbLogs.Len())
	}

	FromContextOr(context.Background(), nil).Info("nop")
}
