package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	for _, env := range []string{"prod", "local", "dev", "docker", "test"} {
		if _, err := NewLogger(env); err != nil {
			t.Errorf("NewLogger(%q): %v", env, err)
		}
	}
	if _, err := NewLogger("staging"); err == nil {
		t.Error("expected error for unknown environment")
	}
}

func TestNewLogger_LevelOverride(t *testing.T) {
	l, err := NewLogger("prod", "warn")
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if l.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
	if !l.Core().Enabled(zapcore.WarnLevel) {
		t.Error("warn should be enabled")
	}
	if _, err := NewLogger("prod", "loud"); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestContext(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("expected a no-op logger without one in context")
	}
	l := zap.NewExample()
	if got := FromContext(ContextWithLogger(context.Background(), l)); got != l {
		t.Error("expected the stored logger")
	}
}

func TestOr(t *testing.T) {
	fallback := zap.NewExample()
	if got := Or(context.Background(), fallback); got != fallback {
		t.Error("expected the fallback without a logger in context")
	}
	reqLogger := zap.NewExample()
	ctx := ContextWithLogger(context.Background(), reqLogger)
	if got := Or(ctx, fallback); got != reqLogger {
		t.Error("expected the request logger to win")
	}
}
