package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestLogger_BasicLevels(t *testing.T) {
	l := New("debug")
	if l == nil {
		t.Fatalf("logger nil")
	}
	l.Debug("dbg", "k", 1)
	l.Info("info")
	l.Warn("warn")
	l.Error("err")
}

func TestLogger_SetLevel(t *testing.T) {
	l := New("info").(*zapLogger)
	if l.level.Level() != zapcore.InfoLevel {
		t.Fatalf("level = %v; want info", l.level.Level())
	}
	var ls LevelSetter = l
	ls.SetLevel("error")
	if l.level.Level() != zapcore.ErrorLevel {
		t.Fatalf("level = %v; want error", l.level.Level())
	}
	ls.SetLevel("bogus")
	if l.level.Level() != zapcore.InfoLevel {
		t.Fatalf("unknown level should fall back to info, got %v", l.level.Level())
	}
}

func TestLogger_Nop(t *testing.T) {
	l := NewNop()
	l.Info("discarded", "k", "v")
	if l.(*zapLogger).ZapLogger() == nil {
		t.Fatalf("nil zap logger")
	}
}
