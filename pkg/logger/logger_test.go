package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"development", zapcore.DebugLevel},
		{"production", zapcore.InfoLevel},
		{"WARN", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestGet_BeforeInit(t *testing.T) {
	Set(nil)
	if Get() == nil {
		t.Fatal("Get() returned nil before Init")
	}
	// must not panic
	Get().Info("noop")
}

func TestInit(t *testing.T) {
	if err := Init(&Config{Level: "debug", ServiceName: "vdotube-test", Development: true}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer Set(nil)

	if Get().Logger == nil {
		t.Fatal("expected initialized logger")
	}
}

func TestLogger_With(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := &Logger{Logger: zap.New(core)}

	l.With(zap.String("request_id", "abc")).Named("http").Info("hello")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].LoggerName != "http" {
		t.Errorf("LoggerName = %q, want http", entries[0].LoggerName)
	}
	if entries[0].ContextMap()["request_id"] != "abc" {
		t.Errorf("request_id field missing: %v", entries[0].ContextMap())
	}
}
