package logging

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestNew_ParsesLevel(t *testing.T) {
	logger, err := New("debug", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logger.GetLevel() != zerolog.DebugLevel {
		t.Errorf("expected debug level, got %v", logger.GetLevel())
	}
}

func TestNew_TrimsAndLowercases(t *testing.T) {
	logger, err := New("  WARN  ", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logger.GetLevel() != zerolog.WarnLevel {
		t.Errorf("expected warn level, got %v", logger.GetLevel())
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New("shouting", false); err == nil {
		t.Error("expected error for unknown level")
	}
}
