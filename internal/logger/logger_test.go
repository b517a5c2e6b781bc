// ABOUTME: Tests for the global logger setup.
// ABOUTME: Checks level selection for debug and production modes.
package logger

import (
	"testing"

	"go.uber.org/zap"
)

func TestLBeforeInit(t *testing.T) {
	if L() == nil {
		t.Fatal("expected non-nil logger before Init")
	}
}

func TestInitLevels(t *testing.T) {
	l, err := Init(true)
	if err != nil {
		t.Fatalf("Init(true) error: %v", err)
	}
	if !l.Core().Enabled(zap.DebugLevel) {
		t.Error("expected debug level enabled in debug mode")
	}
	if !IsDebugEnabled() {
		t.Error("expected IsDebugEnabled after Init(true)")
	}
	if L() != l {
		t.Error("expected L to return the initialized logger")
	}

	l, err = Init(false)
	if err != nil {
		t.Fatalf("Init(false) error: %v", err)
	}
	if l.Core().Enabled(zap.DebugLevel) {
		t.Error("expected debug level disabled in production mode")
	}
	if !l.Core().Enabled(zap.InfoLevel) {
		t.Error("expected info level enabled in production mode")
	}
	if IsDebugEnabled() {
		t.Error("expected IsDebugEnabled false after Init(false)")
	}
	if Named("api") == nil {
		t.Error("expected named logger")
	}
}
