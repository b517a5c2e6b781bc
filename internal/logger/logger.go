// ABOUTME: Process-wide structured logger built on zap.
// ABOUTME: Init picks a JSON production logger or a console debug logger; both write to stderr.
package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu           sync.RWMutex
	base         = zap.NewNop()
	debugEnabled bool
)

// Init builds the global logger. Debug mode switches to a colored console encoder at debug level.
func Init(debug bool) (*zap.Logger, error) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "time"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	mu.Lock()
	base = l
	debugEnabled = debug
	mu.Unlock()

	l.Debug("debug logging enabled")
	return l, nil
}

// L returns the global logger. It is a no-op logger until Init is called.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// Named returns a child of the global logger for one component.
func Named(name string) *zap.Logger {
	return L().Named(name)
}

// IsDebugEnabled reports whether Init was called in debug mode.
func IsDebugEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return debugEnabled
}

// Sync flushes buffered log entries.
func Sync() {
	_ = L().Sync()
}
