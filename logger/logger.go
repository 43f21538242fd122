// Package logger holds the process wide zap logger used by the pipeline,
// the conversion service and the command line tools.
package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
)

// envLog selects the encoder: "dev" for console output, anything else for JSON
const envLog = "MAPMESH_LOG"

var (
	mu  sync.RWMutex
	log *zap.Logger
)

// Get returns the shared logger, building it on first use.
func Get() *zap.Logger {
	mu.RLock()
	l := log
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if log == nil {
		log = build(os.Getenv(envLog))
	}
	return log
}

// Set replaces the shared logger. Passing nil restores lazy construction.
func Set(l *zap.Logger) {
	mu.Lock()
	log = l
	mu.Unlock()
}

// Sync flushes any buffered entries, ignoring the error stderr returns on some platforms.
func Sync() {
	_ = Get().Sync()
}

func build(mode string) *zap.Logger {
	var (
		l   *zap.Logger
		err error
	)
	switch mode {
	case "dev":
		l, err = zap.NewDevelopment()
	default:
		l, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return l
}
