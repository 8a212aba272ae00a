// Package logging provides the structured debug log. User-facing output
// goes through internal/ui; this log is for diagnosing operations after the
// fact and is written under .genforge/logs/ only when debug is enabled.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a sugared logger writing to <stateDir>/logs/genforge.log.
// With debug disabled it returns a no-op logger so call sites never need a
// nil check.
func New(stateDir string, debug bool) (*zap.SugaredLogger, error) {
	if !debug {
		return zap.NewNop().Sugar(), nil
	}

	logDir := filepath.Join(stateDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("could not create log directory: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(logDir, "genforge.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("could not open log file: %w", err)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(f),
		zap.DebugLevel,
	)

	return zap.New(core).Sugar(), nil
}
