// Package logging builds the process-wide structured logger.
package logging

import (
	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds an ectologger backed by zap. Pretty mode uses the development
// console encoder; otherwise logs are JSON at the configured level.
func New(level string, pretty bool) (ectologger.Logger, error) {
	if pretty {
		zapLogger, err := zap.NewDevelopment()
		if err != nil {
			return nil, err
		}
		return zapadapter.NewZapEctoLogger(zapLogger, nil), nil
	}

	cfg := zap.NewProductionConfig()
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	zapLogger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return zapadapter.NewZapEctoLogger(zapLogger, nil), nil
}
