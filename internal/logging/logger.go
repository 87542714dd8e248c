package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the engine logger. Production config with ISO8601 timestamps;
// verbose switches to the development config so per-phase debug lines show.
func New(verbose bool) *zap.SugaredLogger {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return logger.Sugar()
}

// Nop returns a logger that discards everything. Used by tests and by
// components constructed without an explicit logger.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
