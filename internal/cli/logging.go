package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/calvinalkan/kanban/internal/board"
)

const (
	logDirPerms  = 0o750
	logFilePerms = 0o600
)

// newLogger returns the operational logger for cfg and a function that
// flushes and closes it. Logging is off unless log_level is set, so command
// output never mixes with log lines.
func newLogger(cfg board.Config) (*zap.Logger, func(), error) {
	if cfg.LogFileAbs == "" {
		return zap.NewNop(), func() {}, nil
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}

	err = os.MkdirAll(filepath.Dir(cfg.LogFileAbs), logDirPerms)
	if err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}

	file, err := os.OpenFile(cfg.LogFileAbs, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePerms)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(file), level)
	logger := zap.New(core).With(zap.Int("pid", os.Getpid()))

	closeFn := func() {
		_ = logger.Sync()
		_ = file.Close()
	}

	return logger, closeFn, nil
}
