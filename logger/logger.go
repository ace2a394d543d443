package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the global logger instance
var Logger *zap.SugaredLogger

func init() {
	// Safe no-op logger until Initialize is called, so library code and
	// tests can log without setup.
	Logger = zap.NewNop().Sugar()
}

// Initialize sets up the global logger.
//
// jsonOutput selects zap's production JSON encoder (for CI pipelines), otherwise
// a compact console encoder writes to stderr so generated output on stdout stays
// clean. verbosity is the -v flag count (see VerbosityToLevel).
func Initialize(jsonOutput bool, verbosity int) error {
	level := VerbosityToLevel(verbosity)

	var zapLogger *zap.Logger
	var err error

	if jsonOutput {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(level)
		config.OutputPaths = []string{"stderr"}
		zapLogger, err = config.Build()
	} else {
		if os.Getenv("NO_COLOR") != "" {
			SetColor(false)
		}
		zapLogger = zap.New(
			zapcore.NewCore(
				newMinimalEncoder(),
				zapcore.AddSync(os.Stderr),
				level,
			),
		)
	}

	if err != nil {
		return err
	}

	Logger = zapLogger.Sugar()
	return nil
}

// Cleanup flushes any buffered log entries
func Cleanup() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}
