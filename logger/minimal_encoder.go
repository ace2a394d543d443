package logger

import (
	"fmt"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
	colorDim   = "\x1b[38;5;245m"
	colorName  = "\x1b[38;5;109m"
	colorValue = "\x1b[38;5;142m"
	colorWarn  = "\x1b[38;5;214m"
	colorError = "\x1b[38;5;167m"
)

var colorEnabled atomic.Bool

func init() {
	colorEnabled.Store(true)
}

// SetColor toggles ANSI colors in console output.
func SetColor(enabled bool) {
	colorEnabled.Store(enabled)
}

func paint(color, s string) string {
	if !colorEnabled.Load() {
		return s
	}
	return color + s + colorReset
}

var bufferPool = buffer.NewPool()

// minimalEncoder is a compact console encoder.
// Format: "13:04:35  t.dart  emitted file  file=Contracts.dart size=5120"
type minimalEncoder struct {
	zapcore.Encoder // base encoder kept for zapcore.Encoder's ObjectEncoder methods
}

func newMinimalEncoder() *minimalEncoder {
	return &minimalEncoder{
		Encoder: zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
	}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	return &minimalEncoder{Encoder: enc.Encoder.Clone()}
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	final := bufferPool.Get()

	final.AppendString(paint(colorDim, ent.Time.Format("15:04:05")))

	if ent.Level != zapcore.InfoLevel {
		final.AppendString("  ")
		final.AppendString(levelString(ent.Level))
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(paint(colorName, abbreviateName(ent.LoggerName)))
	}

	final.AppendString("  ")
	final.AppendString(ent.Message)

	if len(fields) > 0 {
		final.AppendString("  ")
		final.AppendString(formatFields(fields))
	}

	final.AppendString("\n")
	return final, nil
}

func levelString(level zapcore.Level) string {
	switch level {
	case zapcore.DebugLevel:
		return paint(colorDim, "DEBUG")
	case zapcore.WarnLevel:
		return paint(colorBold+colorWarn, "WARN")
	default:
		return paint(colorBold+colorError, level.CapitalString())
	}
}

// abbreviateName shortens component names: typegen.dart -> t.dart
func abbreviateName(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) > 1 && parts[0] != "" {
		return string(parts[0][0]) + "." + strings.Join(parts[1:], ".")
	}
	return name
}

func fieldValue(field zapcore.Field) string {
	switch field.Type {
	case zapcore.StringType:
		return field.String
	case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type,
		zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type:
		return fmt.Sprintf("%d", field.Integer)
	case zapcore.BoolType:
		return fmt.Sprintf("%t", field.Integer == 1)
	case zapcore.ErrorType:
		if err, ok := field.Interface.(error); ok {
			return err.Error()
		}
	}
	if field.Interface != nil {
		return fmt.Sprintf("%v", field.Interface)
	}
	return ""
}

// formatFields renders key=value pairs, values colored
func formatFields(fields []zapcore.Field) string {
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field.Key+"="+paint(colorValue, fieldValue(field)))
	}
	return strings.Join(parts, " ")
}
