package logger

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestVerbosityToLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zapcore.Level
	}{
		{-1, zapcore.WarnLevel},
		{VerbosityUser, zapcore.WarnLevel},
		{VerbosityInfo, zapcore.InfoLevel},
		{VerbosityDebug, zapcore.DebugLevel},
		{VerbosityTrace, zapcore.DebugLevel},
		{9, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(LevelName(tt.verbosity), func(t *testing.T) {
			assert.Equal(t, tt.want, VerbosityToLevel(tt.verbosity))
		})
	}
}

func TestShouldOutput(t *testing.T) {
	assert.True(t, ShouldOutput(VerbosityUser, OutputResults))
	assert.False(t, ShouldOutput(VerbosityUser, OutputProgress))
	assert.True(t, ShouldOutput(VerbosityInfo, OutputFiles))
	assert.False(t, ShouldOutput(VerbosityDebug, OutputDeclarations))
	assert.True(t, ShouldOutput(VerbosityTrace, OutputDeclarations))
	assert.Equal(t, "timing", CategoryName(OutputTiming))
}

func TestEnabledCategories(t *testing.T) {
	assert.Equal(t, []string{"results", "errors"}, EnabledCategories(VerbosityUser))
	assert.Equal(t, []string{"results", "errors", "progress", "files"}, EnabledCategories(VerbosityInfo))
	assert.Len(t, EnabledCategories(VerbosityTrace), 7)
}

func TestFieldsFromContext(t *testing.T) {
	ctx := WithComponent(WithRunID(context.Background(), "run-1"), "typegen")

	fields := FieldsFromContext(ctx)
	assert.Equal(t, []interface{}{FieldRunID, "run-1", FieldComponent, "typegen"}, fields)
	assert.Empty(t, FieldsFromContext(context.Background()))
}

func TestLoggerFromContext(t *testing.T) {
	defer func() { Logger = zap.NewNop().Sugar() }()

	core, logs := observer.New(zapcore.DebugLevel)
	Logger = zap.New(core).Sugar()

	LoggerFromContext(WithRunID(context.Background(), "run-2")).Infow("rebuilt")
	LoggerFromContext(context.Background()).Infow("plain")

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, "run-2", entries[0].ContextMap()[FieldRunID])
	assert.NotContains(t, entries[1].ContextMap(), FieldRunID)
}

func TestMinimalEncoder(t *testing.T) {
	SetColor(false)
	defer SetColor(true)

	enc := newMinimalEncoder()
	entry := zapcore.Entry{
		Level:      zapcore.WarnLevel,
		Time:       time.Date(2024, 1, 2, 13, 4, 35, 0, time.UTC),
		LoggerName: "typegen.dart",
		Message:    "emitted file",
	}

	buf, err := enc.EncodeEntry(entry, []zapcore.Field{
		zap.String(FieldFile, "Contracts.dart"),
		zap.Int(FieldSize, 42),
		zap.Error(errors.New("boom")),
	})
	require.NoError(t, err)

	line := buf.String()
	assert.True(t, strings.HasPrefix(line, "13:04:35  WARN  t.dart  emitted file"))
	assert.Contains(t, line, "file=Contracts.dart size=42 error=boom")
	assert.True(t, strings.HasSuffix(line, "\n"))
}

func TestInitializeJSON(t *testing.T) {
	defer func() { Logger = zap.NewNop().Sugar() }()

	require.NoError(t, Initialize(true, VerbosityDebug))
	assert.True(t, Logger.Desugar().Core().Enabled(zapcore.DebugLevel))
}
