package telemetry

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapTelemetry writes each event as a structured log line.
type ZapTelemetry struct {
	logger *zap.Logger
	level  zapcore.Level
}

// NewZapTelemetry logs events at info level. Failure events
// (names ending in "_failed", "_rejected" or ".error") are logged as warnings.
func NewZapTelemetry(logger *zap.Logger) *ZapTelemetry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapTelemetry{logger: logger.Named("layout"), level: zapcore.InfoLevel}
}

// Record logs event with payload fields in key order.
func (z *ZapTelemetry) Record(_ context.Context, event string, payload map[string]any) {
	level := z.level
	if isFailure(event) {
		level = zapcore.WarnLevel
	}
	ce := z.logger.Check(level, event)
	if ce == nil {
		return
	}
	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	fields := make([]zap.Field, 0, len(keys))
	for _, key := range keys {
		fields = append(fields, zap.Any(key, payload[key]))
	}
	ce.Write(fields...)
}

func isFailure(event string) bool {
	return strings.HasSuffix(event, "_failed") ||
		strings.HasSuffix(event, "_rejected") ||
		strings.HasSuffix(event, ".error")
}
