package flowz

import (
	"context"
	"log/slog"
)

// LogLevel selects the slog level Log records items at.
type LogLevel = slog.Level

// Log returns a Flow that emits structured log records for each item via
// logger, then passes the item through unchanged (§4.9 — observability
// combinators never alter items or termination). prefix is attached as a
// "flow" attribute on every record so records from different Log sites in a
// composed pipeline are distinguishable.
func Log[T any](name Name, logger *slog.Logger, level LogLevel, prefix string) Flow[T, T] {
	if logger == nil {
		logger = slog.Default()
	}
	return NewFlow(name, func(in *Stream[T]) *Stream[T] {
		idx := 0
		return newStream(func(ctx context.Context) (T, bool, error) {
			v, ok, err := in.Next(ctx)
			if err != nil {
				logger.Log(ctx, level, prefix+" stream error", "flow", name, "error", err)
				return v, ok, err
			}
			if !ok {
				logger.Log(ctx, level, prefix+" stream complete", "flow", name, "items", idx)
				return v, false, nil
			}
			idx++
			logger.Log(ctx, level, prefix+" item", "flow", name, "index", idx, "value", v)
			return v, true, nil
		})
	}, Metadata{"kind": "log"})
}
