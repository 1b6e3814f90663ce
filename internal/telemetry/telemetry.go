// Package telemetry is the product-analytics sink: one injectable interface
// so tracking calls don't end up scattered through control flow, plus a
// redis-stream implementation and a no-op used in tests.
package telemetry

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// Sink records product events. Implementations must be safe for concurrent
// use and must never fail a caller's request path.
type Sink interface {
	Record(ctx context.Context, event string, attrs map[string]any)
}

type redisSink struct {
	client *redis.Client
	stream string
}

// NewRedisSink writes events to a redis stream consumed by the analytics
// pipeline. Delivery is best-effort: a failed XADD is logged and dropped.
func NewRedisSink(client *redis.Client, stream string) Sink {
	return &redisSink{client: client, stream: stream}
}

func (s *redisSink) Record(ctx context.Context, event string, attrs map[string]any) {
	fields := map[string]any{"event": event}
	for k, v := range attrs {
		fields[k] = v
	}

	if err := s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		Values: fields,
	}).Err(); err != nil {
		slog.WarnContext(ctx, "telemetry event dropped", "event", event, "error", err)
	}
}

type nopSink struct{}

// Nop returns a sink that discards everything.
func Nop() Sink {
	return nopSink{}
}

func (nopSink) Record(context.Context, string, map[string]any) {}
