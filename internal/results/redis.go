package results

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultStream is the Redis stream the reporting layer consumes.
const DefaultStream = "assessment:results"

// RedisSink appends records to a capped Redis stream.
type RedisSink struct {
	client *redis.Client
	stream string
	maxLen int64
}

// NewRedisSink creates a sink writing to stream. An empty stream uses DefaultStream.
func NewRedisSink(client *redis.Client, stream string) *RedisSink {
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisSink{client: client, stream: stream, maxLen: 100_000}
}

func (s *RedisSink) Publish(ctx context.Context, rec Record) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("redis sink client is nil")
	}
	if err := rec.validate(); err != nil {
		return err
	}
	if rec.CompletedAt.IsZero() {
		rec.CompletedAt = time.Now()
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	id, err := s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: s.maxLen,
		Approx: true,
		Values: streamValues(rec),
	}).Result()
	if err != nil {
		return fmt.Errorf("xadd result: %w", err)
	}

	slog.Debug("result published",
		"stream", s.stream,
		"entry_id", id,
		"widget_id", rec.WidgetID,
	)
	return nil
}

func streamValues(rec Record) map[string]any {
	return map[string]any{
		"mount_id":     rec.MountID,
		"section_id":   rec.SectionID,
		"widget_id":    rec.WidgetID,
		"kind":         string(rec.Kind),
		"bank_version": rec.BankVersion,
		"attempt":      strconv.Itoa(rec.Attempt),
		"score":        strconv.Itoa(rec.Score),
		"total":        strconv.Itoa(rec.Total),
		"percentage":   strconv.Itoa(rec.Percentage),
		"passed":       strconv.FormatBool(rec.Passed),
		"completed_at": rec.CompletedAt.UTC().Format(time.RFC3339Nano),
	}
}
