package logr

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-logr/logr"
)

var _ logr.LogSink = (*slogSink)(nil)

// slogSink is a logr sink that writes to a slog handler, mapping logr
// v-levels onto slog levels with toSlogLevel.
type slogSink struct {
	handler slog.Handler
}

func newLogSink(h slog.Handler) *slogSink {
	return &slogSink{handler: h}
}

func (s *slogSink) Init(logr.RuntimeInfo) {}

func (s *slogSink) Enabled(level int) bool {
	return s.handler.Enabled(context.Background(), toSlogLevel(level))
}

func (s *slogSink) Info(level int, msg string, keysAndValues ...any) {
	r := slog.NewRecord(time.Now(), toSlogLevel(level), msg, 0)
	r.Add(keysAndValues...)
	_ = s.handler.Handle(context.Background(), r)
}

func (s *slogSink) Error(err error, msg string, keysAndValues ...any) {
	r := slog.NewRecord(time.Now(), slog.LevelError, msg, 0)
	if err != nil {
		r.AddAttrs(slog.Any("error", err))
	}
	r.Add(keysAndValues...)
	_ = s.handler.Handle(context.Background(), r)
}

func (s *slogSink) WithValues(keysAndValues ...any) logr.LogSink {
	return &slogSink{handler: s.handler.WithAttrs(toAttrs(keysAndValues))}
}

func (s *slogSink) WithName(name string) logr.LogSink {
	return &slogSink{handler: s.handler.WithAttrs([]slog.Attr{slog.String("logger", name)})}
}

func toAttrs(keysAndValues []any) []slog.Attr {
	var (
		r     slog.Record
		attrs []slog.Attr
	)
	r.Add(keysAndValues...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})
	return attrs
}
