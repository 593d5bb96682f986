package notification

import (
	"context"
	"log/slog"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/notification"
)

// LogSink writes events to the structured log only.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Publish(ctx context.Context, companyID string, name notification.EventName, payload map[string]any) {
	s.logger.InfoContext(ctx, "event published",
		slog.String("event", string(name)),
		slog.String("company_id", companyID),
		slog.Any("payload", payload),
	)
}

var _ notification.Sink = (*LogSink)(nil)
