package postgres

import (
	"context"
	"kenyaMart/domain"
	"kenyaMart/pkg/logger"
	"log/slog"
	"time"
)

// ChangePublisher forwards row changes to the change feed after a write
// has committed.
type ChangePublisher interface {
	Publish(ctx context.Context, ev domain.ChangeEvent) error
}

func publishChange(ctx context.Context, p ChangePublisher, ev domain.ChangeEvent) {
	if p == nil {
		return
	}

	ev.At = time.Now()
	if err := p.Publish(context.WithoutCancel(ctx), ev); err != nil {
		// The write already happened; only other sessions miss the refresh.
		logger.Warn("Failed to publish cart change", slog.String("row_id", ev.RowID), slog.String("op", string(ev.Op)), slog.Any("error", err))
	}
}
