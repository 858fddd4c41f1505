package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-menu-service/internal/importer"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type Consumer interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type ImportListener struct {
	consumer Consumer
	uc       importer.UseCase
	logger   logger.ZapLogger
	backoff  time.Duration
}

func NewImportListener(consumer Consumer, uc importer.UseCase, logger logger.ZapLogger) *ImportListener {
	return &ImportListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
		backoff:  time.Second,
	}
}

func (l *ImportListener) Start(ctx context.Context) {
	l.logger.Info("Starting menu import listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping menu import listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				select {
				case <-ctx.Done():
					return
				case <-time.After(l.backoff):
				}
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

func (l *ImportListener) processMessage(ctx context.Context, value []byte) {
	var event importer.RequestedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != importer.EventImportRequested {
		return
	}
	if event.JobID == "" || event.MenuID <= 0 {
		l.logger.Error("Dropping malformed import request", zap.String("job_id", event.JobID), zap.Int64("menu_id", event.MenuID))
		return
	}

	l.logger.Info("Processing menu import", zap.String("job_id", event.JobID), zap.Int64("menu_id", event.MenuID))

	if err := l.uc.Run(ctx, &event); err != nil {
		l.logger.Error("Menu import failed", zap.String("job_id", event.JobID), zap.Error(err))
	}
}
