package consumer

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/audit"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/events"
)

// ConsumeScheduleRequestDecided projects terminal schedule-request
// events into the branch audit log until ctx is cancelled. Redeliveries
// are safe: audit.Service.Record ignores duplicate entries.
func ConsumeScheduleRequestDecided(
	ctx context.Context,
	reader *kafkago.Reader,
	auditService audit.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.schedule_request_decided")
	log.Info("schedule request decided consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("schedule request decided consumer stopped")
				return
			}
			log.Error("fetch schedule request decided message failed", zap.Error(err))
			continue
		}

		var event events.ScheduleRequestDecidedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode schedule request decided event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		err = auditService.Record(ctx, audit.RecordEntry{
			BranchID:   event.BranchID,
			Action:     event.EventType,
			EntityType: "schedule_change_request",
			EntityID:   event.RequestID,
			ActorID:    event.DecidedBy,
			Detail:     msg.Value,
			OccurredAt: event.OccurredAt,
		})
		if err != nil {
			log.Error("record schedule request audit entry failed",
				zap.String("request_id", event.RequestID),
				zap.String("branch_id", event.BranchID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit schedule request decided message failed", zap.Error(err))
			continue
		}

		log.Info("schedule request decision audited",
			zap.String("request_id", event.RequestID),
			zap.String("event_type", event.EventType),
			zap.String("branch_id", event.BranchID),
		)
	}
}
