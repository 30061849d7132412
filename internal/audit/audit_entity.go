package audit

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog is an append-only record of workflow decisions, written by
// the Kafka consumer from decided-request events.
type AuditLog struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	BranchID   uuid.UUID  `gorm:"column:branch_id;type:uuid;not null;index:idx_audit_logs_branch_occurred"`
	Action     string     `gorm:"column:action;type:varchar(60);not null;uniqueIndex:uq_audit_entity_action"`
	EntityType string     `gorm:"column:entity_type;type:varchar(60);not null;uniqueIndex:uq_audit_entity_action"`
	EntityID   uuid.UUID  `gorm:"column:entity_id;type:uuid;not null;uniqueIndex:uq_audit_entity_action"`
	ActorID    *uuid.UUID `gorm:"column:actor_id;type:uuid"`
	Detail     []byte     `gorm:"column:detail;type:jsonb"`
	OccurredAt time.Time  `gorm:"column:occurred_at;type:timestamptz;not null;index:idx_audit_logs_branch_occurred,sort:desc"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
