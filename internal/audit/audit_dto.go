package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type AuditLogResponse struct {
	ID         uuid.UUID       `json:"id"`
	BranchID   uuid.UUID       `json:"branch_id"`
	Action     string          `json:"action"`
	EntityType string          `json:"entity_type"`
	EntityID   uuid.UUID       `json:"entity_id"`
	ActorID    *uuid.UUID      `json:"actor_id,omitempty"`
	Detail     json.RawMessage `json:"detail,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

func (e RecordEntry) toEntity() (*AuditLog, error) {
	branchID, err := uuid.Parse(e.BranchID)
	if err != nil {
		return nil, err
	}
	entityID, err := uuid.Parse(e.EntityID)
	if err != nil {
		return nil, err
	}

	row := &AuditLog{
		ID:         uuid.New(),
		BranchID:   branchID,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   entityID,
		Detail:     e.Detail,
		OccurredAt: e.OccurredAt,
	}
	if e.ActorID != "" {
		actorID, err := uuid.Parse(e.ActorID)
		if err != nil {
			return nil, err
		}
		row.ActorID = &actorID
	}
	if row.OccurredAt.IsZero() {
		row.OccurredAt = time.Now().UTC()
	}
	return row, nil
}

func mapToResponse(row *AuditLog) AuditLogResponse {
	return AuditLogResponse{
		ID:         row.ID,
		BranchID:   row.BranchID,
		Action:     row.Action,
		EntityType: row.EntityType,
		EntityID:   row.EntityID,
		ActorID:    row.ActorID,
		Detail:     json.RawMessage(row.Detail),
		OccurredAt: row.OccurredAt,
	}
}
