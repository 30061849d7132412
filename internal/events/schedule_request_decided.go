package events

import "time"

const ScheduleRequestDecidedTopic = "hr.schedule.request.decided.v1"

const (
	ScheduleRequestApprovedEvent  = "schedule_request.approved"
	ScheduleRequestRejectedEvent  = "schedule_request.rejected"
	ScheduleRequestWithdrawnEvent = "schedule_request.withdrawn"
)

// ScheduleRequestDecidedEvent is published through the outbox whenever
// a schedule change request reaches a terminal status.
type ScheduleRequestDecidedEvent struct {
	EventType   string    `json:"event_type"`
	RequestID   string    `json:"request_id"`
	RequestNo   string    `json:"request_no"`
	BranchID    string    `json:"branch_id"`
	RequesterID string    `json:"requester_id"`
	RequestType string    `json:"request_type"`
	Status      string    `json:"status"`
	DecidedBy   string    `json:"decided_by,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}
