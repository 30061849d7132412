package schedulerequest

import "github.com/google/uuid"

type SubmitScheduleRequestRequest struct {
	RequestType        string  `json:"request_type" binding:"required,oneof=CHANGE INTERCHANGE TIME_OFF CANCELLATION"`
	OriginalShiftDate  string  `json:"original_shift_date" binding:"required"`
	OriginalShiftType  *string `json:"original_shift_type" binding:"omitempty,oneof=MORNING EVENING NIGHT"`
	RequestedShiftDate *string `json:"requested_shift_date"`
	RequestedShiftType *string `json:"requested_shift_type" binding:"omitempty,oneof=MORNING EVENING NIGHT"`

	InterchangeWithUserID *string `json:"interchange_with_user_id" binding:"omitempty,uuid"`
	InterchangeShiftDate  *string `json:"interchange_shift_date"`
	InterchangeShiftType  *string `json:"interchange_shift_type" binding:"omitempty,oneof=MORNING EVENING NIGHT"`

	Reason string `json:"reason" binding:"required"`
}

type PeerResponseRequest struct {
	Action          string `json:"action" binding:"required,oneof=APPROVE REJECT"`
	RejectionReason string `json:"rejection_reason"`
}

type AdminResponseRequest struct {
	Action          string `json:"action" binding:"required,oneof=APPROVE REJECT"`
	RejectionReason string `json:"rejection_reason"`
}

type ScheduleRequestResponse struct {
	ID          uuid.UUID `json:"id"`
	RequestNo   string    `json:"request_no"`
	BranchID    uuid.UUID `json:"branch_id"`
	RequesterID uuid.UUID `json:"requester_id"`
	Requester   string    `json:"requester_name,omitempty"`
	RequestType string    `json:"request_type"`

	OriginalShiftDate  string  `json:"original_shift_date"`
	OriginalShiftType  *string `json:"original_shift_type,omitempty"`
	RequestedShiftDate *string `json:"requested_shift_date,omitempty"`
	RequestedShiftType *string `json:"requested_shift_type,omitempty"`

	InterchangeWithUserID *uuid.UUID `json:"interchange_with_user_id,omitempty"`
	InterchangeWithName   string     `json:"interchange_with_name,omitempty"`
	InterchangeShiftDate  *string    `json:"interchange_shift_date,omitempty"`
	InterchangeShiftType  *string    `json:"interchange_shift_type,omitempty"`

	Reason string `json:"reason"`

	Status              string  `json:"status"`
	PeerStatus          *string `json:"peer_status,omitempty"`
	PeerRespondedAt     *string `json:"peer_responded_at,omitempty"`
	PeerRejectionReason *string `json:"peer_rejection_reason,omitempty"`

	RespondedBy     *uuid.UUID `json:"responded_by,omitempty"`
	RespondedAt     *string    `json:"responded_at,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type PendingCountResponse struct {
	PendingCount int64 `json:"pending_count"`
	NewCount     int64 `json:"new_count"`
}
