package schedulerequest

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RequestType values mirror the request_type enum in PostgreSQL.
type RequestType string

const (
	TypeChange       RequestType = "CHANGE"
	TypeInterchange  RequestType = "INTERCHANGE"
	TypeTimeOff      RequestType = "TIME_OFF"
	TypeCancellation RequestType = "CANCELLATION"
)

// Status is the overall, admin-facing state of a request.
// PENDING is the only non-terminal value.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusWithdrawn Status = "WITHDRAWN"
)

// PeerStatus tracks the named colleague's decision on an interchange
// request. It is stored as a nullable column and is nil for every other
// request type.
type PeerStatus string

const (
	PeerPending  PeerStatus = "PENDING"
	PeerApproved PeerStatus = "APPROVED"
	PeerRejected PeerStatus = "REJECTED"
)

func ParseRequestType(s string) (RequestType, error) {
	t := RequestType(s)
	switch t {
	case TypeChange, TypeInterchange, TypeTimeOff, TypeCancellation:
		return t, nil
	}
	return "", fmt.Errorf("unknown request type %q", s)
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusPending, StatusApproved, StatusRejected, StatusWithdrawn:
		return st, nil
	}
	return "", fmt.Errorf("unknown request status %q", s)
}

// ScheduleChangeRequest is the aggregate root of the interchange and
// schedule-change approval workflow. The interchange-only columns
// (interchange_with_user_id, peer_status, ...) are nullable and non-nil
// exactly when request_type = INTERCHANGE.
type ScheduleChangeRequest struct {
	ID uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	// RequestNo is unique per branch, not globally: it comes from the
	// per-branch counter, so every branch starts at SCR-00001.
	RequestNo   string      `gorm:"column:request_no;type:varchar(30);not null;uniqueIndex:uq_schedule_requests_branch_request_no,priority:2"`
	BranchID    uuid.UUID   `gorm:"column:branch_id;type:uuid;not null;index:idx_schedule_requests_branch_status;uniqueIndex:uq_schedule_requests_branch_request_no,priority:1"`
	RequesterID uuid.UUID   `gorm:"column:requester_id;type:uuid;not null;index;uniqueIndex:uq_schedule_requests_open_slot,priority:1,where:status = 'PENDING' OR status = 'APPROVED'"`
	RequestType RequestType `gorm:"column:request_type;type:varchar(20);not null"`

	OriginalShiftDate  time.Time  `gorm:"column:original_shift_date;type:date;not null;uniqueIndex:uq_schedule_requests_open_slot,priority:2"`
	OriginalShiftType  *string    `gorm:"column:original_shift_type;type:varchar(20)"`
	RequestedShiftDate *time.Time `gorm:"column:requested_shift_date;type:date"`
	RequestedShiftType *string    `gorm:"column:requested_shift_type;type:varchar(20)"`

	InterchangeWithUserID *uuid.UUID `gorm:"column:interchange_with_user_id;type:uuid;index"`
	InterchangeShiftDate  *time.Time `gorm:"column:interchange_shift_date;type:date"`
	InterchangeShiftType  *string    `gorm:"column:interchange_shift_type;type:varchar(20)"`

	Reason string `gorm:"column:reason;type:text;not null"`

	Status              Status      `gorm:"column:status;type:varchar(20);not null;default:PENDING;index:idx_schedule_requests_branch_status"`
	PeerStatus          *PeerStatus `gorm:"column:peer_status;type:varchar(20)"`
	PeerRespondedAt     *time.Time  `gorm:"column:peer_responded_at;type:timestamptz"`
	PeerRejectionReason *string     `gorm:"column:peer_rejection_reason;type:text"`

	RespondedBy     *uuid.UUID `gorm:"column:responded_by;type:uuid"`
	RespondedAt     *time.Time `gorm:"column:responded_at;type:timestamptz"`
	RejectionReason *string    `gorm:"column:rejection_reason;type:text"`

	NotifiedToAdmin bool `gorm:"column:notified_to_admin;not null;default:false"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`

	Requester       *EmployeeRef `gorm:"foreignKey:RequesterID"`
	InterchangeWith *EmployeeRef `gorm:"foreignKey:InterchangeWithUserID"`
}

func (ScheduleChangeRequest) TableName() string {
	return "schedule_change_requests"
}

// EmployeeRef is a read-only projection of the employees table used for
// name lookups on listings.
type EmployeeRef struct {
	ID       uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	FullName string    `gorm:"column:full_name"`
}

func (EmployeeRef) TableName() string {
	return "employees"
}

// IsTerminal reports whether the overall status permits no further
// transition.
func (r *ScheduleChangeRequest) IsTerminal() bool {
	return r.Status != StatusPending
}

// AdminActionable reports whether the request currently sits in the
// branch admin's queue: still pending, and for interchange requests the
// peer has already approved.
func (r *ScheduleChangeRequest) AdminActionable() bool {
	if r.Status != StatusPending {
		return false
	}
	if r.RequestType != TypeInterchange {
		return true
	}
	return r.PeerStatus != nil && *r.PeerStatus == PeerApproved
}
