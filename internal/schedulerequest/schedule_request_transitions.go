package schedulerequest

import (
	"strings"
	"time"

	"github.com/google/uuid"

	schedulerequesterrors "github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/schedulerequest/errors"
)

// SideEffect tells the service which schedule mutation must happen in
// the same transaction as an approval.
type SideEffect int

const (
	SideEffectNone SideEffect = iota
	// SideEffectCreateLeave records a leave row covering the requested
	// period (TIME_OFF approvals).
	SideEffectCreateLeave
	// SideEffectCancelShift cancels the scheduled assignment on the
	// original shift date (CANCELLATION approvals).
	SideEffectCancelShift
)

const defaultRejectionReason = "No reason provided"

// ApplyPeerResponse records the interchange partner's decision on r.
// A rejection settles the request immediately: the overall status goes
// to REJECTED without ever reaching the branch admin.
func ApplyPeerResponse(r *ScheduleChangeRequest, peerID uuid.UUID, approve bool, rejectionReason string, now time.Time) error {
	if r.RequestType != TypeInterchange || r.InterchangeWithUserID == nil || *r.InterchangeWithUserID != peerID {
		// Requests the caller is not the named peer of stay invisible.
		return schedulerequesterrors.ErrRequestNotFound
	}
	if r.IsTerminal() || r.PeerStatus == nil || *r.PeerStatus != PeerPending {
		return schedulerequesterrors.ErrAlreadyProcessed
	}

	if approve {
		ps := PeerApproved
		r.PeerStatus = &ps
		r.PeerRespondedAt = &now
		return nil
	}

	reason := strings.TrimSpace(rejectionReason)
	if reason == "" {
		reason = defaultRejectionReason
	}
	ps := PeerRejected
	r.PeerStatus = &ps
	r.PeerRespondedAt = &now
	r.PeerRejectionReason = &reason
	r.Status = StatusRejected
	r.RejectionReason = &reason
	r.RespondedAt = &now
	return nil
}

// ApplyAdminDecision records the branch admin's verdict on r and
// returns the schedule mutation the caller must perform alongside it.
// Interchange requests are only decidable after the peer has approved.
func ApplyAdminDecision(r *ScheduleChangeRequest, adminID uuid.UUID, approve bool, rejectionReason string, now time.Time) (SideEffect, error) {
	if r.IsTerminal() {
		return SideEffectNone, schedulerequesterrors.ErrAlreadyProcessed
	}
	if r.RequestType == TypeInterchange {
		if r.PeerStatus == nil || *r.PeerStatus != PeerApproved {
			return SideEffectNone, schedulerequesterrors.ErrPeerApprovalPending
		}
	}

	if !approve {
		reason := strings.TrimSpace(rejectionReason)
		if reason == "" {
			return SideEffectNone, schedulerequesterrors.ErrRejectionReasonRequired
		}
		r.Status = StatusRejected
		r.RejectionReason = &reason
		r.RespondedBy = &adminID
		r.RespondedAt = &now
		return SideEffectNone, nil
	}

	r.Status = StatusApproved
	r.RespondedBy = &adminID
	r.RespondedAt = &now

	switch r.RequestType {
	case TypeTimeOff:
		return SideEffectCreateLeave, nil
	case TypeCancellation:
		return SideEffectCancelShift, nil
	default:
		return SideEffectNone, nil
	}
}

// ApplyWithdrawal lets the requester pull back a still-pending request.
// Interchange requests can be withdrawn at any point before the admin
// decides, including after the peer has approved.
func ApplyWithdrawal(r *ScheduleChangeRequest, requesterID uuid.UUID, now time.Time) error {
	if r.RequesterID != requesterID {
		return schedulerequesterrors.ErrRequestNotFound
	}
	if r.IsTerminal() {
		return schedulerequesterrors.ErrAlreadyProcessed
	}
	r.Status = StatusWithdrawn
	r.RespondedAt = &now
	return nil
}
