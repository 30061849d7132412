package schedulerequest

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/tenant"
)

type Repository interface {
	// WithTx returns a copy of the repository whose writes run through
	// tx. Reads keep using the pooled connection.
	WithTx(tx *sql.Tx) Repository

	Create(ctx context.Context, req *ScheduleChangeRequest) error
	FindByIDAndBranch(ctx context.Context, branchID, id string) (*ScheduleChangeRequest, error)
	FindAllByRequester(ctx context.Context, branchID, requesterID string) ([]ScheduleChangeRequest, error)
	FindIncomingSwaps(ctx context.Context, branchID, peerID string) ([]ScheduleChangeRequest, error)
	FindBranchQueue(ctx context.Context, branchID string, status *Status) ([]ScheduleChangeRequest, error)

	// ApplyTransition persists every mutable decision column of req,
	// guarded by the status the caller read. It returns the number of
	// rows updated: zero means another actor transitioned the row
	// first and the caller's copy is stale.
	ApplyTransition(ctx context.Context, req *ScheduleChangeRequest, expectedStatus Status, expectedPeerStatus *PeerStatus) (int64, error)

	MarkNotified(ctx context.Context, branchID string, ids []uuid.UUID) error
	CountAdminActionable(ctx context.Context, branchID string) (pending int64, unseen int64, err error)
	HasOpenRequestForDate(ctx context.Context, branchID, requesterID string, shiftDate time.Time) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, req *ScheduleChangeRequest) error {
	if r.tx != nil {
		return r.createInTx(ctx, req)
	}
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *repository) createInTx(ctx context.Context, req *ScheduleChangeRequest) error {
	const q = `
		INSERT INTO schedule_change_requests (
			id, request_no, branch_id, requester_id, request_type,
			original_shift_date, original_shift_type,
			requested_shift_date, requested_shift_type,
			interchange_with_user_id, interchange_shift_date, interchange_shift_type,
			reason, status, peer_status, notified_to_admin, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, now(), now())`
	_, err := r.tx.ExecContext(ctx, q,
		req.ID, req.RequestNo, req.BranchID, req.RequesterID, req.RequestType,
		req.OriginalShiftDate, req.OriginalShiftType,
		req.RequestedShiftDate, req.RequestedShiftType,
		req.InterchangeWithUserID, req.InterchangeShiftDate, req.InterchangeShiftType,
		req.Reason, req.Status, nullablePeerStatus(req.PeerStatus), req.NotifiedToAdmin,
	)
	return err
}

func (r *repository) FindByIDAndBranch(ctx context.Context, branchID, id string) (*ScheduleChangeRequest, error) {
	var req ScheduleChangeRequest
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(branchID)).
		Preload("Requester").
		Preload("InterchangeWith").
		Where("id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) FindAllByRequester(ctx context.Context, branchID, requesterID string) ([]ScheduleChangeRequest, error) {
	var reqs []ScheduleChangeRequest
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(branchID)).
		Preload("InterchangeWith").
		Where("requester_id = ?", requesterID).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *repository) FindIncomingSwaps(ctx context.Context, branchID, peerID string) ([]ScheduleChangeRequest, error) {
	var reqs []ScheduleChangeRequest
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(branchID)).
		Preload("Requester").
		Where("request_type = ?", TypeInterchange).
		Where("interchange_with_user_id = ?", peerID).
		Where("status = ? AND peer_status = ?", StatusPending, PeerPending).
		Order("created_at ASC").
		Find(&reqs).Error
	return reqs, err
}

func (r *repository) FindBranchQueue(ctx context.Context, branchID string, status *Status) ([]ScheduleChangeRequest, error) {
	q := r.db.WithContext(ctx).
		Scopes(tenant.Scope(branchID)).
		Preload("Requester").
		Preload("InterchangeWith")
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	var reqs []ScheduleChangeRequest
	err := q.Order("created_at DESC").Find(&reqs).Error
	return reqs, err
}

func (r *repository) ApplyTransition(ctx context.Context, req *ScheduleChangeRequest, expectedStatus Status, expectedPeerStatus *PeerStatus) (int64, error) {
	if r.tx != nil {
		return r.applyTransitionInTx(ctx, req, expectedStatus, expectedPeerStatus)
	}

	q := r.db.WithContext(ctx).
		Model(&ScheduleChangeRequest{}).
		Where("id = ? AND branch_id = ?", req.ID, req.BranchID).
		Where("status = ?", expectedStatus)
	if expectedPeerStatus != nil {
		q = q.Where("peer_status = ?", *expectedPeerStatus)
	} else {
		q = q.Where("peer_status IS NULL")
	}
	res := q.Updates(transitionColumns(req))
	return res.RowsAffected, res.Error
}

func (r *repository) applyTransitionInTx(ctx context.Context, req *ScheduleChangeRequest, expectedStatus Status, expectedPeerStatus *PeerStatus) (int64, error) {
	const q = `
		UPDATE schedule_change_requests
		SET status = $1,
			peer_status = $2,
			peer_responded_at = $3,
			peer_rejection_reason = $4,
			responded_by = $5,
			responded_at = $6,
			rejection_reason = $7,
			updated_at = now()
		WHERE id = $8
			AND branch_id = $9
			AND status = $10
			AND peer_status IS NOT DISTINCT FROM $11`
	res, err := r.tx.ExecContext(ctx, q,
		req.Status, nullablePeerStatus(req.PeerStatus),
		req.PeerRespondedAt, req.PeerRejectionReason,
		req.RespondedBy, req.RespondedAt, req.RejectionReason,
		req.ID, req.BranchID,
		expectedStatus, nullablePeerStatus(expectedPeerStatus),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func transitionColumns(req *ScheduleChangeRequest) map[string]any {
	return map[string]any{
		"status":                req.Status,
		"peer_status":           nullablePeerStatus(req.PeerStatus),
		"peer_responded_at":     req.PeerRespondedAt,
		"peer_rejection_reason": req.PeerRejectionReason,
		"responded_by":          req.RespondedBy,
		"responded_at":          req.RespondedAt,
		"rejection_reason":      req.RejectionReason,
		"updated_at":            time.Now().UTC(),
	}
}

func nullablePeerStatus(ps *PeerStatus) any {
	if ps == nil {
		return nil
	}
	return string(*ps)
}

func (r *repository) MarkNotified(ctx context.Context, branchID string, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&ScheduleChangeRequest{}).
		Scopes(tenant.Scope(branchID)).
		Where("id IN ?", ids).
		Update("notified_to_admin", true).Error
}

func (r *repository) CountAdminActionable(ctx context.Context, branchID string) (int64, int64, error) {
	const q = `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE notified_to_admin = false)
		FROM schedule_change_requests
		WHERE branch_id = ?
			AND status = 'PENDING'
			AND (request_type <> 'INTERCHANGE' OR peer_status = 'APPROVED')`
	var pending, unseen int64
	row := r.db.WithContext(ctx).Raw(q, branchID).Row()
	if err := row.Scan(&pending, &unseen); err != nil {
		return 0, 0, err
	}
	return pending, unseen, nil
}

func (r *repository) HasOpenRequestForDate(ctx context.Context, branchID, requesterID string, shiftDate time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&ScheduleChangeRequest{}).
		Scopes(tenant.Scope(branchID)).
		Where("requester_id = ?", requesterID).
		Where("original_shift_date = ?", shiftDate.Format("2006-01-02")).
		Where("status IN ?", []Status{StatusPending, StatusApproved}).
		Count(&count).Error
	return count > 0, err
}
