package schedulerequest

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/employee"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/events"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/leave"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/messaging/kafka"
	schedulerequesterrors "github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/schedulerequest/errors"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/shared/apperror"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/shared/contextutil"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/shared/counter"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/shiftassignment"
)

const (
	requestNoCounterType  = "schedule_request"
	pendingCountCacheTTL  = 15 * time.Second
	timeOffLeaveType      = "TIME_OFF"
	scheduleAggregateType = "schedule_change_request"
)

func pendingCountCacheKey(branchID string) string {
	return fmt.Sprintf("schedreq:pending:%s", branchID)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type Service interface {
	Submit(ctx context.Context, branchID, requesterID string, req SubmitScheduleRequestRequest) (ScheduleRequestResponse, error)
	GetMyRequests(ctx context.Context, branchID, requesterID string) ([]ScheduleRequestResponse, error)
	GetIncomingSwaps(ctx context.Context, branchID, peerID string) ([]ScheduleRequestResponse, error)
	RespondAsPeer(ctx context.Context, branchID, peerID, id string, req PeerResponseRequest) (ScheduleRequestResponse, error)
	GetBranchQueue(ctx context.Context, branchID string, status *Status) ([]ScheduleRequestResponse, error)
	RespondAsAdmin(ctx context.Context, branchID, adminID, id string, req AdminResponseRequest) (ScheduleRequestResponse, error)
	Withdraw(ctx context.Context, branchID, requesterID, id string) (ScheduleRequestResponse, error)
	GetPendingCounts(ctx context.Context, branchID string) (PendingCountResponse, error)
}

// Directory is the slice of the employee module the workflow needs for
// requester and peer validation.
type Directory interface {
	FindByIDAndBranch(ctx context.Context, branchID, id string) (*employee.Employee, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	dir      Directory
	leaves   leave.Repository
	shifts   shiftassignment.Repository
	outbox   kafka.OutboxRepository
	counters counter.Repository
	rdb      *redis.Client
	sf       *singleflight.Group
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(
	db *sql.DB,
	repo Repository,
	dir Directory,
	leaves leave.Repository,
	shifts shiftassignment.Repository,
	outbox kafka.OutboxRepository,
	counters counter.Repository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("schedulerequest.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("schedulerequest.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		dir:      dir,
		leaves:   leaves,
		shifts:   shifts,
		outbox:   outbox,
		counters: counters,
		rdb:      rdb,
		sf:       &singleflight.Group{},
		logger:   l,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) Submit(ctx context.Context, branchID, requesterID string, req SubmitScheduleRequestRequest) (ScheduleRequestResponse, error) {
	s.logger.Debug("submit schedule request",
		zap.String("branch_id", branchID),
		zap.String("requester_id", requesterID),
		zap.String("request_type", req.RequestType),
	)

	branchUUID, err := uuid.Parse(branchID)
	if err != nil {
		return ScheduleRequestResponse{}, apperror.InvalidField("branch_id")
	}
	requesterUUID, err := uuid.Parse(requesterID)
	if err != nil {
		return ScheduleRequestResponse{}, apperror.InvalidField("requester_id")
	}

	r, err := s.buildSubmission(branchUUID, requesterUUID, req)
	if err != nil {
		return ScheduleRequestResponse{}, err
	}

	requester, err := s.dir.FindByIDAndBranch(ctx, branchID, requesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ScheduleRequestResponse{}, schedulerequesterrors.ErrEmployeeNotInBranch
		}
		return ScheduleRequestResponse{}, err
	}

	if r.RequestType == TypeInterchange {
		if err := s.validatePeer(ctx, branchID, requesterUUID, *r.InterchangeWithUserID); err != nil {
			return ScheduleRequestResponse{}, err
		}
	}

	open, err := s.repo.HasOpenRequestForDate(ctx, branchID, requesterID, r.OriginalShiftDate)
	if err != nil {
		return ScheduleRequestResponse{}, err
	}
	if open {
		return ScheduleRequestResponse{}, schedulerequesterrors.ErrDuplicateRequest
	}

	seq, err := s.counters.GetNextValue(ctx, branchID, requestNoCounterType)
	if err != nil {
		return ScheduleRequestResponse{}, err
	}
	r.RequestNo = fmt.Sprintf("SCR-%05d", seq)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit schedule request begin tx failed", zap.Error(err))
		return ScheduleRequestResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Create(ctx, r); err != nil {
		// The pre-insert check races with concurrent submissions; the
		// partial unique index on open (requester, date) slots is the
		// backstop.
		if isUniqueViolation(err) {
			return ScheduleRequestResponse{}, schedulerequesterrors.ErrDuplicateRequest
		}
		s.logger.Error("submit schedule request insert failed", zap.Error(err))
		return ScheduleRequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return ScheduleRequestResponse{}, err
	}

	s.invalidatePendingCounts(ctx, branchID)

	contextutil.GetLogger(ctx, s.logger).Info("schedule request submitted",
		zap.String("request_id", r.ID.String()),
		zap.String("request_no", r.RequestNo),
		zap.String("request_type", string(r.RequestType)),
		zap.String("branch_id", branchID),
	)

	resp := mapToResponse(r)
	resp.Requester = requester.FullName
	return resp, nil
}

// buildSubmission validates the type-specific field combinations and
// assembles a pending request.
func (s *service) buildSubmission(branchID, requesterID uuid.UUID, req SubmitScheduleRequestRequest) (*ScheduleChangeRequest, error) {
	reqType, err := ParseRequestType(req.RequestType)
	if err != nil {
		return nil, apperror.InvalidField("request_type")
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, apperror.RequiredField("reason")
	}

	originalDate, err := parseDate(req.OriginalShiftDate)
	if err != nil {
		return nil, apperror.InvalidField("original_shift_date")
	}

	r := &ScheduleChangeRequest{
		ID:                uuid.New(),
		BranchID:          branchID,
		RequesterID:       requesterID,
		RequestType:       reqType,
		OriginalShiftDate: originalDate,
		OriginalShiftType: req.OriginalShiftType,
		Reason:            reason,
		Status:            StatusPending,
	}

	requestedDate, err := parseOptionalDate(req.RequestedShiftDate)
	if err != nil {
		return nil, apperror.InvalidField("requested_shift_date")
	}
	r.RequestedShiftDate = requestedDate
	r.RequestedShiftType = req.RequestedShiftType

	switch reqType {
	case TypeChange:
		if r.RequestedShiftDate == nil && r.RequestedShiftType == nil {
			return nil, apperror.RequiredField("requested_shift_date")
		}

	case TypeTimeOff:
		// requested_shift_date doubles as the end of the time-off
		// period; a single-day request can omit it.
		if r.RequestedShiftDate != nil && r.RequestedShiftDate.Before(originalDate) {
			return nil, apperror.InvalidField("requested_shift_date")
		}

	case TypeInterchange:
		if req.InterchangeWithUserID == nil {
			return nil, apperror.RequiredField("interchange_with_user_id")
		}
		peerID, err := uuid.Parse(*req.InterchangeWithUserID)
		if err != nil {
			return nil, apperror.InvalidField("interchange_with_user_id")
		}
		r.InterchangeWithUserID = &peerID
		interchangeDate, err := parseOptionalDate(req.InterchangeShiftDate)
		if err != nil {
			return nil, apperror.InvalidField("interchange_shift_date")
		}
		r.InterchangeShiftDate = interchangeDate
		r.InterchangeShiftType = req.InterchangeShiftType
		ps := PeerPending
		r.PeerStatus = &ps

	case TypeCancellation:
		// only the original shift matters
	}

	return r, nil
}

func (s *service) validatePeer(ctx context.Context, branchID string, requesterID, peerID uuid.UUID) error {
	if peerID == requesterID {
		return schedulerequesterrors.ErrInvalidPeer
	}
	peer, err := s.dir.FindByIDAndBranch(ctx, branchID, peerID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return schedulerequesterrors.ErrInvalidPeer
		}
		return err
	}
	if peer.RoleAs.IsPatient() {
		return schedulerequesterrors.ErrInvalidPeer
	}
	return nil
}

func (s *service) GetMyRequests(ctx context.Context, branchID, requesterID string) ([]ScheduleRequestResponse, error) {
	reqs, err := s.repo.FindAllByRequester(ctx, branchID, requesterID)
	if err != nil {
		return nil, err
	}
	return mapAllToResponse(reqs), nil
}

func (s *service) GetIncomingSwaps(ctx context.Context, branchID, peerID string) ([]ScheduleRequestResponse, error) {
	reqs, err := s.repo.FindIncomingSwaps(ctx, branchID, peerID)
	if err != nil {
		return nil, err
	}
	return mapAllToResponse(reqs), nil
}

func (s *service) RespondAsPeer(ctx context.Context, branchID, peerID, id string, req PeerResponseRequest) (ScheduleRequestResponse, error) {
	peerUUID, err := uuid.Parse(peerID)
	if err != nil {
		return ScheduleRequestResponse{}, apperror.InvalidField("peer_id")
	}

	r, err := s.loadRequest(ctx, branchID, id)
	if err != nil {
		return ScheduleRequestResponse{}, err
	}

	expectedStatus, expectedPeer := snapshotState(r)

	if err := ApplyPeerResponse(r, peerUUID, req.Action == "APPROVE", req.RejectionReason, s.now()); err != nil {
		return ScheduleRequestResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("peer response begin tx failed", zap.Error(err))
		return ScheduleRequestResponse{}, err
	}
	defer tx.Rollback()

	rows, err := s.repo.WithTx(tx).ApplyTransition(ctx, r, expectedStatus, expectedPeer)
	if err != nil {
		return ScheduleRequestResponse{}, err
	}
	if rows == 0 {
		return ScheduleRequestResponse{}, schedulerequesterrors.ErrAlreadyProcessed
	}

	// A peer rejection settles the request, so it gets a decided event
	// like any other terminal transition.
	if r.Status == StatusRejected {
		if err := s.enqueueDecidedEvent(ctx, tx, r, events.ScheduleRequestRejectedEvent, peerID); err != nil {
			return ScheduleRequestResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return ScheduleRequestResponse{}, err
	}

	s.invalidatePendingCounts(ctx, branchID)

	s.logger.Info("peer responded to interchange request",
		zap.String("request_id", r.ID.String()),
		zap.String("action", req.Action),
		zap.String("peer_id", peerID),
	)

	return mapToResponse(r), nil
}

func (s *service) GetBranchQueue(ctx context.Context, branchID string, status *Status) ([]ScheduleRequestResponse, error) {
	reqs, err := s.repo.FindBranchQueue(ctx, branchID, status)
	if err != nil {
		return nil, err
	}

	// Listing the queue doubles as the admin seeing the requests, which
	// resets the new-request counter.
	var unseen []uuid.UUID
	for i := range reqs {
		if reqs[i].AdminActionable() && !reqs[i].NotifiedToAdmin {
			unseen = append(unseen, reqs[i].ID)
		}
	}
	if len(unseen) > 0 {
		if err := s.repo.MarkNotified(ctx, branchID, unseen); err != nil {
			s.logger.Error("mark requests notified failed",
				zap.String("branch_id", branchID),
				zap.Int("count", len(unseen)),
				zap.Error(err),
			)
		} else {
			s.invalidatePendingCounts(ctx, branchID)
		}
	}

	return mapAllToResponse(reqs), nil
}

func (s *service) RespondAsAdmin(ctx context.Context, branchID, adminID, id string, req AdminResponseRequest) (ScheduleRequestResponse, error) {
	adminUUID, err := uuid.Parse(adminID)
	if err != nil {
		return ScheduleRequestResponse{}, apperror.InvalidField("admin_id")
	}

	r, err := s.loadRequest(ctx, branchID, id)
	if err != nil {
		return ScheduleRequestResponse{}, err
	}

	expectedStatus, expectedPeer := snapshotState(r)

	sideEffect, err := ApplyAdminDecision(r, adminUUID, req.Action == "APPROVE", req.RejectionReason, s.now())
	if err != nil {
		return ScheduleRequestResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("admin response begin tx failed", zap.Error(err))
		return ScheduleRequestResponse{}, err
	}
	defer tx.Rollback()

	rows, err := s.repo.WithTx(tx).ApplyTransition(ctx, r, expectedStatus, expectedPeer)
	if err != nil {
		return ScheduleRequestResponse{}, err
	}
	if rows == 0 {
		return ScheduleRequestResponse{}, schedulerequesterrors.ErrAlreadyProcessed
	}

	if err := s.applySideEffect(ctx, tx, r, sideEffect, adminUUID); err != nil {
		return ScheduleRequestResponse{}, err
	}

	eventType := events.ScheduleRequestApprovedEvent
	if r.Status == StatusRejected {
		eventType = events.ScheduleRequestRejectedEvent
	}
	if err := s.enqueueDecidedEvent(ctx, tx, r, eventType, adminID); err != nil {
		return ScheduleRequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return ScheduleRequestResponse{}, err
	}

	s.invalidatePendingCounts(ctx, branchID)

	contextutil.GetLogger(ctx, s.logger).Info("admin decided schedule request",
		zap.String("request_id", r.ID.String()),
		zap.String("request_no", r.RequestNo),
		zap.String("status", string(r.Status)),
		zap.String("admin_id", adminID),
	)

	return mapToResponse(r), nil
}

// applySideEffect performs the schedule mutation an approval implies,
// inside the same transaction as the status update.
func (s *service) applySideEffect(ctx context.Context, tx *sql.Tx, r *ScheduleChangeRequest, sideEffect SideEffect, adminID uuid.UUID) error {
	switch sideEffect {
	case SideEffectCreateLeave:
		endDate := r.OriginalShiftDate
		if r.RequestedShiftDate != nil {
			endDate = *r.RequestedShiftDate
		}
		now := s.now()
		l := &leave.Leave{
			ID:              uuid.New(),
			BranchID:        r.BranchID,
			EmployeeID:      r.RequesterID,
			LeaveType:       timeOffLeaveType,
			StartDate:       r.OriginalShiftDate,
			EndDate:         endDate,
			TotalDays:       int(endDate.Sub(r.OriginalShiftDate).Hours()/24) + 1,
			Reason:          r.Reason,
			Status:          leave.StatusApproved,
			CreatedBy:       r.RequesterID,
			ApprovedBy:      &adminID,
			ApprovedAt:      &now,
			SourceRequestID: &r.ID,
		}
		if err := s.leaves.WithTx(tx).Create(ctx, l); err != nil {
			s.logger.Error("create leave from time-off approval failed",
				zap.String("request_id", r.ID.String()),
				zap.Error(err),
			)
			return err
		}

	case SideEffectCancelShift:
		rows, err := s.shifts.WithTx(tx).CancelScheduled(ctx, r.BranchID.String(), r.RequesterID.String(), r.OriginalShiftDate)
		if err != nil {
			s.logger.Error("cancel shift from approval failed",
				zap.String("request_id", r.ID.String()),
				zap.Error(err),
			)
			return err
		}
		if rows == 0 {
			// Nothing scheduled on that date; the approval still stands.
			s.logger.Warn("no scheduled shift to cancel",
				zap.String("request_id", r.ID.String()),
				zap.Time("shift_date", r.OriginalShiftDate),
			)
		}
	}
	return nil
}

func (s *service) Withdraw(ctx context.Context, branchID, requesterID, id string) (ScheduleRequestResponse, error) {
	requesterUUID, err := uuid.Parse(requesterID)
	if err != nil {
		return ScheduleRequestResponse{}, apperror.InvalidField("requester_id")
	}

	r, err := s.loadRequest(ctx, branchID, id)
	if err != nil {
		return ScheduleRequestResponse{}, err
	}

	expectedStatus, expectedPeer := snapshotState(r)

	if err := ApplyWithdrawal(r, requesterUUID, s.now()); err != nil {
		return ScheduleRequestResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("withdraw begin tx failed", zap.Error(err))
		return ScheduleRequestResponse{}, err
	}
	defer tx.Rollback()

	rows, err := s.repo.WithTx(tx).ApplyTransition(ctx, r, expectedStatus, expectedPeer)
	if err != nil {
		return ScheduleRequestResponse{}, err
	}
	if rows == 0 {
		return ScheduleRequestResponse{}, schedulerequesterrors.ErrAlreadyProcessed
	}

	if err := s.enqueueDecidedEvent(ctx, tx, r, events.ScheduleRequestWithdrawnEvent, requesterID); err != nil {
		return ScheduleRequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return ScheduleRequestResponse{}, err
	}

	s.invalidatePendingCounts(ctx, branchID)

	s.logger.Info("schedule request withdrawn",
		zap.String("request_id", r.ID.String()),
		zap.String("requester_id", requesterID),
	)

	return mapToResponse(r), nil
}

func (s *service) GetPendingCounts(ctx context.Context, branchID string) (PendingCountResponse, error) {
	cacheKey := pendingCountCacheKey(branchID)

	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var resp PendingCountResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		pending, unseen, err := s.repo.CountAdminActionable(ctx, branchID)
		if err != nil {
			return nil, err
		}
		resp := PendingCountResponse{PendingCount: pending, NewCount: unseen}

		if s.rdb != nil {
			if data, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, data, pendingCountCacheTTL)
			}
		}
		return resp, nil
	})
	if err != nil {
		return PendingCountResponse{}, err
	}
	return v.(PendingCountResponse), nil
}

func (s *service) loadRequest(ctx context.Context, branchID, id string) (*ScheduleChangeRequest, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, schedulerequesterrors.ErrRequestNotFound
	}
	r, err := s.repo.FindByIDAndBranch(ctx, branchID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, schedulerequesterrors.ErrRequestNotFound
		}
		return nil, err
	}
	return r, nil
}

// snapshotState captures the status columns the CAS update will guard
// on, before the transition mutates the in-memory copy.
func snapshotState(r *ScheduleChangeRequest) (Status, *PeerStatus) {
	status := r.Status
	var peer *PeerStatus
	if r.PeerStatus != nil {
		p := *r.PeerStatus
		peer = &p
	}
	return status, peer
}

func (s *service) enqueueDecidedEvent(ctx context.Context, tx *sql.Tx, r *ScheduleChangeRequest, eventType, decidedBy string) error {
	reason := ""
	if r.RejectionReason != nil {
		reason = *r.RejectionReason
	}

	event := events.ScheduleRequestDecidedEvent{
		EventType:   eventType,
		RequestID:   r.ID.String(),
		RequestNo:   r.RequestNo,
		BranchID:    r.BranchID.String(),
		RequesterID: r.RequesterID.String(),
		RequestType: string(r.RequestType),
		Status:      string(r.Status),
		DecidedBy:   decidedBy,
		Reason:      reason,
		OccurredAt:  s.now(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	outboxEvent := kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: scheduleAggregateType,
		AggregateID:   r.ID.String(),
		EventType:     eventType,
		Topic:         events.ScheduleRequestDecidedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}
	if err := kafka.ValidateOutboxEvent(outboxEvent); err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, outboxEvent)
}

func (s *service) invalidatePendingCounts(ctx context.Context, branchID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := pendingCountCacheKey(branchID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("invalidate pending count cache failed",
			zap.String("cache_key", cacheKey),
			zap.Error(err),
		)
	}
}

func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", strings.TrimSpace(value))
}

func parseOptionalDate(value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	d, err := parseDate(*value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func mapAllToResponse(reqs []ScheduleChangeRequest) []ScheduleRequestResponse {
	out := make([]ScheduleRequestResponse, 0, len(reqs))
	for i := range reqs {
		out = append(out, mapToResponse(&reqs[i]))
	}
	return out
}

func mapToResponse(r *ScheduleChangeRequest) ScheduleRequestResponse {
	resp := ScheduleRequestResponse{
		ID:                    r.ID,
		RequestNo:             r.RequestNo,
		BranchID:              r.BranchID,
		RequesterID:           r.RequesterID,
		RequestType:           string(r.RequestType),
		OriginalShiftDate:     r.OriginalShiftDate.Format("2006-01-02"),
		OriginalShiftType:     r.OriginalShiftType,
		RequestedShiftDate:    formatOptionalDate(r.RequestedShiftDate),
		RequestedShiftType:    r.RequestedShiftType,
		InterchangeWithUserID: r.InterchangeWithUserID,
		InterchangeShiftDate:  formatOptionalDate(r.InterchangeShiftDate),
		InterchangeShiftType:  r.InterchangeShiftType,
		Reason:                r.Reason,
		Status:                string(r.Status),
		PeerRejectionReason:   r.PeerRejectionReason,
		RespondedBy:           r.RespondedBy,
		RejectionReason:       r.RejectionReason,
		CreatedAt:             r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:             r.UpdatedAt.Format(time.RFC3339),
	}
	if r.PeerStatus != nil {
		ps := string(*r.PeerStatus)
		resp.PeerStatus = &ps
	}
	resp.PeerRespondedAt = formatOptionalTime(r.PeerRespondedAt)
	resp.RespondedAt = formatOptionalTime(r.RespondedAt)
	if r.Requester != nil {
		resp.Requester = r.Requester.FullName
	}
	if r.InterchangeWith != nil {
		resp.InterchangeWithName = r.InterchangeWith.FullName
	}
	return resp
}

func formatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.Format("2006-01-02")
	return &v
}

func formatOptionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.Format(time.RFC3339)
	return &v
}
