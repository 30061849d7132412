package schedulerequest_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/domain"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/employee"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/leave"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/messaging/kafka"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/schedulerequest"
	schedulerequesterrors "github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/schedulerequest/errors"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/shiftassignment"
)

type fakeScheduleRepository struct {
	createFn                func(ctx context.Context, req *schedulerequest.ScheduleChangeRequest) error
	findByIDAndBranchFn     func(ctx context.Context, branchID, id string) (*schedulerequest.ScheduleChangeRequest, error)
	findAllByRequesterFn    func(ctx context.Context, branchID, requesterID string) ([]schedulerequest.ScheduleChangeRequest, error)
	findIncomingSwapsFn     func(ctx context.Context, branchID, peerID string) ([]schedulerequest.ScheduleChangeRequest, error)
	findBranchQueueFn       func(ctx context.Context, branchID string, status *schedulerequest.Status) ([]schedulerequest.ScheduleChangeRequest, error)
	applyTransitionFn       func(ctx context.Context, req *schedulerequest.ScheduleChangeRequest, expectedStatus schedulerequest.Status, expectedPeerStatus *schedulerequest.PeerStatus) (int64, error)
	markNotifiedFn          func(ctx context.Context, branchID string, ids []uuid.UUID) error
	countAdminActionableFn  func(ctx context.Context, branchID string) (int64, int64, error)
	hasOpenRequestForDateFn func(ctx context.Context, branchID, requesterID string, shiftDate time.Time) (bool, error)
}

func (f *fakeScheduleRepository) WithTx(tx *sql.Tx) schedulerequest.Repository { return f }

func (f *fakeScheduleRepository) Create(ctx context.Context, req *schedulerequest.ScheduleChangeRequest) error {
	if f.createFn != nil {
		return f.createFn(ctx, req)
	}
	return nil
}

func (f *fakeScheduleRepository) FindByIDAndBranch(ctx context.Context, branchID, id string) (*schedulerequest.ScheduleChangeRequest, error) {
	if f.findByIDAndBranchFn != nil {
		return f.findByIDAndBranchFn(ctx, branchID, id)
	}
	return nil, nil
}

func (f *fakeScheduleRepository) FindAllByRequester(ctx context.Context, branchID, requesterID string) ([]schedulerequest.ScheduleChangeRequest, error) {
	if f.findAllByRequesterFn != nil {
		return f.findAllByRequesterFn(ctx, branchID, requesterID)
	}
	return nil, nil
}

func (f *fakeScheduleRepository) FindIncomingSwaps(ctx context.Context, branchID, peerID string) ([]schedulerequest.ScheduleChangeRequest, error) {
	if f.findIncomingSwapsFn != nil {
		return f.findIncomingSwapsFn(ctx, branchID, peerID)
	}
	return nil, nil
}

func (f *fakeScheduleRepository) FindBranchQueue(ctx context.Context, branchID string, status *schedulerequest.Status) ([]schedulerequest.ScheduleChangeRequest, error) {
	if f.findBranchQueueFn != nil {
		return f.findBranchQueueFn(ctx, branchID, status)
	}
	return nil, nil
}

func (f *fakeScheduleRepository) ApplyTransition(ctx context.Context, req *schedulerequest.ScheduleChangeRequest, expectedStatus schedulerequest.Status, expectedPeerStatus *schedulerequest.PeerStatus) (int64, error) {
	if f.applyTransitionFn != nil {
		return f.applyTransitionFn(ctx, req, expectedStatus, expectedPeerStatus)
	}
	return 1, nil
}

func (f *fakeScheduleRepository) MarkNotified(ctx context.Context, branchID string, ids []uuid.UUID) error {
	if f.markNotifiedFn != nil {
		return f.markNotifiedFn(ctx, branchID, ids)
	}
	return nil
}

func (f *fakeScheduleRepository) CountAdminActionable(ctx context.Context, branchID string) (int64, int64, error) {
	if f.countAdminActionableFn != nil {
		return f.countAdminActionableFn(ctx, branchID)
	}
	return 0, 0, nil
}

func (f *fakeScheduleRepository) HasOpenRequestForDate(ctx context.Context, branchID, requesterID string, shiftDate time.Time) (bool, error) {
	if f.hasOpenRequestForDateFn != nil {
		return f.hasOpenRequestForDateFn(ctx, branchID, requesterID, shiftDate)
	}
	return false, nil
}

type fakeDirectory struct {
	findByIDAndBranchFn func(ctx context.Context, branchID, id string) (*employee.Employee, error)
}

func (f *fakeDirectory) FindByIDAndBranch(ctx context.Context, branchID, id string) (*employee.Employee, error) {
	if f.findByIDAndBranchFn != nil {
		return f.findByIDAndBranchFn(ctx, branchID, id)
	}
	return &employee.Employee{
		ID:       uuid.MustParse(id),
		BranchID: uuid.MustParse(branchID),
		FullName: "Staff Member",
		RoleAs:   domain.RoleNurse,
	}, nil
}

type fakeLeaveRepository struct {
	createFn func(ctx context.Context, l *leave.Leave) error
}

func (f *fakeLeaveRepository) WithTx(tx *sql.Tx) leave.Repository { return f }

func (f *fakeLeaveRepository) Create(ctx context.Context, l *leave.Leave) error {
	if f.createFn != nil {
		return f.createFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) FindAllByBranch(ctx context.Context, branchID string) ([]leave.Leave, error) {
	return nil, nil
}

func (f *fakeLeaveRepository) FindByIDAndBranch(ctx context.Context, branchID, id string) (*leave.Leave, error) {
	return nil, nil
}

func (f *fakeLeaveRepository) Update(ctx context.Context, l *leave.Leave) error { return nil }

func (f *fakeLeaveRepository) Delete(ctx context.Context, branchID, id string) error { return nil }

func (f *fakeLeaveRepository) EmployeeBelongsToBranch(ctx context.Context, branchID, employeeID string) (bool, error) {
	return true, nil
}

func (f *fakeLeaveRepository) HasOverlappingPeriod(ctx context.Context, branchID, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
	return false, nil
}

type fakeShiftRepository struct {
	cancelScheduledFn func(ctx context.Context, branchID, employeeID string, date time.Time) (int64, error)
}

func (f *fakeShiftRepository) WithTx(tx *sql.Tx) shiftassignment.Repository { return f }

func (f *fakeShiftRepository) Create(ctx context.Context, a *shiftassignment.ShiftAssignment) error {
	return nil
}

func (f *fakeShiftRepository) FindAllByBranch(ctx context.Context, branchID string, from, to time.Time) ([]shiftassignment.ShiftAssignment, error) {
	return nil, nil
}

func (f *fakeShiftRepository) FindAllByEmployee(ctx context.Context, branchID, employeeID string) ([]shiftassignment.ShiftAssignment, error) {
	return nil, nil
}

func (f *fakeShiftRepository) HasShiftOnDate(ctx context.Context, branchID, employeeID string, date time.Time) (bool, error) {
	return false, nil
}

func (f *fakeShiftRepository) EmployeeBelongsToBranch(ctx context.Context, branchID, employeeID string) (bool, error) {
	return true, nil
}

func (f *fakeShiftRepository) CancelScheduled(ctx context.Context, branchID, employeeID string, date time.Time) (int64, error) {
	if f.cancelScheduledFn != nil {
		return f.cancelScheduledFn(ctx, branchID, employeeID, date)
	}
	return 1, nil
}

type fakeOutboxRepository struct {
	createFn func(ctx context.Context, event kafka.OutboxEvent) error
	events   []kafka.OutboxEvent
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.events = append(f.events, event)
	if f.createFn != nil {
		return f.createFn(ctx, event)
	}
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type fakeCounterRepository struct {
	next map[string]int64
}

func (f *fakeCounterRepository) GetNextValue(ctx context.Context, branchID string, counterType string) (int64, error) {
	if f.next == nil {
		f.next = make(map[string]int64)
	}
	key := branchID + "/" + counterType
	f.next[key]++
	return f.next[key], nil
}

type scheduleServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service schedulerequest.Service
	repo    *fakeScheduleRepository
	dir     *fakeDirectory
	leaves  *fakeLeaveRepository
	shifts  *fakeShiftRepository
	outbox  *fakeOutboxRepository
}

func setupScheduleServiceTest(t *testing.T) *scheduleServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeScheduleRepository{}
	dir := &fakeDirectory{}
	leaves := &fakeLeaveRepository{}
	shifts := &fakeShiftRepository{}
	outbox := &fakeOutboxRepository{}
	counters := &fakeCounterRepository{}

	svc := schedulerequest.NewService(db, repo, dir, leaves, shifts, outbox, counters, nil)

	return &scheduleServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
		dir:     dir,
		leaves:  leaves,
		shifts:  shifts,
		outbox:  outbox,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestScheduleRequestService_Submit(t *testing.T) {
	ctx := context.Background()
	branchID := uuid.New().String()
	requesterID := uuid.New().String()

	t.Run("interchange success", func(t *testing.T) {
		deps := setupScheduleServiceTest(t)
		defer deps.db.Close()

		peerID := uuid.New().String()
		expectTx(t, deps.sqlMock, true)

		deps.repo.createFn = func(ctx context.Context, r *schedulerequest.ScheduleChangeRequest) error {
			assert.Equal(t, schedulerequest.TypeInterchange, r.RequestType)
			assert.Equal(t, schedulerequest.StatusPending, r.Status)
			assert.Equal(t, schedulerequest.PeerPending, *r.PeerStatus)
			assert.Equal(t, uuid.MustParse(peerID), *r.InterchangeWithUserID)
			assert.Equal(t, "SCR-00001", r.RequestNo)
			return nil
		}

		resp, err := deps.service.Submit(ctx, branchID, requesterID, schedulerequest.SubmitScheduleRequestRequest{
			RequestType:           "INTERCHANGE",
			OriginalShiftDate:     "2026-09-10",
			InterchangeWithUserID: &peerID,
			Reason:                "attending a wedding",
		})

		assert.NoError(t, err)
		assert.Equal(t, "PENDING", resp.Status)
		assert.Equal(t, "PENDING", *resp.PeerStatus)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative peer is requester", func(t *testing.T) {
		deps := setupScheduleServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Submit(ctx, branchID, requesterID, schedulerequest.SubmitScheduleRequestRequest{
			RequestType:           "INTERCHANGE",
			OriginalShiftDate:     "2026-09-10",
			InterchangeWithUserID: &requesterID,
			Reason:                "swap with myself",
		})

		assert.ErrorIs(t, err, schedulerequesterrors.ErrInvalidPeer)
	})

	t.Run("negative peer is patient account", func(t *testing.T) {
		deps := setupScheduleServiceTest(t)
		defer deps.db.Close()

		peerID := uuid.New().String()
		deps.dir.findByIDAndBranchFn = func(ctx context.Context, bid, id string) (*employee.Employee, error) {
			role := domain.RoleNurse
			if id == peerID {
				role = domain.RolePatient
			}
			return &employee.Employee{
				ID:       uuid.MustParse(id),
				BranchID: uuid.MustParse(bid),
				RoleAs:   role,
			}, nil
		}

		_, err := deps.service.Submit(ctx, branchID, requesterID, schedulerequest.SubmitScheduleRequestRequest{
			RequestType:           "INTERCHANGE",
			OriginalShiftDate:     "2026-09-10",
			InterchangeWithUserID: &peerID,
			Reason:                "swap",
		})

		assert.ErrorIs(t, err, schedulerequesterrors.ErrInvalidPeer)
	})

	t.Run("negative open request already exists", func(t *testing.T) {
		deps := setupScheduleServiceTest(t)
		defer deps.db.Close()

		deps.repo.hasOpenRequestForDateFn = func(ctx context.Context, bid, rid string, shiftDate time.Time) (bool, error) {
			return true, nil
		}

		_, err := deps.service.Submit(ctx, branchID, requesterID, schedulerequest.SubmitScheduleRequestRequest{
			RequestType:       "CANCELLATION",
			OriginalShiftDate: "2026-09-10",
			Reason:            "sick",
		})

		assert.ErrorIs(t, err, schedulerequesterrors.ErrDuplicateRequest)
	})

	t.Run("request numbers restart per branch", func(t *testing.T) {
		deps := setupScheduleServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		expectTx(t, deps.sqlMock, true)

		var created []*schedulerequest.ScheduleChangeRequest
		deps.repo.createFn = func(ctx context.Context, r *schedulerequest.ScheduleChangeRequest) error {
			created = append(created, r)
			return nil
		}

		submit := schedulerequest.SubmitScheduleRequestRequest{
			RequestType:       "CANCELLATION",
			OriginalShiftDate: "2026-09-10",
			Reason:            "sick",
		}
		otherBranch := uuid.New().String()

		first, err := deps.service.Submit(ctx, branchID, requesterID, submit)
		assert.NoError(t, err)
		second, err := deps.service.Submit(ctx, otherBranch, uuid.New().String(), submit)
		assert.NoError(t, err)

		// Each branch runs its own counter, so both first submissions
		// carry the same number under different branch ids.
		assert.Equal(t, "SCR-00001", first.RequestNo)
		assert.Equal(t, "SCR-00001", second.RequestNo)
		assert.Len(t, created, 2)
		assert.NotEqual(t, created[0].BranchID, created[1].BranchID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative concurrent duplicate caught by unique index", func(t *testing.T) {
		deps := setupScheduleServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.createFn = func(ctx context.Context, r *schedulerequest.ScheduleChangeRequest) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "uq_schedule_requests_open_slot"}
		}

		_, err := deps.service.Submit(ctx, branchID, requesterID, schedulerequest.SubmitScheduleRequestRequest{
			RequestType:       "CANCELLATION",
			OriginalShiftDate: "2026-09-10",
			Reason:            "sick",
		})

		assert.ErrorIs(t, err, schedulerequesterrors.ErrDuplicateRequest)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative change without target shift", func(t *testing.T) {
		deps := setupScheduleServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Submit(ctx, branchID, requesterID, schedulerequest.SubmitScheduleRequestRequest{
			RequestType:       "CHANGE",
			OriginalShiftDate: "2026-09-10",
			Reason:            "need a different slot",
		})

		assert.Error(t, err)
	})
}

func TestScheduleRequestService_RespondAsPeer(t *testing.T) {
	ctx := context.Background()
	branchID := uuid.New().String()
	peerID := uuid.New()

	newIncomingSwap := func() *schedulerequest.ScheduleChangeRequest {
		ps := schedulerequest.PeerPending
		pid := peerID
		return &schedulerequest.ScheduleChangeRequest{
			ID:                    uuid.New(),
			RequestNo:             "SCR-00007",
			BranchID:              uuid.MustParse(branchID),
			RequesterID:           uuid.New(),
			RequestType:           schedulerequest.TypeInterchange,
			OriginalShiftDate:     time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
			Reason:                "swap",
			Status:                schedulerequest.StatusPending,
			InterchangeWithUserID: &pid,
			PeerStatus:            &ps,
		}
	}

	t.Run("approve keeps request pending for admin", func(t *testing.T) {
		deps := setupScheduleServiceTest(t)
		defer deps.db.Close()

		r := newIncomingSwap()
		deps.repo.findByIDAndBranchFn = func(ctx context.Context, bid, id string) (*schedulerequest.ScheduleChangeRequest, error) {
			return r, nil
		}
		deps.repo.applyTransitionFn = func(ctx context.Context, req *schedulerequest.ScheduleChangeRequest, expectedStatus schedulerequest.Status, expectedPeer *schedulerequest.PeerStatus) (int64, error) {
			assert.Equal(t, schedulerequest.StatusPending, expectedStatus)
			assert.Equal(t, schedulerequest.PeerPending, *expectedPeer)
			assert.Equal(t, schedulerequest.PeerApproved, *req.PeerStatus)
			return 1, nil
		}
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.RespondAsPeer(ctx, branchID, peerID.String(), r.ID.String(), schedulerequest.PeerResponseRequest{Action: "APPROVE"})

		assert.NoError(t, err)
		assert.Equal(t, "PENDING", resp.Status)
		assert.Equal(t, "APPROVED", *resp.PeerStatus)
		assert.Empty(t, deps.outbox.events)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("reject settles the request and emits an event", func(t *testing.T) {
		deps := setupScheduleServiceTest(t)
		defer deps.db.Close()

		r := newIncomingSwap()
		deps.repo.findByIDAndBranchFn = func(ctx context.Context, bid, id string) (*schedulerequest.ScheduleChangeRequest, error) {
			return r, nil
		}
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.RespondAsPeer(ctx, branchID, peerID.String(), r.ID.String(), schedulerequest.PeerResponseRequest{
			Action:          "REJECT",
			RejectionReason: "on leave that week",
		})

		assert.NoError(t, err)
		assert.Equal(t, "REJECTED", resp.Status)
		assert.Equal(t, "REJECTED", *resp.PeerStatus)
		assert.Len(t, deps.outbox.events, 1)
		assert.Equal(t, "schedule_request.rejected", deps.outbox.events[0].EventType)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative concurrent transition loses", func(t *testing.T) {
		deps := setupScheduleServiceTest(t)
		defer deps.db.Close()

		r := newIncomingSwap()
		deps.repo.findByIDAndBranchFn = func(ctx context.Context, bid, id string) (*schedulerequest.ScheduleChangeRequest, error) {
			return r, nil
		}
		deps.repo.applyTransitionFn = func(ctx context.Context, req *schedulerequest.ScheduleChangeRequest, expectedStatus schedulerequest.Status, expectedPeer *schedulerequest.PeerStatus) (int64, error) {
			return 0, nil
		}
		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.RespondAsPeer(ctx, branchID, peerID.String(), r.ID.String(), schedulerequest.PeerResponseRequest{Action: "APPROVE"})

		assert.ErrorIs(t, err, schedulerequesterrors.ErrAlreadyProcessed)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative caller is not the named peer", func(t *testing.T) {
		deps := setupScheduleServiceTest(t)
		defer deps.db.Close()

		r := newIncomingSwap()
		deps.repo.findByIDAndBranchFn = func(ctx context.Context, bid, id string) (*schedulerequest.ScheduleChangeRequest, error) {
			return r, nil
		}

		_, err := deps.service.RespondAsPeer(ctx, branchID, uuid.New().String(), r.ID.String(), schedulerequest.PeerResponseRequest{Action: "APPROVE"})

		assert.ErrorIs(t, err, schedulerequesterrors.ErrRequestNotFound)
	})
}

func TestScheduleRequestService_RespondAsAdmin(t *testing.T) {
	ctx := context.Background()
	branchID := uuid.New().String()
	adminID := uuid.New().String()

	newPending := func(reqType schedulerequest.RequestType) *schedulerequest.ScheduleChangeRequest {
		r := &schedulerequest.ScheduleChangeRequest{
			ID:                uuid.New(),
			RequestNo:         "SCR-00011",
			BranchID:          uuid.MustParse(branchID),
			RequesterID:       uuid.New(),
			RequestType:       reqType,
			OriginalShiftDate: time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
			Reason:            "personal",
			Status:            schedulerequest.StatusPending,
		}
		if reqType == schedulerequest.TypeInterchange {
			peerID := uuid.New()
			ps := schedulerequest.PeerApproved
			r.InterchangeWithUserID = &peerID
			r.PeerStatus = &ps
		}
		return r
	}

	t.Run("approve time off creates leave in same tx", func(t *testing.T) {
		deps := setupScheduleServiceTest(t)
		defer deps.db.Close()

		r := newPending(schedulerequest.TypeTimeOff)
		endDate := "2026-09-17"
		d, _ := time.Parse("2006-01-02", endDate)
		r.RequestedShiftDate = &d

		deps.repo.findByIDAndBranchFn = func(ctx context.Context, bid, id string) (*schedulerequest.ScheduleChangeRequest, error) {
			return r, nil
		}

		var createdLeave *leave.Leave
		deps.leaves.createFn = func(ctx context.Context, l *leave.Leave) error {
			createdLeave = l
			return nil
		}
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.RespondAsAdmin(ctx, branchID, adminID, r.ID.String(), schedulerequest.AdminResponseRequest{Action: "APPROVE"})

		assert.NoError(t, err)
		assert.Equal(t, "APPROVED", resp.Status)
		assert.NotNil(t, createdLeave)
		assert.Equal(t, r.RequesterID, createdLeave.EmployeeID)
		assert.Equal(t, r.ID, *createdLeave.SourceRequestID)
		assert.Equal(t, leave.StatusApproved, createdLeave.Status)
		assert.Equal(t, 3, createdLeave.TotalDays)
		assert.Len(t, deps.outbox.events, 1)
		assert.Equal(t, "schedule_request.approved", deps.outbox.events[0].EventType)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("approve cancellation cancels the shift", func(t *testing.T) {
		deps := setupScheduleServiceTest(t)
		defer deps.db.Close()

		r := newPending(schedulerequest.TypeCancellation)
		deps.repo.findByIDAndBranchFn = func(ctx context.Context, bid, id string) (*schedulerequest.ScheduleChangeRequest, error) {
			return r, nil
		}

		var cancelledDate time.Time
		deps.shifts.cancelScheduledFn = func(ctx context.Context, bid, eid string, date time.Time) (int64, error) {
			assert.Equal(t, branchID, bid)
			assert.Equal(t, r.RequesterID.String(), eid)
			cancelledDate = date
			return 1, nil
		}
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.RespondAsAdmin(ctx, branchID, adminID, r.ID.String(), schedulerequest.AdminResponseRequest{Action: "APPROVE"})

		assert.NoError(t, err)
		assert.Equal(t, "APPROVED", resp.Status)
		assert.Equal(t, r.OriginalShiftDate, cancelledDate)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("approve cancellation with nothing scheduled still succeeds", func(t *testing.T) {
		deps := setupScheduleServiceTest(t)
		defer deps.db.Close()

		r := newPending(schedulerequest.TypeCancellation)
		deps.repo.findByIDAndBranchFn = func(ctx context.Context, bid, id string) (*schedulerequest.ScheduleChangeRequest, error) {
			return r, nil
		}
		deps.shifts.cancelScheduledFn = func(ctx context.Context, bid, eid string, date time.Time) (int64, error) {
			return 0, nil
		}
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.RespondAsAdmin(ctx, branchID, adminID, r.ID.String(), schedulerequest.AdminResponseRequest{Action: "APPROVE"})

		assert.NoError(t, err)
		assert.Equal(t, "APPROVED", resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative interchange before peer approval", func(t *testing.T) {
		deps := setupScheduleServiceTest(t)
		defer deps.db.Close()

		r := newPending(schedulerequest.TypeInterchange)
		ps := schedulerequest.PeerPending
		r.PeerStatus = &ps
		deps.repo.findByIDAndBranchFn = func(ctx context.Context, bid, id string) (*schedulerequest.ScheduleChangeRequest, error) {
			return r, nil
		}

		_, err := deps.service.RespondAsAdmin(ctx, branchID, adminID, r.ID.String(), schedulerequest.AdminResponseRequest{Action: "APPROVE"})

		assert.ErrorIs(t, err, schedulerequesterrors.ErrPeerApprovalPending)
		assert.Empty(t, deps.outbox.events)
	})

	t.Run("negative reject without reason", func(t *testing.T) {
		deps := setupScheduleServiceTest(t)
		defer deps.db.Close()

		r := newPending(schedulerequest.TypeChange)
		deps.repo.findByIDAndBranchFn = func(ctx context.Context, bid, id string) (*schedulerequest.ScheduleChangeRequest, error) {
			return r, nil
		}

		_, err := deps.service.RespondAsAdmin(ctx, branchID, adminID, r.ID.String(), schedulerequest.AdminResponseRequest{Action: "REJECT"})

		assert.ErrorIs(t, err, schedulerequesterrors.ErrRejectionReasonRequired)
	})

	t.Run("negative concurrent decision loses", func(t *testing.T) {
		deps := setupScheduleServiceTest(t)
		defer deps.db.Close()

		r := newPending(schedulerequest.TypeChange)
		deps.repo.findByIDAndBranchFn = func(ctx context.Context, bid, id string) (*schedulerequest.ScheduleChangeRequest, error) {
			return r, nil
		}
		deps.repo.applyTransitionFn = func(ctx context.Context, req *schedulerequest.ScheduleChangeRequest, expectedStatus schedulerequest.Status, expectedPeer *schedulerequest.PeerStatus) (int64, error) {
			return 0, nil
		}
		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.RespondAsAdmin(ctx, branchID, adminID, r.ID.String(), schedulerequest.AdminResponseRequest{Action: "APPROVE"})

		assert.ErrorIs(t, err, schedulerequesterrors.ErrAlreadyProcessed)
		assert.Empty(t, deps.outbox.events)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestScheduleRequestService_Withdraw(t *testing.T) {
	ctx := context.Background()
	branchID := uuid.New().String()
	requesterID := uuid.New()

	t.Run("success", func(t *testing.T) {
		deps := setupScheduleServiceTest(t)
		defer deps.db.Close()

		r := &schedulerequest.ScheduleChangeRequest{
			ID:                uuid.New(),
			RequestNo:         "SCR-00021",
			BranchID:          uuid.MustParse(branchID),
			RequesterID:       requesterID,
			RequestType:       schedulerequest.TypeChange,
			OriginalShiftDate: time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC),
			Reason:            "no longer needed",
			Status:            schedulerequest.StatusPending,
		}
		deps.repo.findByIDAndBranchFn = func(ctx context.Context, bid, id string) (*schedulerequest.ScheduleChangeRequest, error) {
			return r, nil
		}
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Withdraw(ctx, branchID, requesterID.String(), r.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, "WITHDRAWN", resp.Status)
		assert.Len(t, deps.outbox.events, 1)
		assert.Equal(t, "schedule_request.withdrawn", deps.outbox.events[0].EventType)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestScheduleRequestService_GetBranchQueue(t *testing.T) {
	ctx := context.Background()
	branchID := uuid.New().String()

	t.Run("listing marks actionable requests as seen", func(t *testing.T) {
		deps := setupScheduleServiceTest(t)
		defer deps.db.Close()

		ps := schedulerequest.PeerPending
		peerID := uuid.New()
		requests := []schedulerequest.ScheduleChangeRequest{
			{
				ID:          uuid.New(),
				BranchID:    uuid.MustParse(branchID),
				RequestType: schedulerequest.TypeChange,
				Status:      schedulerequest.StatusPending,
			},
			{
				// waiting on peer, not actionable yet
				ID:                    uuid.New(),
				BranchID:              uuid.MustParse(branchID),
				RequestType:           schedulerequest.TypeInterchange,
				Status:                schedulerequest.StatusPending,
				InterchangeWithUserID: &peerID,
				PeerStatus:            &ps,
			},
			{
				ID:              uuid.New(),
				BranchID:        uuid.MustParse(branchID),
				RequestType:     schedulerequest.TypeTimeOff,
				Status:          schedulerequest.StatusPending,
				NotifiedToAdmin: true,
			},
		}
		deps.repo.findBranchQueueFn = func(ctx context.Context, bid string, status *schedulerequest.Status) ([]schedulerequest.ScheduleChangeRequest, error) {
			return requests, nil
		}

		var marked []uuid.UUID
		deps.repo.markNotifiedFn = func(ctx context.Context, bid string, ids []uuid.UUID) error {
			marked = ids
			return nil
		}

		resp, err := deps.service.GetBranchQueue(ctx, branchID, nil)

		assert.NoError(t, err)
		assert.Len(t, resp, 3)
		assert.Equal(t, []uuid.UUID{requests[0].ID}, marked)
	})
}

func TestScheduleRequestService_GetPendingCounts(t *testing.T) {
	ctx := context.Background()
	branchID := uuid.New().String()

	t.Run("counts come from repository without redis", func(t *testing.T) {
		deps := setupScheduleServiceTest(t)
		defer deps.db.Close()

		deps.repo.countAdminActionableFn = func(ctx context.Context, bid string) (int64, int64, error) {
			assert.Equal(t, branchID, bid)
			return 4, 2, nil
		}

		resp, err := deps.service.GetPendingCounts(ctx, branchID)

		assert.NoError(t, err)
		assert.Equal(t, int64(4), resp.PendingCount)
		assert.Equal(t, int64(2), resp.NewCount)
	})

	t.Run("cache hit skips the repository", func(t *testing.T) {
		db, _, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		rdb, redisMock := redismock.NewClientMock()
		repo := &fakeScheduleRepository{}
		repo.countAdminActionableFn = func(ctx context.Context, bid string) (int64, int64, error) {
			t.Fatal("repository must not be hit on a cache hit")
			return 0, 0, nil
		}
		svc := schedulerequest.NewService(db, repo, &fakeDirectory{}, &fakeLeaveRepository{}, &fakeShiftRepository{}, &fakeOutboxRepository{}, &fakeCounterRepository{}, rdb)

		cached, _ := json.Marshal(schedulerequest.PendingCountResponse{PendingCount: 7, NewCount: 3})
		redisMock.ExpectGet("schedreq:pending:" + branchID).SetVal(string(cached))

		resp, err := svc.GetPendingCounts(ctx, branchID)

		assert.NoError(t, err)
		assert.Equal(t, int64(7), resp.PendingCount)
		assert.Equal(t, int64(3), resp.NewCount)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("cache miss stores fresh counts", func(t *testing.T) {
		db, _, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		rdb, redisMock := redismock.NewClientMock()
		repo := &fakeScheduleRepository{}
		repo.countAdminActionableFn = func(ctx context.Context, bid string) (int64, int64, error) {
			return 5, 1, nil
		}
		svc := schedulerequest.NewService(db, repo, &fakeDirectory{}, &fakeLeaveRepository{}, &fakeShiftRepository{}, &fakeOutboxRepository{}, &fakeCounterRepository{}, rdb)

		key := "schedreq:pending:" + branchID
		fresh, _ := json.Marshal(schedulerequest.PendingCountResponse{PendingCount: 5, NewCount: 1})
		redisMock.ExpectGet(key).RedisNil()
		redisMock.ExpectSet(key, fresh, 15*time.Second).SetVal("OK")

		resp, err := svc.GetPendingCounts(ctx, branchID)

		assert.NoError(t, err)
		assert.Equal(t, int64(5), resp.PendingCount)
		assert.Equal(t, int64(1), resp.NewCount)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})
}
