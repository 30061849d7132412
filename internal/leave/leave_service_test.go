package leave_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/leave"
	leaveerrors "github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/leave/errors"
)

type fakeLeaveRepository struct {
	withTxFn                func(tx *sql.Tx) leave.Repository
	createFn                func(ctx context.Context, l *leave.Leave) error
	findAllByBranchFn       func(ctx context.Context, branchID string) ([]leave.Leave, error)
	findByIDAndBranchFn     func(ctx context.Context, branchID, id string) (*leave.Leave, error)
	updateFn                func(ctx context.Context, l *leave.Leave) error
	deleteFn                func(ctx context.Context, branchID, id string) error
	employeeBelongsToBranch func(ctx context.Context, branchID, employeeID string) (bool, error)
	hasOverlappingPeriodFn  func(ctx context.Context, branchID, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error)
}

func (f *fakeLeaveRepository) WithTx(tx *sql.Tx) leave.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeLeaveRepository) Create(ctx context.Context, l *leave.Leave) error {
	if f.createFn != nil {
		return f.createFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) FindAllByBranch(ctx context.Context, branchID string) ([]leave.Leave, error) {
	if f.findAllByBranchFn != nil {
		return f.findAllByBranchFn(ctx, branchID)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindByIDAndBranch(ctx context.Context, branchID, id string) (*leave.Leave, error) {
	if f.findByIDAndBranchFn != nil {
		return f.findByIDAndBranchFn(ctx, branchID, id)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) Update(ctx context.Context, l *leave.Leave) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) Delete(ctx context.Context, branchID, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, branchID, id)
	}
	return nil
}

func (f *fakeLeaveRepository) EmployeeBelongsToBranch(ctx context.Context, branchID, employeeID string) (bool, error) {
	if f.employeeBelongsToBranch != nil {
		return f.employeeBelongsToBranch(ctx, branchID, employeeID)
	}
	return true, nil
}

func (f *fakeLeaveRepository) HasOverlappingPeriod(ctx context.Context, branchID, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
	if f.hasOverlappingPeriodFn != nil {
		return f.hasOverlappingPeriodFn(ctx, branchID, employeeID, startDate, endDate, excludeID)
	}
	return false, nil
}

type leaveServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service leave.Service
	repo    *fakeLeaveRepository
}

func setupLeaveServiceTest(t *testing.T) *leaveServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeLeaveRepository{}
	svc := leave.NewService(db, repo)

	return &leaveServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
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

func TestLeaveService_Create(t *testing.T) {
	ctx := context.Background()
	branchID := uuid.New().String()
	actorID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		req := leave.CreateLeaveRequest{
			EmployeeID: employeeID,
			LeaveType:  "ANNUAL",
			StartDate:  "2026-10-01",
			EndDate:    "2026-10-03",
			Reason:     "Family event",
		}

		deps.repo.employeeBelongsToBranch = func(ctx context.Context, bid, eid string) (bool, error) {
			assert.Equal(t, branchID, bid)
			assert.Equal(t, employeeID, eid)
			return true, nil
		}
		deps.repo.createFn = func(ctx context.Context, l *leave.Leave) error {
			assert.Equal(t, uuid.MustParse(branchID), l.BranchID)
			assert.Equal(t, uuid.MustParse(employeeID), l.EmployeeID)
			assert.Equal(t, uuid.MustParse(actorID), l.CreatedBy)
			assert.Equal(t, 3, l.TotalDays)
			assert.Equal(t, leave.StatusPending, l.Status)
			assert.Nil(t, l.SourceRequestID)
			return nil
		}

		resp, err := deps.service.Create(ctx, branchID, actorID, req)

		assert.NoError(t, err)
		assert.Equal(t, branchID, resp.BranchID)
		assert.Equal(t, 3, resp.TotalDays)
		assert.Equal(t, leave.StatusPending, resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative overlapping period", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.hasOverlappingPeriodFn = func(ctx context.Context, bid, eid string, startDate, endDate time.Time, excludeID *string) (bool, error) {
			assert.Nil(t, excludeID)
			return true, nil
		}

		_, err := deps.service.Create(ctx, branchID, actorID, leave.CreateLeaveRequest{
			EmployeeID: employeeID,
			LeaveType:  "ANNUAL",
			StartDate:  "2026-10-01",
			EndDate:    "2026-10-02",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveOverlap)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative employee outside branch", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.employeeBelongsToBranch = func(ctx context.Context, bid, eid string) (bool, error) {
			return false, nil
		}

		_, err := deps.service.Create(ctx, branchID, actorID, leave.CreateLeaveRequest{
			EmployeeID: employeeID,
			LeaveType:  "SICK",
			StartDate:  "2026-10-01",
			EndDate:    "2026-10-01",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrEmployeeNotInBranch)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative inverted date range", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Create(ctx, branchID, actorID, leave.CreateLeaveRequest{
			EmployeeID: employeeID,
			LeaveType:  "ANNUAL",
			StartDate:  "2026-10-05",
			EndDate:    "2026-10-01",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_StatusTransitions(t *testing.T) {
	ctx := context.Background()
	branchID := uuid.New().String()
	actorID := uuid.New().String()

	newLeave := func(status string) *leave.Leave {
		return &leave.Leave{
			ID:         uuid.New(),
			BranchID:   uuid.MustParse(branchID),
			EmployeeID: uuid.New(),
			LeaveType:  "ANNUAL",
			StartDate:  time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
			EndDate:    time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC),
			TotalDays:  2,
			Status:     status,
			CreatedBy:  uuid.MustParse(actorID),
		}
	}

	t.Run("approve submitted leave", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		l := newLeave(leave.StatusSubmitted)
		deps.repo.findByIDAndBranchFn = func(ctx context.Context, bid, id string) (*leave.Leave, error) {
			return l, nil
		}
		deps.repo.updateFn = func(ctx context.Context, updated *leave.Leave) error {
			assert.Equal(t, leave.StatusApproved, updated.Status)
			assert.Equal(t, uuid.MustParse(actorID), *updated.ApprovedBy)
			assert.NotNil(t, updated.ApprovedAt)
			return nil
		}

		resp, err := deps.service.Approve(ctx, branchID, actorID, l.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative approve pending leave directly", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		l := newLeave(leave.StatusPending)
		deps.repo.findByIDAndBranchFn = func(ctx context.Context, bid, id string) (*leave.Leave, error) {
			return l, nil
		}

		_, err := deps.service.Approve(ctx, branchID, actorID, l.ID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusTransition)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative reject without reason", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		l := newLeave(leave.StatusSubmitted)
		deps.repo.findByIDAndBranchFn = func(ctx context.Context, bid, id string) (*leave.Leave, error) {
			return l, nil
		}

		_, err := deps.service.Reject(ctx, branchID, actorID, l.ID.String(), "")

		assert.ErrorIs(t, err, leaveerrors.ErrRejectionReasonRequired)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}
