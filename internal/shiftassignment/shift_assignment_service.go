package shiftassignment

import (
	"context"
	"database/sql"
	"time"

	shifterrors "github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/shiftassignment/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	Assign(ctx context.Context, branchID, actorID string, req AssignShiftRequest) (ShiftAssignmentResponse, error)
	GetBranchRoster(ctx context.Context, branchID string, from, to string) ([]ShiftAssignmentResponse, error)
	GetMySchedule(ctx context.Context, branchID, employeeID string) ([]ShiftAssignmentResponse, error)
	Cancel(ctx context.Context, branchID, employeeID, shiftDate string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("shiftassignment.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("shiftassignment.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Assign(ctx context.Context, branchID, actorID string, req AssignShiftRequest) (ShiftAssignmentResponse, error) {
	s.logger.Debug("assign shift requested",
		zap.String("branch_id", branchID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("shift_date", req.ShiftDate),
		zap.String("shift_type", req.ShiftType),
	)

	branchUUID, err := uuid.Parse(branchID)
	if err != nil {
		return ShiftAssignmentResponse{}, shifterrors.ErrInvalidBranchID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return ShiftAssignmentResponse{}, shifterrors.ErrInvalidActorID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return ShiftAssignmentResponse{}, shifterrors.ErrInvalidEmployeeID
	}
	shiftDate, err := parseDate(req.ShiftDate)
	if err != nil {
		return ShiftAssignmentResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("assign shift begin tx failed", zap.Error(err))
		return ShiftAssignmentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	belongs, err := qtx.EmployeeBelongsToBranch(ctx, branchID, req.EmployeeID)
	if err != nil {
		return ShiftAssignmentResponse{}, err
	}
	if !belongs {
		return ShiftAssignmentResponse{}, shifterrors.ErrEmployeeNotInBranch
	}

	taken, err := qtx.HasShiftOnDate(ctx, branchID, req.EmployeeID, shiftDate)
	if err != nil {
		return ShiftAssignmentResponse{}, err
	}
	if taken {
		return ShiftAssignmentResponse{}, shifterrors.ErrShiftAlreadyAssigned
	}

	a := &ShiftAssignment{
		ID:         uuid.New(),
		BranchID:   branchUUID,
		EmployeeID: employeeUUID,
		ShiftDate:  shiftDate,
		ShiftType:  req.ShiftType,
		Status:     StatusScheduled,
		AssignedBy: actorUUID,
		Notes:      req.Notes,
	}
	if err := qtx.Create(ctx, a); err != nil {
		s.logger.Error("assign shift persist failed", zap.Error(err))
		return ShiftAssignmentResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("assign shift commit failed", zap.Error(err))
		return ShiftAssignmentResponse{}, err
	}

	s.logger.Info("assign shift success",
		zap.String("assignment_id", a.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.String("shift_date", req.ShiftDate),
	)
	return mapToResponse(*a), nil
}

func (s *service) GetBranchRoster(ctx context.Context, branchID string, from, to string) ([]ShiftAssignmentResponse, error) {
	fromDate, err := parseDate(from)
	if err != nil {
		return nil, err
	}
	toDate, err := parseDate(to)
	if err != nil {
		return nil, err
	}

	assignments, err := s.repo.FindAllByBranch(ctx, branchID, fromDate, toDate)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(assignments), nil
}

func (s *service) GetMySchedule(ctx context.Context, branchID, employeeID string) ([]ShiftAssignmentResponse, error) {
	assignments, err := s.repo.FindAllByEmployee(ctx, branchID, employeeID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(assignments), nil
}

func (s *service) Cancel(ctx context.Context, branchID, employeeID, shiftDate string) error {
	date, err := parseDate(shiftDate)
	if err != nil {
		return err
	}

	rows, err := s.repo.CancelScheduled(ctx, branchID, employeeID, date)
	if err != nil {
		return err
	}
	if rows == 0 {
		return shifterrors.ErrAssignmentNotFound
	}

	s.logger.Info("shift assignment cancelled",
		zap.String("branch_id", branchID),
		zap.String("employee_id", employeeID),
		zap.String("shift_date", shiftDate),
	)
	return nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, shifterrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(a ShiftAssignment) ShiftAssignmentResponse {
	resp := ShiftAssignmentResponse{
		ID:         a.ID.String(),
		BranchID:   a.BranchID.String(),
		EmployeeID: a.EmployeeID.String(),
		ShiftDate:  a.ShiftDate.Format("2006-01-02"),
		ShiftType:  a.ShiftType,
		Status:     a.Status,
		AssignedBy: a.AssignedBy.String(),
		Notes:      a.Notes,
	}
	if a.Employee != nil {
		resp.EmployeeName = a.Employee.FullName
	}
	return resp
}

func mapToListResponse(assignments []ShiftAssignment) []ShiftAssignmentResponse {
	resp := make([]ShiftAssignmentResponse, len(assignments))
	for i, a := range assignments {
		resp[i] = mapToResponse(a)
	}
	return resp
}
