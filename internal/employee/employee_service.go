package employee

import (
	"context"
	"errors"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/shared/apperror"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// The directory is read-only on this side; staff profiles are managed by
// the central admin service.
type Service interface {
	Lookup(ctx context.Context, id string) (*Employee, error)
	GetColleagues(ctx context.Context, branchID string) ([]EmployeeResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Lookup(ctx context.Context, id string) (*Employee, error) {
	emp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return emp, nil
}

func (s *service) GetColleagues(ctx context.Context, branchID string) ([]EmployeeResponse, error) {
	emps, err := s.repo.FindAllByBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}

	resp := make([]EmployeeResponse, len(emps))
	for i, e := range emps {
		resp[i] = EmployeeResponse{
			ID:       e.ID.String(),
			BranchID: e.BranchID.String(),
			FullName: e.FullName,
			Email:    e.Email,
			Role:     e.RoleAs.Label(),
		}
	}
	return resp, nil
}
