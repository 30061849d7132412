package rbac

import (
	"sync"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/domain"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

type Service interface {
	LoadBranchPolicy(branchID string) error
	Enforce(req domain.EnforceRequest) (bool, error)
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	logger   *zap.Logger
	mu       sync.Mutex
}

func NewService(repo Repository, enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{
		repo:     repo,
		enforcer: enforcer,
		logger:   l,
	}
}

func (s *service) LoadBranchPolicy(branchID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadBranchPolicyUnlocked(branchID)
}

func (s *service) loadBranchPolicyUnlocked(branchID string) error {
	s.enforcer.ClearPolicy()

	// Grouping policy: employee -> role within the branch domain
	employeeRoles, err := s.repo.GetEmployeeRoles(branchID)
	if err != nil {
		return err
	}
	s.logger.Debug("rbac policy loaded",
		zap.String("branch_id", branchID),
		zap.Int("employee_roles", len(employeeRoles)),
	)

	for _, er := range employeeRoles {
		_, err := s.enforcer.AddGroupingPolicy(
			er.EmployeeID,
			er.RoleID,
			branchID,
		)
		if err != nil {
			return err
		}
	}

	// Permission policy: role -> resource/action within the branch domain
	rolePerms, err := s.repo.GetRolePermissions(branchID)
	if err != nil {
		return err
	}

	for _, rp := range rolePerms {
		_, err := s.enforcer.AddPolicy(
			rp.RoleID,
			branchID,
			rp.Resource,
			rp.Action,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadBranchPolicyUnlocked(req.BranchID); err != nil {
		return false, err
	}

	allowed, err := s.enforcer.Enforce(
		req.EmployeeID,
		req.BranchID,
		req.Resource,
		req.Action,
	)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("employee_id", req.EmployeeID),
			zap.String("branch_id", req.BranchID),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("rbac enforce result",
		zap.String("employee_id", req.EmployeeID),
		zap.String("branch_id", req.BranchID),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)

	return allowed, nil
}
