package rbac

import (
	"testing"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/domain"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/rbac/infra"

	"github.com/stretchr/testify/assert"
)

type mockRepo struct{}

func (m *mockRepo) GetEmployeeRoles(branchID string) ([]EmployeeRoleRow, error) {
	return []EmployeeRoleRow{
		{
			EmployeeID: "emp-1",
			RoleID:     "role-branch-admin",
		},
	}, nil
}

func (m *mockRepo) GetRolePermissions(branchID string) ([]RolePermissionRow, error) {
	return []RolePermissionRow{
		{
			RoleID:   "role-branch-admin",
			Resource: "schedule_request",
			Action:   "approve",
		},
	}, nil
}

func (m *mockRepo) ListRoles(branchID string) ([]RoleRow, error)           { return nil, nil }
func (m *mockRepo) GetRoleByID(id string) (*RoleRow, error)                { return nil, nil }
func (m *mockRepo) GetRoleByName(branchID, name string) (*RoleRow, error)  { return nil, nil }
func (m *mockRepo) CreateRole(role *RoleRow) error                         { return nil }
func (m *mockRepo) UpdateRole(role *RoleRow) error                         { return nil }
func (m *mockRepo) DeleteRole(id string) error                             { return nil }
func (m *mockRepo) ListPermissions() ([]PermissionRow, error)              { return nil, nil }
func (m *mockRepo) GetPermissionsByRoleID(id string) ([]PermissionRow, error) {
	return nil, nil
}
func (m *mockRepo) UpdateRolePermissions(roleID string, permIDs []string) error { return nil }

func TestRBACService_Enforce(t *testing.T) {
	repo := &mockRepo{}
	enforcer, err := infra.NewEnforcer()
	assert.NoError(t, err)

	service := NewService(repo, enforcer)

	err = service.LoadBranchPolicy("branch-1")
	assert.NoError(t, err)

	// Should allow
	allowed, err := service.Enforce(domain.EnforceRequest{
		EmployeeID: "emp-1",
		BranchID:   "branch-1",
		Resource:   "schedule_request",
		Action:     "approve",
	})

	assert.NoError(t, err)
	assert.True(t, allowed)

	// Should deny
	denied, err := service.Enforce(domain.EnforceRequest{
		EmployeeID: "emp-1",
		BranchID:   "branch-1",
		Resource:   "payroll",
		Action:     "delete",
	})

	assert.NoError(t, err)
	assert.False(t, denied)
}
