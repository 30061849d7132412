package employee

import (
	"context"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/domain"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/tenant"

	"gorm.io/gorm"
)

type Repository interface {
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindByIDAndBranch(ctx context.Context, branchID, id string) (*Employee, error)
	FindAllByBranch(ctx context.Context, branchID string) ([]Employee, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var emp Employee
	err := r.db.WithContext(ctx).First(&emp, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *repository) FindByIDAndBranch(ctx context.Context, branchID, id string) (*Employee, error) {
	var emp Employee
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(branchID)).
		First(&emp, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *repository) FindAllByBranch(ctx context.Context, branchID string) ([]Employee, error) {
	var emps []Employee
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(branchID)).
		Where("role_as <> ?", domain.RolePatient).
		Order("full_name ASC").
		Find(&emps).Error
	return emps, err
}
