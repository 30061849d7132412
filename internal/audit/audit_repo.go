package audit

import (
	"context"

	"gorm.io/gorm"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/tenant"
)

type Repository interface {
	Create(ctx context.Context, entry *AuditLog) error
	FindAllByBranch(ctx context.Context, branchID string, limit, offset int) ([]AuditLog, int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, entry *AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) FindAllByBranch(ctx context.Context, branchID string, limit, offset int) ([]AuditLog, int64, error) {
	var total int64
	base := r.db.WithContext(ctx).Model(&AuditLog{}).Scopes(tenant.Scope(branchID))
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []AuditLog
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(branchID)).
		Order("occurred_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	return entries, total, err
}
