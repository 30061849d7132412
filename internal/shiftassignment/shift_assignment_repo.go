package shiftassignment

import (
	"context"
	"database/sql"
	"time"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/tenant"

	"gorm.io/gorm"
)

const (
	StatusScheduled = "SCHEDULED"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *ShiftAssignment) error
	FindAllByBranch(ctx context.Context, branchID string, from, to time.Time) ([]ShiftAssignment, error)
	FindAllByEmployee(ctx context.Context, branchID, employeeID string) ([]ShiftAssignment, error)
	HasShiftOnDate(ctx context.Context, branchID, employeeID string, date time.Time) (bool, error)
	EmployeeBelongsToBranch(ctx context.Context, branchID, employeeID string) (bool, error)
	// CancelScheduled flips the SCHEDULED assignment for the given
	// employee and date to CANCELLED and reports how many rows matched.
	CancelScheduled(ctx context.Context, branchID, employeeID string, date time.Time) (int64, error)
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

func (r *repository) Create(ctx context.Context, a *ShiftAssignment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) FindAllByBranch(ctx context.Context, branchID string, from, to time.Time) ([]ShiftAssignment, error) {
	var assignments []ShiftAssignment
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(branchID)).
		Where("shift_date BETWEEN ? AND ?", from, to).
		Order("shift_date ASC").
		Preload("Employee").
		Find(&assignments).Error
	return assignments, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, branchID, employeeID string) ([]ShiftAssignment, error) {
	var assignments []ShiftAssignment
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(branchID)).
		Where("employee_id = ?", employeeID).
		Order("shift_date ASC").
		Find(&assignments).Error
	return assignments, err
}

func (r *repository) HasShiftOnDate(ctx context.Context, branchID, employeeID string, date time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&ShiftAssignment{}).
		Scopes(tenant.Scope(branchID)).
		Where("employee_id = ?", employeeID).
		Where("shift_date = ?", date).
		Where("status = ?", StatusScheduled).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) EmployeeBelongsToBranch(ctx context.Context, branchID, employeeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("employees").
		Where("id = ?", employeeID).
		Where("branch_id = ?", branchID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CancelScheduled(ctx context.Context, branchID, employeeID string, date time.Time) (int64, error) {
	// The status guard makes the update idempotent-safe: a row that is
	// already cancelled or completed never matches.
	query := `
		UPDATE shift_assignments
		SET status = $1, updated_at = now()
		WHERE branch_id = $2
		  AND employee_id = $3
		  AND shift_date = $4
		  AND status = $5
		  AND deleted_at IS NULL
	`

	if r.tx != nil {
		res, err := r.tx.ExecContext(ctx, query, StatusCancelled, branchID, employeeID, date, StatusScheduled)
		if err != nil {
			return 0, err
		}
		return res.RowsAffected()
	}

	res := r.db.WithContext(ctx).
		Model(&ShiftAssignment{}).
		Scopes(tenant.Scope(branchID)).
		Where("employee_id = ?", employeeID).
		Where("shift_date = ?", date).
		Where("status = ?", StatusScheduled).
		Update("status", StatusCancelled)
	return res.RowsAffected, res.Error
}
