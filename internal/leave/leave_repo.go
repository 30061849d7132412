package leave

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *Leave) error
	FindAllByBranch(ctx context.Context, branchID string) ([]Leave, error)
	FindByIDAndBranch(ctx context.Context, branchID, id string) (*Leave, error)
	Update(ctx context.Context, l *Leave) error
	Delete(ctx context.Context, branchID, id string) error
	EmployeeBelongsToBranch(ctx context.Context, branchID, employeeID string) (bool, error)
	HasOverlappingPeriod(ctx context.Context, branchID, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error)
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

func (r *repository) Create(ctx context.Context, l *Leave) error {
	if r.tx != nil {
		return r.createInTx(ctx, l)
	}
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) createInTx(ctx context.Context, l *Leave) error {
	query := `
		INSERT INTO leaves (
			id, branch_id, employee_id, leave_type, start_date, end_date,
			total_days, reason, status, created_by, approved_by,
			rejection_reason, source_request_id, approved_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, now(), now())
	`
	_, err := r.tx.ExecContext(
		ctx, query,
		l.ID, l.BranchID, l.EmployeeID, l.LeaveType, l.StartDate, l.EndDate,
		l.TotalDays, l.Reason, l.Status, l.CreatedBy, l.ApprovedBy,
		l.RejectionReason, l.SourceRequestID, l.ApprovedAt,
	)
	return err
}

func (r *repository) FindAllByBranch(ctx context.Context, branchID string) ([]Leave, error) {
	var leaves []Leave
	err := r.db.WithContext(ctx).
		Where("branch_id = ?", branchID).
		Order("start_date DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindByIDAndBranch(ctx context.Context, branchID, id string) (*Leave, error) {
	var l Leave
	err := r.db.WithContext(ctx).
		Where("branch_id = ?", branchID).
		First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) Update(ctx context.Context, l *Leave) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *repository) Delete(ctx context.Context, branchID, id string) error {
	return r.db.WithContext(ctx).
		Where("branch_id = ?", branchID).
		Delete(&Leave{}, "id = ?", id).Error
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

func (r *repository) HasOverlappingPeriod(ctx context.Context, branchID, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
	db := r.db.WithContext(ctx).
		Model(&Leave{}).
		Where("branch_id = ?", branchID).
		Where("employee_id = ?", employeeID).
		Where("status <> ?", "CANCELLED").
		Where("NOT (end_date < ? OR start_date > ?)", startDate, endDate)

	if excludeID != nil && *excludeID != "" {
		db = db.Where("id <> ?", *excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}
