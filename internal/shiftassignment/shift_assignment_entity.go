package shiftassignment

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ShiftAssignment struct {
	ID         uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	BranchID   uuid.UUID      `gorm:"column:branch_id;type:uuid;not null;index"`
	EmployeeID uuid.UUID      `gorm:"column:employee_id;type:uuid;not null;index:idx_shift_assignments_employee_date"`
	ShiftDate  time.Time      `gorm:"column:shift_date;type:date;not null;index:idx_shift_assignments_employee_date"`
	ShiftType  string         `gorm:"column:shift_type;type:varchar(20);not null"`
	Status     string         `gorm:"column:status;type:varchar(20);not null;default:SCHEDULED"`
	AssignedBy uuid.UUID      `gorm:"column:assigned_by;type:uuid;not null"`
	Notes      *string        `gorm:"column:notes;type:text"`
	CreatedAt  time.Time      `gorm:"column:created_at"`
	UpdatedAt  time.Time      `gorm:"column:updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"column:deleted_at;index"`
	Employee   *EmployeeRef   `gorm:"foreignKey:EmployeeID;references:ID"`
}

func (ShiftAssignment) TableName() string {
	return "shift_assignments"
}

type EmployeeRef struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName string    `gorm:"column:full_name"`
}

func (EmployeeRef) TableName() string {
	return "employees"
}
