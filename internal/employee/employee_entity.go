package employee

import (
	"time"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/domain"

	"github.com/google/uuid"
)

type Employee struct {
	ID        uuid.UUID     `gorm:"type:uuid;primaryKey"`
	BranchID  uuid.UUID     `gorm:"type:uuid;index"`
	FullName  string        `gorm:"column:full_name"`
	Email     string        `gorm:"uniqueIndex"`
	RoleAs    domain.RoleID `gorm:"column:role_as;type:int;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Employee) TableName() string {
	return "employees"
}
