package tenant

import "gorm.io/gorm"

// Scope restricts a query to a single branch. Every branch-owned table
// carries a branch_id column.
func Scope(branchID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("branch_id = ?", branchID)
	}
}
