package employee

type EmployeeResponse struct {
	ID       string `json:"id"`
	BranchID string `json:"branch_id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}
