package shiftassignment

type AssignShiftRequest struct {
	EmployeeID string  `json:"employee_id" binding:"required,uuid"`
	ShiftDate  string  `json:"shift_date" binding:"required"`
	ShiftType  string  `json:"shift_type" binding:"required,oneof=MORNING EVENING NIGHT"`
	Notes      *string `json:"notes"`
}

type ShiftAssignmentResponse struct {
	ID           string  `json:"id"`
	BranchID     string  `json:"branch_id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name,omitempty"`
	ShiftDate    string  `json:"shift_date"`
	ShiftType    string  `json:"shift_type"`
	Status       string  `json:"status"`
	AssignedBy   string  `json:"assigned_by"`
	Notes        *string `json:"notes,omitempty"`
}
