package domain

// Staff role identifiers shared by every module. The numeric values come
// from the users.role_as column and must stay stable across services.
type RoleID int

const (
	RoleSuperAdmin  RoleID = 1
	RoleBranchAdmin RoleID = 2
	RoleDoctor      RoleID = 3
	RoleNurse       RoleID = 4
	RolePharmacist  RoleID = 5
	RoleCashier     RoleID = 6
	RoleLabAssist   RoleID = 7
	RolePatient     RoleID = 8
)

var roleLabels = map[RoleID]string{
	RoleSuperAdmin:  "Super Admin",
	RoleBranchAdmin: "Branch Admin",
	RoleDoctor:      "Doctor",
	RoleNurse:       "Nurse",
	RolePharmacist:  "Pharmacist",
	RoleCashier:     "Cashier",
	RoleLabAssist:   "Lab Assistant",
	RolePatient:     "Patient",
}

// Label returns the display name for a role id, or "Unknown" for
// unmapped values.
func (r RoleID) Label() string {
	if label, ok := roleLabels[r]; ok {
		return label
	}
	return "Unknown"
}

// IsPatient reports whether the role is a patient account. Patient
// accounts can never hold shifts and are invalid interchange peers.
func (r RoleID) IsPatient() bool {
	return r == RolePatient
}

// CanCrossBranches reports whether the role may act outside its own
// branch scope.
func (r RoleID) CanCrossBranches() bool {
	return r == RoleSuperAdmin
}
