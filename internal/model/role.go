package model

import "github.com/google/uuid"

type Role string

const (
	RoleManagement Role = "MANAGEMENT"
	RoleSales      Role = "SALES"
	RoleSupport    Role = "SUPPORT"
)

func (r Role) Valid() bool {
	switch r {
	case RoleManagement, RoleSales, RoleSupport:
		return true
	default:
		return false
	}
}

// Principal is the authenticated employee attached to a request by the
// auth middleware. It is re-resolved from the employees table on every
// request; role changes take effect immediately.
type Principal struct {
	EmployeeID uuid.UUID
	FullName   string
	Role       Role
}

func (p Principal) IsManagement() bool { return p.Role == RoleManagement }
func (p Principal) IsSales() bool      { return p.Role == RoleSales }
func (p Principal) IsSupport() bool    { return p.Role == RoleSupport }
