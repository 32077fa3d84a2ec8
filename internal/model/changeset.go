package model

import (
	"time"

	"github.com/google/uuid"
)

// Change sets are closed: each struct lists exactly the fields an entity
// permits to change, a nil pointer meaning "not part of this request".
// A multi-field change set is authorized as a whole; a denial on any
// field rejects the entire set.

type ClientChangeSet struct {
	FullName       *string
	Email          *string
	Phone          *string
	CompanyName    *string
	SalesContactID *uuid.UUID // reassignment, management only
}

func (cs ClientChangeSet) Empty() bool {
	return cs.FullName == nil && cs.Email == nil && cs.Phone == nil &&
		cs.CompanyName == nil && cs.SalesContactID == nil
}

// EmployeeChangeSet has no per-field rules: employee management is
// Management-only as a whole.
type EmployeeChangeSet struct {
	FullName *string
	Email    *string
	Phone    *string
	Password *string
	Role     *Role
}

func (cs EmployeeChangeSet) Empty() bool {
	return cs.FullName == nil && cs.Email == nil && cs.Phone == nil &&
		cs.Password == nil && cs.Role == nil
}

type ContractChangeSet struct {
	TotalAmount     *float64
	RemainingAmount *float64
	Signed          *bool
}

func (cs ContractChangeSet) Empty() bool {
	return cs.TotalAmount == nil && cs.RemainingAmount == nil && cs.Signed == nil
}

// SupportAssignment is the tri-state support-contact update: absent from
// the change set (nil *SupportAssignment), assign to ContactID, or
// unassign (ContactID nil).
type SupportAssignment struct {
	ContactID *uuid.UUID
}

type EventChangeSet struct {
	Name           *string
	Location       *string
	Notes          *string
	Attendees      *int
	StartAt        *time.Time
	EndAt          *time.Time
	SupportContact *SupportAssignment
}

func (cs EventChangeSet) Empty() bool {
	return !cs.HasFieldEdits() && cs.SupportContact == nil
}

// HasFieldEdits reports whether the set touches anything besides the
// support-contact assignment. Assignment transitions and field edits
// follow different rules.
func (cs EventChangeSet) HasFieldEdits() bool {
	return cs.Name != nil || cs.Location != nil || cs.Notes != nil ||
		cs.Attendees != nil || cs.StartAt != nil || cs.EndAt != nil
}
