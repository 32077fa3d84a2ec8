package authz

import "fmt"

// Reason classifies why a request was refused.
type Reason string

const (
	// ReasonRoleForbidden: the role may never perform the action.
	ReasonRoleForbidden Reason = "ROLE_FORBIDDEN"
	// ReasonNotOwner: the role may perform the action, but not on this
	// instance.
	ReasonNotOwner Reason = "NOT_OWNER"
	// ReasonResourceLocked: the instance's lifecycle state forbids the
	// change (e.g. the event is already assigned to someone else).
	ReasonResourceLocked Reason = "RESOURCE_LOCKED"
	// ReasonFieldRestricted: a specific field in the change set requires
	// a higher role.
	ReasonFieldRestricted Reason = "FIELD_RESTRICTED"
)

// Denial is a structured negative authorization verdict. Field is set
// when a single field triggered the refusal.
type Denial struct {
	Reason  Reason
	Field   string
	Message string
}

func (d *Denial) Error() string {
	if d.Field != "" {
		return fmt.Sprintf("denied (%s, field %s): %s", d.Reason, d.Field, d.Message)
	}
	return fmt.Sprintf("denied (%s): %s", d.Reason, d.Message)
}

func deny(reason Reason, message string) *Denial {
	return &Denial{Reason: reason, Message: message}
}

func denyField(reason Reason, field, message string) *Denial {
	return &Denial{Reason: reason, Field: field, Message: message}
}

// ValidationError reports a change set that violates an entity
// invariant regardless of who requested it.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
