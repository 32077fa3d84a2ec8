package authz

import "github.com/devogs/epic-events-crm/internal/model"

// Event assignment lifecycle: Unassigned -> Assigned(x) -> Assigned(y)
// (management only) -> Unassigned. Field edits are judged against the
// assignee after the transition in the same change set, so a Support
// actor may self-assign and fill in details in one request.

// AuthorizeEventCreate validates a new event draft against its parent
// contract. Only the contract's own Sales contact, or Management, may
// create one, and only once the contract is signed.
func (g *Gate) AuthorizeEventCreate(p model.Principal, contract model.Contract, draft model.Event) (model.Event, error) {
	if !g.matrix.Allowed(p.Role, ActionCreateEvent) {
		return model.Event{}, deny(ReasonRoleForbidden, "role may not create events")
	}
	if !contract.Signed {
		return model.Event{}, deny(ReasonResourceLocked, "contract is not signed")
	}
	if p.IsSales() && contract.SalesContactID != p.EmployeeID {
		return model.Event{}, deny(ReasonNotOwner, "contract belongs to another sales contact")
	}
	if err := validateEventFields(draft); err != nil {
		return model.Event{}, err
	}
	draft.ContractID = contract.ID
	draft.SupportContactID = nil // events start unassigned
	return draft, nil
}

// AuthorizeEventView gates direct access to a single event. Fetching an
// event by id counts as an explicit request, so Support is not limited
// to its default assigned-plus-unassigned view here; Sales narrowing
// stays absolute.
func (g *Gate) AuthorizeEventView(p model.Principal, event model.Event, contract model.Contract) *Denial {
	if !g.matrix.Allowed(p.Role, ActionViewEvents) {
		return deny(ReasonRoleForbidden, "role may not view events")
	}
	if p.IsSales() && contract.SalesContactID != p.EmployeeID {
		return deny(ReasonNotOwner, "contract belongs to another sales contact")
	}
	return nil
}

// ApplyEventChange authorizes and applies an event change set. The
// assignTarget snapshot must be supplied when the set assigns a support
// contact.
func (g *Gate) ApplyEventChange(p model.Principal, event model.Event, cs model.EventChangeSet, assignTarget *model.Employee) (model.Event, error) {
	if !g.matrix.Allowed(p.Role, ActionUpdateEvent) {
		return model.Event{}, deny(ReasonRoleForbidden, "role may not update events")
	}

	if cs.SupportContact != nil {
		updated, err := g.applyAssignment(p, event, *cs.SupportContact, assignTarget)
		if err != nil {
			return model.Event{}, err
		}
		event = updated
	}

	if cs.HasFieldEdits() {
		if p.IsSupport() && !event.AssignedTo(p.EmployeeID) {
			if event.Assigned() {
				return model.Event{}, deny(ReasonResourceLocked, "event is assigned to another support contact")
			}
			return model.Event{}, deny(ReasonNotOwner, "event is not assigned to you")
		}
		if cs.Name != nil {
			if *cs.Name == "" {
				return model.Event{}, invalid("name", "must not be empty")
			}
			event.Name = *cs.Name
		}
		if cs.Location != nil {
			event.Location = *cs.Location
		}
		if cs.Notes != nil {
			event.Notes = *cs.Notes
		}
		if cs.Attendees != nil {
			event.Attendees = *cs.Attendees
		}
		if cs.StartAt != nil {
			event.StartAt = *cs.StartAt
		}
		if cs.EndAt != nil {
			event.EndAt = *cs.EndAt
		}
	}

	if err := validateEventFields(event); err != nil {
		return model.Event{}, err
	}
	return event, nil
}

func (g *Gate) applyAssignment(p model.Principal, event model.Event, assignment model.SupportAssignment, target *model.Employee) (model.Event, error) {
	// Unassign.
	if assignment.ContactID == nil {
		switch {
		case p.IsManagement():
		case p.IsSupport():
			if event.Assigned() && !event.AssignedTo(p.EmployeeID) {
				return model.Event{}, deny(ReasonResourceLocked, "event is assigned to another support contact")
			}
		default:
			return model.Event{}, denyField(ReasonFieldRestricted, "support_contact_id", "only management or support may change the support contact")
		}
		event.SupportContactID = nil
		return event, nil
	}

	// Assign or reassign.
	newID := *assignment.ContactID
	switch {
	case p.IsManagement():
		// management may assign or reassign freely
	case p.IsSupport():
		if newID != p.EmployeeID {
			return model.Event{}, denyField(ReasonFieldRestricted, "support_contact_id", "support may only assign themselves")
		}
		if event.Assigned() && !event.AssignedTo(p.EmployeeID) {
			return model.Event{}, deny(ReasonResourceLocked, "event is assigned to another support contact")
		}
	default:
		return model.Event{}, denyField(ReasonFieldRestricted, "support_contact_id", "only management or support may change the support contact")
	}

	if target == nil || target.ID != newID {
		return model.Event{}, invalid("support_contact_id", "support contact not found")
	}
	if target.Role != model.RoleSupport && target.Role != model.RoleManagement {
		return model.Event{}, invalid("support_contact_id", "support contact must be a Support or Management employee")
	}
	event.SupportContactID = &newID
	return event, nil
}

func validateEventFields(event model.Event) error {
	if event.Name == "" {
		return invalid("name", "must not be empty")
	}
	if event.Attendees < 0 {
		return invalid("attendees", "must not be negative")
	}
	if event.StartAt.IsZero() || event.EndAt.IsZero() {
		return invalid("start_at", "start and end are required")
	}
	if !event.StartAt.Before(event.EndAt) {
		return invalid("start_at", "must be before end_at")
	}
	return nil
}
