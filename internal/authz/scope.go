package authz

import (
	"github.com/google/uuid"

	"github.com/devogs/epic-events-crm/internal/model"
)

// Requested filters express what the caller asked to see. Scopes are
// what the caller is actually allowed to see: for Sales the narrowing is
// absolute and overrides any requested filter.

type ClientFilter struct {
	SalesContactID *uuid.UUID
}

type ContractFilter struct {
	SalesContactID *uuid.UUID
	Signed         *bool
	Unpaid         bool
}

type EventFilter struct {
	SupportContactID *uuid.UUID
	OnlyUnassigned   bool
	// All widens a Support actor's default assigned-to-self-plus-
	// unassigned view to every event. Ignored for other roles, which
	// are already at their widest.
	All bool
}

type ClientScope struct {
	SalesContactID *uuid.UUID
}

type ContractScope struct {
	SalesContactID *uuid.UUID
	Signed         *bool
	Unpaid         bool
}

type EventScope struct {
	// SalesContactID restricts to events whose parent contract belongs
	// to the given sales contact.
	SalesContactID   *uuid.UUID
	SupportContactID *uuid.UUID
	OnlyUnassigned   bool
	// AssignedToOrUnassigned is the Support default view: events
	// assigned to the given employee plus unassigned ones.
	AssignedToOrUnassigned *uuid.UUID
}

func (g *Gate) ScopeClients(p model.Principal, filter ClientFilter) (ClientScope, *Denial) {
	if !g.matrix.Allowed(p.Role, ActionViewClients) {
		return ClientScope{}, deny(ReasonRoleForbidden, "role may not view clients")
	}
	switch p.Role {
	case model.RoleSales:
		id := p.EmployeeID
		return ClientScope{SalesContactID: &id}, nil
	default:
		return ClientScope{SalesContactID: filter.SalesContactID}, nil
	}
}

func (g *Gate) ScopeContracts(p model.Principal, filter ContractFilter) (ContractScope, *Denial) {
	if !g.matrix.Allowed(p.Role, ActionViewContracts) {
		return ContractScope{}, deny(ReasonRoleForbidden, "role may not view contracts")
	}
	scope := ContractScope{
		SalesContactID: filter.SalesContactID,
		Signed:         filter.Signed,
		Unpaid:         filter.Unpaid,
	}
	if p.Role == model.RoleSales {
		id := p.EmployeeID
		scope.SalesContactID = &id
	}
	return scope, nil
}

func (g *Gate) ScopeEvents(p model.Principal, filter EventFilter) (EventScope, *Denial) {
	if !g.matrix.Allowed(p.Role, ActionViewEvents) {
		return EventScope{}, deny(ReasonRoleForbidden, "role may not view events")
	}
	switch p.Role {
	case model.RoleSales:
		id := p.EmployeeID
		return EventScope{
			SalesContactID:   &id,
			SupportContactID: filter.SupportContactID,
			OnlyUnassigned:   filter.OnlyUnassigned,
		}, nil
	case model.RoleSupport:
		if filter.All {
			return EventScope{
				SupportContactID: filter.SupportContactID,
				OnlyUnassigned:   filter.OnlyUnassigned,
			}, nil
		}
		id := p.EmployeeID
		return EventScope{AssignedToOrUnassigned: &id}, nil
	default:
		return EventScope{
			SupportContactID: filter.SupportContactID,
			OnlyUnassigned:   filter.OnlyUnassigned,
		}, nil
	}
}
