package authz

import "github.com/devogs/epic-events-crm/internal/model"

// Matrix is the role -> allowed-actions table. It answers "can this role
// ever do X"; instance-level checks are the gate's job. Built once at
// startup and never mutated afterwards.
type Matrix struct {
	allowed map[model.Role]map[Action]struct{}
}

func NewMatrix() *Matrix {
	return &Matrix{allowed: map[model.Role]map[Action]struct{}{
		model.RoleManagement: actionSet(
			ActionCreateClient, ActionViewClients, ActionUpdateClient,
			ActionCreateContract, ActionViewContracts, ActionUpdateContract,
			ActionCreateEvent, ActionViewEvents, ActionUpdateEvent,
			ActionCreateEmployee, ActionViewEmployees, ActionUpdateEmployee,
			ActionDeleteEmployee,
		),
		model.RoleSales: actionSet(
			ActionCreateClient, ActionViewClients, ActionUpdateClient,
			ActionViewContracts, ActionUpdateContract,
			ActionCreateEvent, ActionViewEvents,
		),
		model.RoleSupport: actionSet(
			ActionViewClients, ActionViewContracts,
			ActionViewEvents, ActionUpdateEvent,
		),
	}}
}

// Allowed fails closed: unknown roles and unknown actions are refused.
func (m *Matrix) Allowed(role model.Role, action Action) bool {
	actions, ok := m.allowed[role]
	if !ok {
		return false
	}
	_, ok = actions[action]
	return ok
}

func actionSet(actions ...Action) map[Action]struct{} {
	set := make(map[Action]struct{}, len(actions))
	for _, action := range actions {
		set[action] = struct{}{}
	}
	return set
}
