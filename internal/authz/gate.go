package authz

import "github.com/devogs/epic-events-crm/internal/model"

// Gate is the authorization checkpoint for every CRM operation. It
// combines the role matrix, per-instance ownership rules and the
// contract/event lifecycle rules. Decisions are pure functions of the
// principal, the entity snapshot and the change set; nothing is cached
// between calls.
type Gate struct {
	matrix *Matrix
}

func NewGate(matrix *Matrix) *Gate {
	return &Gate{matrix: matrix}
}

// Authorize is the coarse role check. Instance-level operations go
// through the Scope/Apply methods instead.
func (g *Gate) Authorize(p model.Principal, action Action) *Denial {
	if !g.matrix.Allowed(p.Role, action) {
		return deny(ReasonRoleForbidden, "role may not perform "+string(action))
	}
	return nil
}

func (g *Gate) Can(p model.Principal, action Action) bool {
	return g.Authorize(p, action) == nil
}
