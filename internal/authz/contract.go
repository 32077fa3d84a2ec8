package authz

import "github.com/devogs/epic-events-crm/internal/model"

// Contract lifecycle: Unsigned <-> Signed, with amount rules evaluated
// over the whole change set before anything is applied. The signed flag
// is an independent business event and is never derived from
// remaining_amount reaching zero.

// AuthorizeContractCreate validates a new contract draft. Only
// Management creates contracts; the sales contact is always copied from
// the client.
func (g *Gate) AuthorizeContractCreate(p model.Principal, client model.Client, draft model.Contract) (model.Contract, error) {
	if !g.matrix.Allowed(p.Role, ActionCreateContract) {
		return model.Contract{}, deny(ReasonRoleForbidden, "role may not create contracts")
	}
	if draft.TotalAmount <= 0 {
		return model.Contract{}, invalid("total_amount", "must be positive")
	}
	if draft.RemainingAmount < 0 || draft.RemainingAmount > draft.TotalAmount {
		return model.Contract{}, invalid("remaining_amount", "must be between 0 and total_amount")
	}
	draft.ClientID = client.ID
	draft.SalesContactID = client.SalesContactID
	return draft, nil
}

// ApplyContractChange authorizes and applies a contract change set
// atomically: any refused field rejects the whole set.
func (g *Gate) ApplyContractChange(p model.Principal, contract model.Contract, cs model.ContractChangeSet) (model.Contract, error) {
	if !g.matrix.Allowed(p.Role, ActionUpdateContract) {
		return model.Contract{}, deny(ReasonRoleForbidden, "role may not update contracts")
	}
	if p.IsSales() && contract.SalesContactID != p.EmployeeID {
		return model.Contract{}, deny(ReasonNotOwner, "contract belongs to another sales contact")
	}

	newTotal := contract.TotalAmount
	if cs.TotalAmount != nil {
		if !p.IsManagement() {
			return model.Contract{}, denyField(ReasonFieldRestricted, "total_amount", "only management may change the total amount")
		}
		if *cs.TotalAmount <= 0 {
			return model.Contract{}, invalid("total_amount", "must be positive")
		}
		newTotal = *cs.TotalAmount
	}

	newRemaining := contract.RemainingAmount
	if cs.RemainingAmount != nil {
		if *cs.RemainingAmount < 0 {
			return model.Contract{}, invalid("remaining_amount", "must not be negative")
		}
		// Sales record payments; only management can reverse one.
		if p.IsSales() && *cs.RemainingAmount > contract.RemainingAmount {
			return model.Contract{}, denyField(ReasonFieldRestricted, "remaining_amount", "only management may increase the remaining amount")
		}
		newRemaining = *cs.RemainingAmount
	}

	if newRemaining > newTotal {
		return model.Contract{}, invalid("remaining_amount", "must not exceed total_amount")
	}

	if cs.Signed != nil {
		// Signing is a discrete business event; only management may
		// reverse it.
		if !*cs.Signed && !p.IsManagement() {
			return model.Contract{}, denyField(ReasonFieldRestricted, "signed", "only management may unsign a contract")
		}
		contract.Signed = *cs.Signed
	}
	contract.TotalAmount = newTotal
	contract.RemainingAmount = newRemaining
	return contract, nil
}
