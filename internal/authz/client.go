package authz

import (
	"regexp"

	"github.com/devogs/epic-events-crm/internal/model"
)

var (
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,7}$`)
	phonePattern = regexp.MustCompile(`^[\d\s+-]{5,20}$`)
)

func ValidEmail(email string) bool { return emailPattern.MatchString(email) }
func ValidPhone(phone string) bool { return phonePattern.MatchString(phone) }

// AuthorizeClientCreate decides who the new client's sales contact will
// be. A Sales actor always becomes the owner; Management must name an
// explicit Sales employee.
func (g *Gate) AuthorizeClientCreate(p model.Principal, owner model.Employee, draft model.Client) (model.Client, error) {
	if !g.matrix.Allowed(p.Role, ActionCreateClient) {
		return model.Client{}, deny(ReasonRoleForbidden, "role may not create clients")
	}
	if p.IsSales() && owner.ID != p.EmployeeID {
		return model.Client{}, deny(ReasonNotOwner, "sales may only create clients assigned to themselves")
	}
	if owner.Role != model.RoleSales {
		return model.Client{}, invalid("sales_contact_id", "sales contact must be a Sales employee")
	}
	if err := validateClientFields(draft.FullName, draft.Email, draft.Phone); err != nil {
		return model.Client{}, err
	}
	draft.SalesContactID = owner.ID
	return draft, nil
}

// ApplyClientChange authorizes and applies a client change set. The
// reassignTarget snapshot must be supplied when the set moves the client
// to a new sales contact.
func (g *Gate) ApplyClientChange(p model.Principal, client model.Client, cs model.ClientChangeSet, reassignTarget *model.Employee) (model.Client, error) {
	if !g.matrix.Allowed(p.Role, ActionUpdateClient) {
		return model.Client{}, deny(ReasonRoleForbidden, "role may not update clients")
	}
	if p.IsSales() && client.SalesContactID != p.EmployeeID {
		return model.Client{}, deny(ReasonNotOwner, "client is assigned to another sales contact")
	}

	if cs.SalesContactID != nil {
		if !p.IsManagement() {
			return model.Client{}, denyField(ReasonFieldRestricted, "sales_contact_id", "only management may reassign the sales contact")
		}
		if reassignTarget == nil || reassignTarget.ID != *cs.SalesContactID {
			return model.Client{}, invalid("sales_contact_id", "sales contact not found")
		}
		if reassignTarget.Role != model.RoleSales {
			return model.Client{}, invalid("sales_contact_id", "sales contact must be a Sales employee")
		}
		client.SalesContactID = reassignTarget.ID
	}

	if cs.FullName != nil {
		if *cs.FullName == "" {
			return model.Client{}, invalid("full_name", "must not be empty")
		}
		client.FullName = *cs.FullName
	}
	if cs.Email != nil {
		if !emailPattern.MatchString(*cs.Email) {
			return model.Client{}, invalid("email", "invalid email format")
		}
		client.Email = *cs.Email
	}
	if cs.Phone != nil {
		if !phonePattern.MatchString(*cs.Phone) {
			return model.Client{}, invalid("phone", "invalid phone format")
		}
		client.Phone = *cs.Phone
	}
	if cs.CompanyName != nil {
		client.CompanyName = *cs.CompanyName
	}
	return client, nil
}

func validateClientFields(fullName, email, phone string) error {
	if fullName == "" {
		return invalid("full_name", "must not be empty")
	}
	if !emailPattern.MatchString(email) {
		return invalid("email", "invalid email format")
	}
	if !phonePattern.MatchString(phone) {
		return invalid("phone", "invalid phone format")
	}
	return nil
}
