package authz

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devogs/epic-events-crm/internal/model"
)

func signedContract(owner uuid.UUID) model.Contract {
	return model.Contract{
		ID:              uuid.New(),
		ClientID:        uuid.New(),
		SalesContactID:  owner,
		TotalAmount:     1000,
		RemainingAmount: 0,
		Signed:          true,
	}
}

func eventDraft() model.Event {
	return model.Event{
		Name:      "Annual gala",
		Attendees: 120,
		StartAt:   time.Date(2026, 9, 10, 18, 0, 0, 0, time.UTC),
		EndAt:     time.Date(2026, 9, 10, 23, 0, 0, 0, time.UTC),
		Location:  "Paris",
	}
}

func unassignedEvent() model.Event {
	e := eventDraft()
	e.ID = uuid.New()
	e.ContractID = uuid.New()
	return e
}

func assignedEvent(supportID uuid.UUID) model.Event {
	e := unassignedEvent()
	e.SupportContactID = &supportID
	return e
}

func supportEmployee(id uuid.UUID) *model.Employee {
	return &model.Employee{ID: id, FullName: "Support Person", Role: model.RoleSupport}
}

func stringPtr(v string) *string { return &v }
func intPtr(v int) *int          { return &v }

// --- creation ---

func TestEventCreateRequiresSignedContract(t *testing.T) {
	g := NewGate(NewMatrix())
	owner := salesPrincipal()
	contract := signedContract(owner.EmployeeID)
	contract.Signed = false

	_, err := g.AuthorizeEventCreate(owner, contract, eventDraft())
	requireDenial(t, err, ReasonResourceLocked)
}

func TestEventCreateBySalesOwner(t *testing.T) {
	g := NewGate(NewMatrix())
	owner := salesPrincipal()
	contract := signedContract(owner.EmployeeID)

	created, err := g.AuthorizeEventCreate(owner, contract, eventDraft())
	require.NoError(t, err)
	assert.Equal(t, contract.ID, created.ContractID)
	assert.Nil(t, created.SupportContactID, "events start unassigned")
}

func TestEventCreateDeniedForNonOwnerSales(t *testing.T) {
	g := NewGate(NewMatrix())
	contract := signedContract(uuid.New())

	_, err := g.AuthorizeEventCreate(salesPrincipal(), contract, eventDraft())
	requireDenial(t, err, ReasonNotOwner)
}

func TestEventCreateDeniedForSupport(t *testing.T) {
	g := NewGate(NewMatrix())
	contract := signedContract(uuid.New())

	_, err := g.AuthorizeEventCreate(supportPrincipal(), contract, eventDraft())
	requireDenial(t, err, ReasonRoleForbidden)
}

func TestEventCreateValidation(t *testing.T) {
	g := NewGate(NewMatrix())
	owner := salesPrincipal()
	contract := signedContract(owner.EmployeeID)

	draft := eventDraft()
	draft.StartAt, draft.EndAt = draft.EndAt, draft.StartAt
	_, err := g.AuthorizeEventCreate(owner, contract, draft)
	requireValidation(t, err, "start_at")

	draft = eventDraft()
	draft.Attendees = -1
	_, err = g.AuthorizeEventCreate(owner, contract, draft)
	requireValidation(t, err, "attendees")

	draft = eventDraft()
	draft.Name = ""
	_, err = g.AuthorizeEventCreate(owner, contract, draft)
	requireValidation(t, err, "name")
}

// --- assignment lifecycle ---

func TestSupportSelfAssignsUnassignedEvent(t *testing.T) {
	g := NewGate(NewMatrix())
	s1 := supportPrincipal()
	event := unassignedEvent()

	updated, err := g.ApplyEventChange(s1, event, model.EventChangeSet{
		SupportContact: &model.SupportAssignment{ContactID: &s1.EmployeeID},
	}, supportEmployee(s1.EmployeeID))
	require.NoError(t, err)
	require.NotNil(t, updated.SupportContactID)
	assert.Equal(t, s1.EmployeeID, *updated.SupportContactID)
}

func TestSupportCannotTakeOverAssignedEvent(t *testing.T) {
	g := NewGate(NewMatrix())
	s1 := supportPrincipal()
	s2 := supportPrincipal()
	event := assignedEvent(s1.EmployeeID)

	_, err := g.ApplyEventChange(s2, event, model.EventChangeSet{
		SupportContact: &model.SupportAssignment{ContactID: &s2.EmployeeID},
	}, supportEmployee(s2.EmployeeID))
	requireDenial(t, err, ReasonResourceLocked)
}

func TestSupportCannotAssignSomeoneElse(t *testing.T) {
	g := NewGate(NewMatrix())
	s1 := supportPrincipal()
	other := uuid.New()
	event := unassignedEvent()

	_, err := g.ApplyEventChange(s1, event, model.EventChangeSet{
		SupportContact: &model.SupportAssignment{ContactID: &other},
	}, supportEmployee(other))
	denial := requireDenial(t, err, ReasonFieldRestricted)
	assert.Equal(t, "support_contact_id", denial.Field)
}

func TestManagementReassignsEvent(t *testing.T) {
	g := NewGate(NewMatrix())
	s1 := supportPrincipal()
	s2 := supportPrincipal()
	event := assignedEvent(s1.EmployeeID)

	updated, err := g.ApplyEventChange(managementPrincipal(), event, model.EventChangeSet{
		SupportContact: &model.SupportAssignment{ContactID: &s2.EmployeeID},
	}, supportEmployee(s2.EmployeeID))
	require.NoError(t, err)
	require.NotNil(t, updated.SupportContactID)
	assert.Equal(t, s2.EmployeeID, *updated.SupportContactID)
}

func TestAssignTargetMustBeSupportOrManagement(t *testing.T) {
	g := NewGate(NewMatrix())
	event := unassignedEvent()
	salesEmployee := &model.Employee{ID: uuid.New(), Role: model.RoleSales}

	_, err := g.ApplyEventChange(managementPrincipal(), event, model.EventChangeSet{
		SupportContact: &model.SupportAssignment{ContactID: &salesEmployee.ID},
	}, salesEmployee)
	requireValidation(t, err, "support_contact_id")
}

func TestSupportUnassignsSelf(t *testing.T) {
	g := NewGate(NewMatrix())
	s1 := supportPrincipal()
	event := assignedEvent(s1.EmployeeID)

	updated, err := g.ApplyEventChange(s1, event, model.EventChangeSet{
		SupportContact: &model.SupportAssignment{ContactID: nil},
	}, nil)
	require.NoError(t, err)
	assert.Nil(t, updated.SupportContactID)
}

func TestSupportCannotUnassignSomeoneElse(t *testing.T) {
	g := NewGate(NewMatrix())
	s1 := supportPrincipal()
	s2 := supportPrincipal()
	event := assignedEvent(s1.EmployeeID)

	_, err := g.ApplyEventChange(s2, event, model.EventChangeSet{
		SupportContact: &model.SupportAssignment{ContactID: nil},
	}, nil)
	requireDenial(t, err, ReasonResourceLocked)
}

// --- field edits ---

func TestSalesMayNeverUpdateEvents(t *testing.T) {
	g := NewGate(NewMatrix())
	event := unassignedEvent()

	_, err := g.ApplyEventChange(salesPrincipal(), event, model.EventChangeSet{
		Location: stringPtr("Lyon"),
	}, nil)
	requireDenial(t, err, ReasonRoleForbidden)
}

func TestAssigneeEditsFields(t *testing.T) {
	g := NewGate(NewMatrix())
	s1 := supportPrincipal()
	event := assignedEvent(s1.EmployeeID)

	updated, err := g.ApplyEventChange(s1, event, model.EventChangeSet{
		Location:  stringPtr("Lyon"),
		Attendees: intPtr(80),
		Notes:     stringPtr("Projector booked"),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Lyon", updated.Location)
	assert.Equal(t, 80, updated.Attendees)
}

func TestNonAssigneeSupportCannotEditFields(t *testing.T) {
	g := NewGate(NewMatrix())
	s1 := supportPrincipal()
	s2 := supportPrincipal()

	_, err := g.ApplyEventChange(s2, assignedEvent(s1.EmployeeID), model.EventChangeSet{
		Location: stringPtr("Lyon"),
	}, nil)
	requireDenial(t, err, ReasonResourceLocked)

	_, err = g.ApplyEventChange(s2, unassignedEvent(), model.EventChangeSet{
		Location: stringPtr("Lyon"),
	}, nil)
	requireDenial(t, err, ReasonNotOwner)
}

func TestSupportSelfAssignAndEditInOneRequest(t *testing.T) {
	g := NewGate(NewMatrix())
	s1 := supportPrincipal()
	event := unassignedEvent()

	updated, err := g.ApplyEventChange(s1, event, model.EventChangeSet{
		SupportContact: &model.SupportAssignment{ContactID: &s1.EmployeeID},
		Notes:          stringPtr("Taking this one"),
	}, supportEmployee(s1.EmployeeID))
	require.NoError(t, err)
	require.NotNil(t, updated.SupportContactID)
	assert.Equal(t, "Taking this one", updated.Notes)
}

func TestEventEditValidation(t *testing.T) {
	g := NewGate(NewMatrix())
	s1 := supportPrincipal()
	event := assignedEvent(s1.EmployeeID)

	badEnd := event.StartAt.Add(-time.Hour)
	_, err := g.ApplyEventChange(s1, event, model.EventChangeSet{EndAt: &badEnd}, nil)
	requireValidation(t, err, "start_at")

	_, err = g.ApplyEventChange(s1, event, model.EventChangeSet{Attendees: intPtr(-5)}, nil)
	requireValidation(t, err, "attendees")
}
