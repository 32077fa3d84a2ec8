package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/devogs/epic-events-crm/internal/auth"
	"github.com/devogs/epic-events-crm/internal/authz"
	"github.com/devogs/epic-events-crm/internal/config"
	"github.com/devogs/epic-events-crm/internal/model"
)

// In-memory stores backing the service tests. They mimic the repository
// contract, gorm.ErrRecordNotFound included, so the service's error
// mapping is exercised for real.

type fakeEmployees struct {
	byID map[uuid.UUID]model.Employee
}

func (f *fakeEmployees) GetEmployee(_ context.Context, id uuid.UUID) (*model.Employee, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &e, nil
}

func (f *fakeEmployees) GetEmployeeByEmail(_ context.Context, email string) (*model.Employee, error) {
	for _, e := range f.byID {
		if e.Email == email {
			e := e
			return &e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployees) ListEmployees(_ context.Context) ([]model.Employee, error) {
	out := make([]model.Employee, 0, len(f.byID))
	for _, e := range f.byID {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEmployees) CreateEmployee(_ context.Context, employee model.Employee) (*model.Employee, error) {
	employee.ID = uuid.New()
	employee.CreatedAt = time.Now()
	f.byID[employee.ID] = employee
	return &employee, nil
}

func (f *fakeEmployees) UpdateEmployee(_ context.Context, employee model.Employee) error {
	if _, ok := f.byID[employee.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.byID[employee.ID] = employee
	return nil
}

func (f *fakeEmployees) DeleteEmployee(_ context.Context, id uuid.UUID) error {
	if _, ok := f.byID[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeEmployees) CountByRole(_ context.Context, role model.Role) (int64, error) {
	var count int64
	for _, e := range f.byID {
		if e.Role == role {
			count++
		}
	}
	return count, nil
}

type fakeClients struct {
	byID map[uuid.UUID]model.Client
}

func (f *fakeClients) GetClient(_ context.Context, id uuid.UUID) (*model.Client, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (f *fakeClients) ListClients(_ context.Context, scope authz.ClientScope) ([]model.Client, error) {
	var out []model.Client
	for _, c := range f.byID {
		if scope.SalesContactID != nil && c.SalesContactID != *scope.SalesContactID {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeClients) CreateClient(_ context.Context, client model.Client) (*model.Client, error) {
	client.ID = uuid.New()
	f.byID[client.ID] = client
	return &client, nil
}

func (f *fakeClients) UpdateClient(_ context.Context, client model.Client) error {
	if _, ok := f.byID[client.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.byID[client.ID] = client
	return nil
}

type fakeContracts struct {
	byID map[uuid.UUID]model.Contract
}

func (f *fakeContracts) GetContract(_ context.Context, id uuid.UUID) (*model.Contract, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (f *fakeContracts) ListContracts(_ context.Context, scope authz.ContractScope) ([]model.Contract, error) {
	var out []model.Contract
	for _, c := range f.byID {
		if scope.SalesContactID != nil && c.SalesContactID != *scope.SalesContactID {
			continue
		}
		if scope.Signed != nil && c.Signed != *scope.Signed {
			continue
		}
		if scope.Unpaid && c.RemainingAmount <= 0 {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeContracts) CreateContract(_ context.Context, contract model.Contract) (*model.Contract, error) {
	contract.ID = uuid.New()
	f.byID[contract.ID] = contract
	return &contract, nil
}

func (f *fakeContracts) UpdateContract(_ context.Context, contract model.Contract) error {
	if _, ok := f.byID[contract.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.byID[contract.ID] = contract
	return nil
}

type fakeEvents struct {
	byID      map[uuid.UUID]model.Event
	contracts *fakeContracts
}

func (f *fakeEvents) GetEvent(_ context.Context, id uuid.UUID) (*model.Event, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &e, nil
}

func (f *fakeEvents) ListEvents(_ context.Context, scope authz.EventScope) ([]model.Event, error) {
	var out []model.Event
	for _, e := range f.byID {
		if scope.SalesContactID != nil {
			contract, ok := f.contracts.byID[e.ContractID]
			if !ok || contract.SalesContactID != *scope.SalesContactID {
				continue
			}
		}
		if scope.SupportContactID != nil && !e.AssignedTo(*scope.SupportContactID) {
			continue
		}
		if scope.OnlyUnassigned && e.Assigned() {
			continue
		}
		if scope.AssignedToOrUnassigned != nil && e.Assigned() && !e.AssignedTo(*scope.AssignedToOrUnassigned) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEvents) CreateEvent(_ context.Context, event model.Event) (*model.Event, error) {
	event.ID = uuid.New()
	f.byID[event.ID] = event
	return &event, nil
}

func (f *fakeEvents) UpdateEvent(_ context.Context, event model.Event) error {
	if _, ok := f.byID[event.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.byID[event.ID] = event
	return nil
}

type fixture struct {
	svc       *CRMService
	employees *fakeEmployees
	clients   *fakeClients
	contracts *fakeContracts
	events    *fakeEvents
}

type stubBook struct{}

func (stubBook) Generate(model.ContractBook) ([]byte, error) { return []byte("xlsx"), nil }

type stubSheet struct{}

func (stubSheet) Generate(model.EventSheet) ([]byte, error) { return []byte("pdf"), nil }

func newFixture() *fixture {
	employees := &fakeEmployees{byID: map[uuid.UUID]model.Employee{}}
	clients := &fakeClients{byID: map[uuid.UUID]model.Client{}}
	contracts := &fakeContracts{byID: map[uuid.UUID]model.Contract{}}
	events := &fakeEvents{byID: map[uuid.UUID]model.Event{}, contracts: contracts}

	cfg := &config.Config{Auth: config.AuthConfig{
		AccessSecret: "test-secret",
		AccessTTL:    time.Hour,
		BcryptCost:   4,
	}}
	svc := NewCRMService(authz.NewGate(authz.NewMatrix()), Stores{
		Employees: employees,
		Clients:   clients,
		Contracts: contracts,
		Events:    events,
	}, auth.NewIssuer(cfg.Auth.AccessSecret, cfg.Auth.AccessTTL), stubBook{}, stubSheet{}, cfg)

	return &fixture{svc: svc, employees: employees, clients: clients, contracts: contracts, events: events}
}

func (f *fixture) addEmployee(t *testing.T, role model.Role, email string) model.Employee {
	t.Helper()
	hash, err := auth.HashPassword("s3cret", 4)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	e := model.Employee{
		ID:           uuid.New(),
		FullName:     "Test " + string(role),
		Email:        email,
		Role:         role,
		PasswordHash: hash,
	}
	f.employees.byID[e.ID] = e
	return e
}

func (f *fixture) addClient(salesContactID uuid.UUID) model.Client {
	c := model.Client{
		ID:             uuid.New(),
		FullName:       "Kevin Casey",
		Email:          "kevin@startup.io",
		Phone:          "+678 123 456 78",
		CompanyName:    "Cool Startup LLC",
		SalesContactID: salesContactID,
	}
	f.clients.byID[c.ID] = c
	return c
}

func (f *fixture) addContract(client model.Client, signed bool, remaining float64) model.Contract {
	c := model.Contract{
		ID:              uuid.New(),
		ClientID:        client.ID,
		SalesContactID:  client.SalesContactID,
		TotalAmount:     1000,
		RemainingAmount: remaining,
		Signed:          signed,
	}
	f.contracts.byID[c.ID] = c
	return c
}

func (f *fixture) addEvent(contract model.Contract, supportContactID *uuid.UUID) model.Event {
	e := model.Event{
		ID:               uuid.New(),
		ContractID:       contract.ID,
		Name:             "Annual gala",
		Attendees:        120,
		StartAt:          time.Date(2026, 9, 10, 18, 0, 0, 0, time.UTC),
		EndAt:            time.Date(2026, 9, 10, 23, 0, 0, 0, time.UTC),
		Location:         "Paris",
		SupportContactID: supportContactID,
	}
	f.events.byID[e.ID] = e
	return e
}

func principalOf(e model.Employee) model.Principal {
	return model.Principal{EmployeeID: e.ID, FullName: e.FullName, Role: e.Role}
}
