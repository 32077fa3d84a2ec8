package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/devogs/epic-events-crm/internal/auth"
	"github.com/devogs/epic-events-crm/internal/authz"
	"github.com/devogs/epic-events-crm/internal/config"
	"github.com/devogs/epic-events-crm/internal/model"
)

// Stores are the persistence collaborators. The service never persists
// anything the gate has not approved first.

type EmployeeStore interface {
	GetEmployee(ctx context.Context, id uuid.UUID) (*model.Employee, error)
	GetEmployeeByEmail(ctx context.Context, email string) (*model.Employee, error)
	ListEmployees(ctx context.Context) ([]model.Employee, error)
	CreateEmployee(ctx context.Context, employee model.Employee) (*model.Employee, error)
	UpdateEmployee(ctx context.Context, employee model.Employee) error
	DeleteEmployee(ctx context.Context, id uuid.UUID) error
	CountByRole(ctx context.Context, role model.Role) (int64, error)
}

type ClientStore interface {
	GetClient(ctx context.Context, id uuid.UUID) (*model.Client, error)
	ListClients(ctx context.Context, scope authz.ClientScope) ([]model.Client, error)
	CreateClient(ctx context.Context, client model.Client) (*model.Client, error)
	UpdateClient(ctx context.Context, client model.Client) error
}

type ContractStore interface {
	GetContract(ctx context.Context, id uuid.UUID) (*model.Contract, error)
	ListContracts(ctx context.Context, scope authz.ContractScope) ([]model.Contract, error)
	CreateContract(ctx context.Context, contract model.Contract) (*model.Contract, error)
	UpdateContract(ctx context.Context, contract model.Contract) error
}

type EventStore interface {
	GetEvent(ctx context.Context, id uuid.UUID) (*model.Event, error)
	ListEvents(ctx context.Context, scope authz.EventScope) ([]model.Event, error)
	CreateEvent(ctx context.Context, event model.Event) (*model.Event, error)
	UpdateEvent(ctx context.Context, event model.Event) error
}

type ContractBookGenerator interface {
	Generate(book model.ContractBook) ([]byte, error)
}

type EventSheetGenerator interface {
	Generate(sheet model.EventSheet) ([]byte, error)
}

type CRMService struct {
	gate       *authz.Gate
	employees  EmployeeStore
	clients    ClientStore
	contracts  ContractStore
	events     EventStore
	issuer     *auth.Issuer
	bcryptCost int
	book       ContractBookGenerator
	sheet      EventSheetGenerator
}

type Stores struct {
	Employees EmployeeStore
	Clients   ClientStore
	Contracts ContractStore
	Events    EventStore
}

func NewCRMService(gate *authz.Gate, stores Stores, issuer *auth.Issuer, book ContractBookGenerator, sheet EventSheetGenerator, cfg *config.Config) *CRMService {
	return &CRMService{
		gate:       gate,
		employees:  stores.Employees,
		clients:    stores.Clients,
		contracts:  stores.Contracts,
		events:     stores.Events,
		issuer:     issuer,
		bcryptCost: cfg.Auth.BcryptCost,
		book:       book,
		sheet:      sheet,
	}
}
