package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/devogs/epic-events-crm/internal/authz"
	"github.com/devogs/epic-events-crm/internal/model"
)

type ExportResult struct {
	FileName string
	Content  []byte
}

// ExportContractBook renders the contracts visible to the principal as
// a spreadsheet. The same read scope applies as for listing.
func (s *CRMService) ExportContractBook(ctx context.Context, p model.Principal, filter authz.ContractFilter) (*ExportResult, error) {
	contractScope, denial := s.gate.ScopeContracts(p, filter)
	if denial != nil {
		return nil, denial
	}
	clientScope, denial := s.gate.ScopeClients(p, authz.ClientFilter{})
	if denial != nil {
		return nil, denial
	}

	contracts, err := s.contracts.ListContracts(ctx, contractScope)
	if err != nil {
		return nil, err
	}
	clients, err := s.clients.ListClients(ctx, clientScope)
	if err != nil {
		return nil, err
	}

	clientsByID := make(map[uuid.UUID]model.Client, len(clients))
	for _, client := range clients {
		clientsByID[client.ID] = client
	}

	now := time.Now()
	book := model.ContractBook{
		GeneratedFor: p.FullName,
		GeneratedAt:  now,
		Rows:         make([]model.ContractBookRow, 0, len(contracts)),
	}
	for _, contract := range contracts {
		row := model.ContractBookRow{Contract: contract}
		if client, ok := clientsByID[contract.ClientID]; ok {
			row.ClientName = client.FullName
			row.CompanyName = client.CompanyName
		}
		book.Rows = append(book.Rows, row)
	}

	content, err := s.book.Generate(book)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		FileName: fmt.Sprintf("contracts-%s.xlsx", now.Format("20060102")),
		Content:  content,
	}, nil
}

// ExportEventSheet renders a printable one-pager for a single event.
func (s *CRMService) ExportEventSheet(ctx context.Context, p model.Principal, eventID uuid.UUID) (*ExportResult, error) {
	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	contract, err := s.contracts.GetContract(ctx, event.ContractID)
	if err != nil {
		return nil, err
	}
	if denial := s.gate.AuthorizeEventView(p, *event, *contract); denial != nil {
		return nil, denial
	}

	sheet := model.EventSheet{Event: *event, Contract: *contract}
	if client, err := s.clients.GetClient(ctx, contract.ClientID); err == nil {
		sheet.ClientName = client.FullName
	}
	if event.SupportContactID != nil {
		if support, err := s.employees.GetEmployee(ctx, *event.SupportContactID); err == nil {
			sheet.SupportName = support.FullName
		}
	}

	content, err := s.sheet.Generate(sheet)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		FileName: fmt.Sprintf("event-%s.pdf", event.ID),
		Content:  content,
	}, nil
}
