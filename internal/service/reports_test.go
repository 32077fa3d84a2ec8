package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devogs/epic-events-crm/internal/authz"
	"github.com/devogs/epic-events-crm/internal/model"
)

func TestExportContractBookScopedForSales(t *testing.T) {
	f := newFixture()
	sales := f.addEmployee(t, model.RoleSales, "sales@epicevents.com")
	other := f.addEmployee(t, model.RoleSales, "other@epicevents.com")
	f.addContract(f.addClient(sales.ID), true, 0)
	f.addContract(f.addClient(other.ID), true, 0)

	result, err := f.svc.ExportContractBook(context.Background(), principalOf(sales), authz.ContractFilter{})
	require.NoError(t, err)
	assert.Equal(t, "contracts-"+time.Now().Format("20060102")+".xlsx", result.FileName)
	assert.NotEmpty(t, result.Content)
}

func TestExportEventSheet(t *testing.T) {
	f := newFixture()
	sales := f.addEmployee(t, model.RoleSales, "sales@epicevents.com")
	support := f.addEmployee(t, model.RoleSupport, "support@epicevents.com")
	contract := f.addContract(f.addClient(sales.ID), true, 0)
	event := f.addEvent(contract, &support.ID)

	result, err := f.svc.ExportEventSheet(context.Background(), principalOf(sales), event.ID)
	require.NoError(t, err)
	assert.Equal(t, "event-"+event.ID.String()+".pdf", result.FileName)
	assert.NotEmpty(t, result.Content)
}

func TestExportEventSheetDeniedForNonOwnerSales(t *testing.T) {
	f := newFixture()
	owner := f.addEmployee(t, model.RoleSales, "owner@epicevents.com")
	intruder := f.addEmployee(t, model.RoleSales, "intruder@epicevents.com")
	contract := f.addContract(f.addClient(owner.ID), true, 0)
	event := f.addEvent(contract, nil)

	_, err := f.svc.ExportEventSheet(context.Background(), principalOf(intruder), event.ID)
	var denial *authz.Denial
	require.True(t, errors.As(err, &denial))
	assert.Equal(t, authz.ReasonNotOwner, denial.Reason)
}
