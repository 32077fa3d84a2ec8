package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devogs/epic-events-crm/internal/authz"
	"github.com/devogs/epic-events-crm/internal/model"
)

func TestCreateContract(t *testing.T) {
	f := newFixture()
	admin := f.addEmployee(t, model.RoleManagement, "admin@epicevents.com")
	sales := f.addEmployee(t, model.RoleSales, "sales@epicevents.com")
	client := f.addClient(sales.ID)
	ctx := context.Background()

	created, err := f.svc.CreateContract(ctx, principalOf(admin), CreateContractInput{
		ClientID:        client.ID,
		TotalAmount:     5000,
		RemainingAmount: 5000,
	})
	require.NoError(t, err)
	assert.Equal(t, sales.ID, created.SalesContactID)
	assert.False(t, created.Signed)

	_, err = f.svc.CreateContract(ctx, principalOf(admin), CreateContractInput{
		ClientID: uuid.New(), TotalAmount: 5000, RemainingAmount: 5000,
	})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.CreateContract(ctx, principalOf(sales), CreateContractInput{
		ClientID: client.ID, TotalAmount: 5000, RemainingAmount: 5000,
	})
	var denial *authz.Denial
	require.True(t, errors.As(err, &denial))
	assert.Equal(t, authz.ReasonRoleForbidden, denial.Reason)
}

func TestListContractsFilters(t *testing.T) {
	f := newFixture()
	admin := f.addEmployee(t, model.RoleManagement, "admin@epicevents.com")
	sales := f.addEmployee(t, model.RoleSales, "sales@epicevents.com")
	client := f.addClient(sales.ID)
	f.addContract(client, true, 0)
	unpaid := f.addContract(client, true, 300)
	unsigned := f.addContract(client, false, 1000)
	ctx := context.Background()

	contracts, err := f.svc.ListContracts(ctx, principalOf(admin), authz.ContractFilter{Unpaid: true})
	require.NoError(t, err)
	require.Len(t, contracts, 2)

	signed := false
	contracts, err = f.svc.ListContracts(ctx, principalOf(admin), authz.ContractFilter{Signed: &signed})
	require.NoError(t, err)
	require.Len(t, contracts, 1)
	assert.Equal(t, unsigned.ID, contracts[0].ID)

	isSigned := true
	contracts, err = f.svc.ListContracts(ctx, principalOf(admin), authz.ContractFilter{Signed: &isSigned, Unpaid: true})
	require.NoError(t, err)
	require.Len(t, contracts, 1)
	assert.Equal(t, unpaid.ID, contracts[0].ID)
}

func TestUpdateContractPaymentFlow(t *testing.T) {
	f := newFixture()
	sales := f.addEmployee(t, model.RoleSales, "sales@epicevents.com")
	client := f.addClient(sales.ID)
	contract := f.addContract(client, false, 500)
	ctx := context.Background()
	p := principalOf(sales)

	remaining := 200.0
	updated, err := f.svc.UpdateContract(ctx, p, contract.ID, model.ContractChangeSet{RemainingAmount: &remaining})
	require.NoError(t, err)
	assert.Equal(t, 200.0, updated.RemainingAmount)
	assert.Equal(t, 200.0, f.contracts.byID[contract.ID].RemainingAmount)

	// Increasing the remaining amount is refused and nothing is written.
	increase := 400.0
	_, err = f.svc.UpdateContract(ctx, p, contract.ID, model.ContractChangeSet{RemainingAmount: &increase})
	var denial *authz.Denial
	require.True(t, errors.As(err, &denial))
	assert.Equal(t, authz.ReasonFieldRestricted, denial.Reason)
	assert.Equal(t, 200.0, f.contracts.byID[contract.ID].RemainingAmount)

	signed := true
	updated, err = f.svc.UpdateContract(ctx, p, contract.ID, model.ContractChangeSet{Signed: &signed})
	require.NoError(t, err)
	assert.True(t, updated.Signed)
}

func TestUpdateContractNotFound(t *testing.T) {
	f := newFixture()
	admin := f.addEmployee(t, model.RoleManagement, "admin@epicevents.com")

	signed := true
	_, err := f.svc.UpdateContract(context.Background(), principalOf(admin), uuid.New(), model.ContractChangeSet{Signed: &signed})
	assert.ErrorIs(t, err, ErrNotFound)
}
