package service

import (
	"testing"

	"github.com/firmbooks/firmbooks/db/models"
	"github.com/stretchr/testify/assert"
)

func trustAccount(id, projectID int64, balance string) models.TrustAccount {
	return models.TrustAccount{ID: id, ProjectID: projectID, Balance: dec(balance)}
}

func TestPlanTrustAllocationSpreadsOverAccounts(t *testing.T) {
	candidates := []models.TrustAccount{
		trustAccount(1, 0, "400.00"),
		trustAccount(2, 0, "600.00"),
	}

	allocations, err := planTrustAllocation(dec("1000.00"), 0, candidates)
	assert.NoError(t, err)
	assert.Len(t, allocations, 2)
	assert.Equal(t, int64(1), allocations[0].TrustAccountID)
	assert.True(t, allocations[0].Amount.Equal(dec("400.00")))
	assert.Equal(t, int64(2), allocations[1].TrustAccountID)
	assert.True(t, allocations[1].Amount.Equal(dec("600.00")))
}

func TestPlanTrustAllocationProjectFundsFirst(t *testing.T) {
	candidates := []models.TrustAccount{
		trustAccount(1, 0, "500.00"),
		trustAccount(2, 9, "300.00"),
	}

	allocations, err := planTrustAllocation(dec("400.00"), 9, candidates)
	assert.NoError(t, err)
	assert.Len(t, allocations, 2)
	// the project bucket drains first even though the client bucket has a lower id
	assert.Equal(t, int64(2), allocations[0].TrustAccountID)
	assert.True(t, allocations[0].Amount.Equal(dec("300.00")))
	assert.Equal(t, int64(1), allocations[1].TrustAccountID)
	assert.True(t, allocations[1].Amount.Equal(dec("100.00")))
}

func TestPlanTrustAllocationInsufficientFunds(t *testing.T) {
	candidates := []models.TrustAccount{
		trustAccount(1, 0, "250.00"),
	}

	_, err := planTrustAllocation(dec("400.00"), 0, candidates)
	assert.ErrorIs(t, err, ErrInsufficientTrust)
}

func TestPlanTrustAllocationNoCandidates(t *testing.T) {
	_, err := planTrustAllocation(dec("10.00"), 0, nil)
	assert.ErrorIs(t, err, ErrInsufficientTrust)
}

func TestPlanTrustAllocationSkipsEmptyAccounts(t *testing.T) {
	candidates := []models.TrustAccount{
		trustAccount(1, 0, "0.00"),
		trustAccount(2, 0, "50.00"),
	}

	allocations, err := planTrustAllocation(dec("50.00"), 0, candidates)
	assert.NoError(t, err)
	assert.Len(t, allocations, 1)
	assert.Equal(t, int64(2), allocations[0].TrustAccountID)
}

func TestPlanTrustAllocationStopsWhenCovered(t *testing.T) {
	candidates := []models.TrustAccount{
		trustAccount(1, 0, "500.00"),
		trustAccount(2, 0, "500.00"),
	}

	allocations, err := planTrustAllocation(dec("120.00"), 0, candidates)
	assert.NoError(t, err)
	assert.Len(t, allocations, 1)
	assert.True(t, allocations[0].Amount.Equal(dec("120.00")))
}
