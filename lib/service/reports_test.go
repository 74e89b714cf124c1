package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarizeTrialBalanceBalanced(t *testing.T) {
	rows := []TrialBalanceRow{
		{Code: "1000", Debit: dec("500.00"), Credit: dec("100.00")},
		{Code: "4000", Debit: dec("0"), Credit: dec("400.00")},
	}

	report := summarizeTrialBalance(rows)
	assert.True(t, report.TotalDebit.Equal(dec("500.00")))
	assert.True(t, report.TotalCredit.Equal(dec("500.00")))
	assert.True(t, report.Balanced)
}

func TestSummarizeTrialBalanceDetectsDrift(t *testing.T) {
	rows := []TrialBalanceRow{
		{Code: "1000", Debit: dec("500.00")},
		{Code: "4000", Credit: dec("499.99")},
	}

	report := summarizeTrialBalance(rows)
	assert.False(t, report.Balanced)
}

func TestSummarizeTrialBalanceEmpty(t *testing.T) {
	report := summarizeTrialBalance(nil)
	assert.True(t, report.Balanced)
	assert.True(t, report.TotalDebit.IsZero())
}

func TestRunningBalances(t *testing.T) {
	lines := []LedgerLine{
		{Debit: dec("100.00")},
		{Credit: dec("30.00")},
		{Debit: dec("5.50")},
	}

	lines = runningBalances(dec("10.00"), lines)
	assert.True(t, lines[0].Balance.Equal(dec("110.00")))
	assert.True(t, lines[1].Balance.Equal(dec("80.00")))
	assert.True(t, lines[2].Balance.Equal(dec("85.50")))
}

func TestRunningBalancesEmpty(t *testing.T) {
	assert.Empty(t, runningBalances(dec("42.00"), nil))
}
