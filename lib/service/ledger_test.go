package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestValidateLinesBalanced(t *testing.T) {
	lines := []LineParams{
		{AccountID: 1, Debit: dec("100.00")},
		{AccountID: 2, Credit: dec("60.00")},
		{AccountID: 3, Credit: dec("40.00")},
	}
	totalDebit, totalCredit, err := validateLines(lines, "USD")
	assert.NoError(t, err)
	assert.True(t, totalDebit.Equal(dec("100.00")))
	assert.True(t, totalCredit.Equal(dec("100.00")))
}

func TestValidateLinesUnbalanced(t *testing.T) {
	lines := []LineParams{
		{AccountID: 1, Debit: dec("100.00")},
		{AccountID: 2, Credit: dec("99.99")},
	}
	_, _, err := validateLines(lines, "USD")
	assert.ErrorIs(t, err, ErrUnbalancedTransaction)
}

func TestValidateLinesRejectsTwoSidedLine(t *testing.T) {
	lines := []LineParams{
		{AccountID: 1, Debit: dec("50"), Credit: dec("50")},
		{AccountID: 2, Credit: dec("0")},
	}
	_, _, err := validateLines(lines, "USD")
	assert.ErrorIs(t, err, ErrInvalidLine)
}

func TestValidateLinesRejectsNegativeAmount(t *testing.T) {
	lines := []LineParams{
		{AccountID: 1, Debit: dec("-10")},
		{AccountID: 2, Credit: dec("-10")},
	}
	_, _, err := validateLines(lines, "USD")
	assert.ErrorIs(t, err, ErrInvalidLine)
}

func TestValidateLinesRejectsSubCentPrecision(t *testing.T) {
	lines := []LineParams{
		{AccountID: 1, Debit: dec("10.001")},
		{AccountID: 2, Credit: dec("10.001")},
	}
	_, _, err := validateLines(lines, "USD")
	assert.ErrorIs(t, err, ErrInvalidLine)
}

func TestValidateLinesRejectsUnknownCurrency(t *testing.T) {
	lines := []LineParams{
		{AccountID: 1, Debit: dec("10"), Currency: "ZZZ"},
		{AccountID: 2, Credit: dec("10"), Currency: "ZZZ"},
	}
	_, _, err := validateLines(lines, "USD")
	assert.ErrorIs(t, err, ErrInvalidCurrency)
}

func TestValidateLinesRejectsEmpty(t *testing.T) {
	_, _, err := validateLines([]LineParams{}, "USD")
	assert.ErrorIs(t, err, ErrInvalidLine)
}

func TestTwoDecimalPlaces(t *testing.T) {
	assert.True(t, twoDecimalPlaces(dec("10")))
	assert.True(t, twoDecimalPlaces(dec("10.5")))
	assert.True(t, twoDecimalPlaces(dec("10.55")))
	assert.False(t, twoDecimalPlaces(dec("10.555")))
	assert.False(t, twoDecimalPlaces(dec("0.001")))
}
