package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvoiceTotals(t *testing.T) {
	params := &InvoiceParams{
		Items: []InvoiceItemParams{
			{Description: "Research", Quantity: dec("2"), UnitPrice: dec("150.00")},
			{Description: "Filing fee", Quantity: dec("1"), UnitPrice: dec("75.50")},
		},
		Discount: dec("25.00"),
		Tax:      dec("70.00"),
	}

	subtotal, total, err := invoiceTotals(params)
	assert.NoError(t, err)
	assert.True(t, subtotal.Equal(dec("375.50")), "got %s", subtotal)
	assert.True(t, total.Equal(dec("420.50")), "got %s", total)
}

func TestInvoiceTotalsDefaultsQuantityToOne(t *testing.T) {
	params := &InvoiceParams{
		Items: []InvoiceItemParams{
			{Description: "Consultation", UnitPrice: dec("200.00")},
		},
	}

	subtotal, total, err := invoiceTotals(params)
	assert.NoError(t, err)
	assert.True(t, subtotal.Equal(dec("200.00")))
	assert.True(t, total.Equal(dec("200.00")))
	assert.True(t, params.Items[0].Quantity.Equal(dec("1")))
}

func TestInvoiceTotalsRejectsNegativeItem(t *testing.T) {
	params := &InvoiceParams{
		Items: []InvoiceItemParams{
			{Description: "Refund", Quantity: dec("1"), UnitPrice: dec("-10.00")},
		},
	}

	_, _, err := invoiceTotals(params)
	assert.ErrorIs(t, err, ErrInvalidLine)
}

func TestInvoiceTotalsRejectsNegativeTotal(t *testing.T) {
	params := &InvoiceParams{
		Items: []InvoiceItemParams{
			{Description: "Small fee", Quantity: dec("1"), UnitPrice: dec("10.00")},
		},
		Discount: dec("50.00"),
	}

	_, _, err := invoiceTotals(params)
	assert.ErrorIs(t, err, ErrInvalidLine)
}

func TestInvoiceTotalsRoundsLineAmounts(t *testing.T) {
	params := &InvoiceParams{
		Items: []InvoiceItemParams{
			{Description: "Hourly work", Quantity: dec("1.33"), UnitPrice: dec("99.99")},
		},
	}

	subtotal, _, err := invoiceTotals(params)
	assert.NoError(t, err)
	// 1.33 * 99.99 = 132.9867, rounded per line
	assert.True(t, subtotal.Equal(dec("132.99")), "got %s", subtotal)
}
