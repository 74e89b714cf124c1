package rabbitmq_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/firmbooks/firmbooks/db/models"
	"github.com/firmbooks/firmbooks/rabbitmq"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeAMQPClient struct {
	exchanges []string
	published []published
}

func (f *fakeAMQPClient) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	f.published = append(f.published, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (f *fakeAMQPClient) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	f.exchanges = append(f.exchanges, name)
	return nil
}

func (f *fakeAMQPClient) Close() error { return nil }

func TestPublishInvoiceSettled(t *testing.T) {
	amqpClient := &fakeAMQPClient{}

	client, err := rabbitmq.NewClient(amqpClient, rabbitmq.WithLedgerExchange("test_ledger"))
	assert.NoError(t, err)
	assert.Equal(t, []string{"test_ledger"}, amqpClient.exchanges)

	invoice := &models.Invoice{
		ID:        7,
		CompanyID: 1,
		ClientID:  3,
		Number:    "INV-00007",
		Currency:  "USD",
	}
	payment := &models.Payment{
		InvoiceID: invoice.ID,
		Gateway:   "TRUST",
		Amount:    decimal.RequireFromString("150.00"),
		Currency:  "USD",
		Reference: "ref-1",
		CreatedAt: time.Now(),
	}

	err = client.PublishInvoiceSettled(context.Background(), invoice, payment)
	assert.NoError(t, err)

	assert.Len(t, amqpClient.published, 1)
	assert.Equal(t, "test_ledger", amqpClient.published[0].exchange)
	assert.Equal(t, "invoice.settled.trust", amqpClient.published[0].key)

	var event rabbitmq.InvoiceSettledEvent
	err = json.Unmarshal(amqpClient.published[0].msg.Body, &event)
	assert.NoError(t, err)
	assert.Equal(t, invoice.ID, event.InvoiceID)
	assert.Equal(t, "INV-00007", event.InvoiceNumber)
	assert.True(t, event.Amount.Equal(payment.Amount))
}

func TestPublishTrustTransaction(t *testing.T) {
	amqpClient := &fakeAMQPClient{}

	client, err := rabbitmq.NewClient(amqpClient)
	assert.NoError(t, err)

	trustTx := &models.TrustTransaction{
		CompanyID:      1,
		TrustAccountID: 4,
		Type:           "DEBIT",
		Amount:         decimal.RequireFromString("99.50"),
		Description:    "Settlement of invoice INV-00007",
	}

	err = client.PublishTrustTransaction(context.Background(), trustTx)
	assert.NoError(t, err)

	assert.Len(t, amqpClient.published, 1)
	assert.Equal(t, "firmbooks_ledger", amqpClient.published[0].exchange)
	assert.Equal(t, "trust.debit", amqpClient.published[0].key)

	var event rabbitmq.TrustTransactionEvent
	err = json.Unmarshal(amqpClient.published[0].msg.Body, &event)
	assert.NoError(t, err)
	assert.Equal(t, int64(4), event.TrustAccountID)
	assert.True(t, event.Amount.Equal(trustTx.Amount))
}
