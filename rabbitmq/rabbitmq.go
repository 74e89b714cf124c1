package rabbitmq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/firmbooks/firmbooks/db/models"
	"github.com/getsentry/sentry-go"
	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/ziflex/lecho/v3"
)

// bufPool is a classic buffer pool pattern that allows more clever reuse of heap memory.
// Instead of allocating new memory everytime we need to encode an event we
// reuse buffers from this pool. Under sequential publishing there will only be
// one buffer in the pool, but it scales with concurrent publishers.
var bufPool = sync.Pool{
	New: func() interface{} { return new(bytes.Buffer) },
}

const (
	contentTypeJSON = "application/json"
)

// Client publishes ledger events so downstream consumers (reporting,
// client notifications) can react without polling the database.
type Client interface {
	PublishInvoiceSettled(ctx context.Context, invoice *models.Invoice, payment *models.Payment) error
	PublishTrustTransaction(ctx context.Context, trustTx *models.TrustTransaction) error
	// Close will close all connections to rabbitmq
	Close() error
}

// InvoiceSettledEvent is the payload published when an invoice is paid.
type InvoiceSettledEvent struct {
	CompanyID     int64           `json:"company_id"`
	InvoiceID     int64           `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	ClientID      int64           `json:"client_id"`
	Gateway       string          `json:"gateway"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Reference     string          `json:"reference"`
	SettledAt     time.Time       `json:"settled_at"`
}

// TrustTransactionEvent is the payload published for every trust ledger movement.
type TrustTransactionEvent struct {
	CompanyID      int64           `json:"company_id"`
	TrustAccountID int64           `json:"trust_account_id"`
	InvoiceID      int64           `json:"invoice_id,omitempty"`
	Type           string          `json:"type"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

type DefaultClient struct {
	amqpClient AMQPClient

	logger *lecho.Logger

	ledgerExchange string
}

type ClientOption = func(client *DefaultClient)

func WithLedgerExchange(exchange string) ClientOption {
	return func(client *DefaultClient) {
		client.ledgerExchange = exchange
	}
}

func WithLogger(logger *lecho.Logger) ClientOption {
	return func(client *DefaultClient) {
		client.logger = logger
	}
}

// NewClient wraps an AMQP connection and declares the ledger event exchange.
func NewClient(amqpClient AMQPClient, options ...ClientOption) (Client, error) {
	client := &DefaultClient{
		amqpClient: amqpClient,

		logger: lecho.New(
			os.Stdout,
			lecho.WithLevel(log.DEBUG),
			lecho.WithTimestamp(),
		),

		ledgerExchange: "firmbooks_ledger",
	}

	for _, opt := range options {
		opt(client)
	}

	err := client.amqpClient.ExchangeDeclare(
		client.ledgerExchange,
		// topic exchange so consumers can bind to event subsets like
		// "invoice.settled.*" or "trust.#"
		"topic",
		// Durable and Non-Auto-Deleted exchanges will survive server restarts and remain
		// declared when there are no remaining bindings.
		true,
		false,
		// Non-Internal exchange's accept direct publishing
		false,
		// Nowait: We set this to false as we want to wait for a server response
		// to check whether the exchange was created succesfully
		false,
		nil,
	)
	if err != nil {
		return nil, err
	}

	return client, nil
}

func (client *DefaultClient) Close() error { return client.amqpClient.Close() }

func (client *DefaultClient) PublishInvoiceSettled(ctx context.Context, invoice *models.Invoice, payment *models.Payment) error {
	event := InvoiceSettledEvent{
		CompanyID:     invoice.CompanyID,
		InvoiceID:     invoice.ID,
		InvoiceNumber: invoice.Number,
		ClientID:      invoice.ClientID,
		Gateway:       payment.Gateway,
		Amount:        payment.Amount,
		Currency:      payment.Currency,
		Reference:     payment.Reference,
		SettledAt:     payment.CreatedAt,
	}

	key := fmt.Sprintf("invoice.settled.%s", strings.ToLower(payment.Gateway))

	err := client.publishToLedgerExchange(ctx, key, event)
	if err != nil {
		return err
	}

	client.logger.Debugf("Successfully published settlement event for invoice %s", invoice.Number)

	return nil
}

func (client *DefaultClient) PublishTrustTransaction(ctx context.Context, trustTx *models.TrustTransaction) error {
	event := TrustTransactionEvent{
		CompanyID:      trustTx.CompanyID,
		TrustAccountID: trustTx.TrustAccountID,
		InvoiceID:      trustTx.InvoiceID,
		Type:           trustTx.Type,
		Amount:         trustTx.Amount,
		Description:    trustTx.Description,
		CreatedAt:      trustTx.CreatedAt,
	}

	key := fmt.Sprintf("trust.%s", strings.ToLower(trustTx.Type))

	return client.publishToLedgerExchange(ctx, key, event)
}

func (client *DefaultClient) publishToLedgerExchange(ctx context.Context, key string, event interface{}) error {
	payload := bufPool.Get().(*bytes.Buffer)
	payload.Reset()
	defer bufPool.Put(payload)

	err := json.NewEncoder(payload).Encode(event)
	if err != nil {
		return err
	}

	err = client.amqpClient.PublishWithContext(ctx,
		client.ledgerExchange,
		key,
		false,
		false,
		amqp.Publishing{
			ContentType: contentTypeJSON,
			Body:        payload.Bytes(),
		},
	)
	if err != nil {
		captureErr(client.logger, err)
		return err
	}

	return nil
}

func captureErr(logger *lecho.Logger, err error) {
	logger.Error(err)
	sentry.CaptureException(err)
}
