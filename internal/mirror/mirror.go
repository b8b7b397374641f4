// Package mirror streams every persisted receipt row into BigQuery so the
// sheet stays the source of truth for the user while analytics queries run
// against the warehouse copy. Like the photo archive, the mirror is
// best-effort and never fails the event.
package mirror

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"

	"github.com/dvloznov/receipt-bot/internal/receipt"
)

type receiptRow struct {
	EventID         string            `bigquery:"event_id"`
	ReceiptDate     bigquery.NullDate `bigquery:"receipt_date"`
	RawDate         string            `bigquery:"raw_date"`
	Store           string            `bigquery:"store"`
	TotalAmount     string            `bigquery:"total_amount"`
	Currency        string            `bigquery:"currency"`
	TransactionType string            `bigquery:"transaction_type"`
	Items           string            `bigquery:"items"`
	IngestedTS      time.Time         `bigquery:"ingested_ts"`
}

type Mirror struct {
	client  *bigquery.Client
	dataset string
	table   string
	log     zerolog.Logger
}

func New(ctx context.Context, projectID, dataset, table string, log zerolog.Logger) (*Mirror, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("mirror: create bigquery client: %w", err)
	}
	return &Mirror{client: client, dataset: dataset, table: table, log: log}, nil
}

// Insert streams one receipt row. RawDate always carries the extracted date
// token; ReceiptDate is only set when the token is a clean YYYY-MM-DD.
func (m *Mirror) Insert(ctx context.Context, rec receipt.Record, eventID string, ingested time.Time) error {
	rec = rec.FillMissing()

	row := &receiptRow{
		EventID:         eventID,
		RawDate:         rec.Date,
		Store:           rec.Store,
		TotalAmount:     rec.TotalAmount,
		Currency:        rec.Currency,
		TransactionType: rec.TransactionType,
		Items:           rec.Items,
		IngestedTS:      ingested,
	}
	if t, err := time.Parse("2006-01-02", rec.Date); err == nil {
		row.ReceiptDate = bigquery.NullDate{Date: civil.DateOf(t), Valid: true}
	}

	inserter := m.client.Dataset(m.dataset).Table(m.table).Inserter()
	if err := inserter.Put(ctx, row); err != nil {
		return fmt.Errorf("mirror: inserting row: %w", err)
	}
	m.log.Debug().Str("event_id", eventID).Msg("mirrored receipt row")
	return nil
}

func (m *Mirror) Close() error {
	return m.client.Close()
}
