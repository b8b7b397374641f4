package pipeline

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/receipt-bot/internal/logger"
	"github.com/dvloznov/receipt-bot/internal/receipt"
)

type mockExtractor struct {
	rec   receipt.Record
	err   error
	calls int
}

func (m *mockExtractor) Extract(ctx context.Context, image []byte, mimeType string) (receipt.Record, error) {
	m.calls++
	return m.rec, m.err
}

type mockSink struct {
	rows  [][]interface{}
	err   error
	calls int
}

func (m *mockSink) Append(ctx context.Context, row []interface{}) error {
	m.calls++
	if m.err != nil {
		return m.err
	}
	m.rows = append(m.rows, row)
	return nil
}

func newTestProcessor(ext ImageExtractor, sink RowSink) *Processor {
	return New(ext, sink, logger.NewWithWriter(io.Discard))
}

func TestProcess_ImageEvent(t *testing.T) {
	ext := &mockExtractor{rec: receipt.Record{Store: "Mega Mart", TotalAmount: "12.50"}}
	sink := &mockSink{}
	p := newTestProcessor(ext, sink)

	ts := time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)
	res, err := p.Process(context.Background(), Event{ID: "ev1", ImageBytes: []byte{0xFF}, MimeType: "image/jpeg", Timestamp: ts})

	require.NoError(t, err)
	assert.True(t, res.Saved)
	assert.NoError(t, res.SaveErr)
	assert.Equal(t, "Mega Mart", res.Record.Store)
	assert.Equal(t, receipt.Unknown, res.Record.Currency, "missing fields are normalized")

	require.Len(t, sink.rows, 1)
	row := sink.rows[0]
	require.Len(t, row, len(receipt.Header))
	assert.Equal(t, "Mega Mart", row[1])
	assert.Equal(t, "2024-03-02 10:00:00", row[len(row)-1])
}

func TestProcess_ExtractionFailureSkipsSink(t *testing.T) {
	ext := &mockExtractor{err: errors.New("provider unreachable")}
	sink := &mockSink{}
	p := newTestProcessor(ext, sink)

	res, err := p.Process(context.Background(), Event{ImageBytes: []byte{1}})

	require.Error(t, err)
	assert.Nil(t, res)
	assert.Equal(t, 0, sink.calls, "extraction failure must short-circuit before any sink access")
}

func TestProcess_TextEvent(t *testing.T) {
	sink := &mockSink{}
	p := newTestProcessor(nil, sink)

	res, err := p.Process(context.Background(), Event{
		Text:      "Corner Shop\nBread 3.50\nTotal 4.00",
		Timestamp: time.Now(),
	})

	require.NoError(t, err)
	assert.True(t, res.Saved)
	assert.Equal(t, "Corner Shop", res.Record.Store)
	assert.Equal(t, "4.00", res.Record.TotalAmount)
	assert.Equal(t, "Bread 3.50", res.Record.Items)
}

func TestProcess_ImageWithoutExtractor(t *testing.T) {
	p := newTestProcessor(nil, &mockSink{})

	res, err := p.Process(context.Background(), Event{ImageBytes: []byte{1}})

	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrNoExtractor)
}

func TestProcess_SinkNotConfigured(t *testing.T) {
	ext := &mockExtractor{rec: receipt.Record{Store: "X"}}
	p := newTestProcessor(ext, nil)

	res, err := p.Process(context.Background(), Event{ImageBytes: []byte{1}})

	require.NoError(t, err, "a missing sink is reported inside the result, not as a failure")
	assert.False(t, res.Saved)
	assert.ErrorIs(t, res.SaveErr, ErrSinkNotConfigured)
	assert.Equal(t, "X", res.Record.Store, "the extracted record is still delivered")
}

func TestProcess_AppendFailureStillReturnsRecord(t *testing.T) {
	ext := &mockExtractor{rec: receipt.Record{Store: "X"}}
	sink := &mockSink{err: errors.New("503 backend error")}
	p := newTestProcessor(ext, sink)

	res, err := p.Process(context.Background(), Event{ImageBytes: []byte{1}})

	require.NoError(t, err)
	assert.False(t, res.Saved)
	require.Error(t, res.SaveErr)
	assert.Equal(t, "X", res.Record.Store)
	assert.Equal(t, 1, sink.calls, "append is attempted exactly once, never retried")
}
