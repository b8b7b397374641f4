// Package pipeline turns one inbound receipt event into one extraction call
// and, on success, one append to the sheet. Extraction failure short-circuits
// before any sink access; a failed append still returns the extracted record,
// annotated as not saved, so extraction work is never wasted.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/receipt-bot/internal/archive"
	"github.com/dvloznov/receipt-bot/internal/extract"
	"github.com/dvloznov/receipt-bot/internal/mirror"
	"github.com/dvloznov/receipt-bot/internal/receipt"
)

// ErrSinkNotConfigured means startup could not open the sheet; the process
// keeps serving and every persistence attempt reports this instead.
var ErrSinkNotConfigured = errors.New("pipeline: sheet sink is not configured")

// ErrNoExtractor means a photo arrived but no extraction provider is
// configured for this deployment.
var ErrNoExtractor = errors.New("pipeline: no extraction provider configured")

// ImageExtractor is the structured-response extraction provider.
type ImageExtractor interface {
	Extract(ctx context.Context, image []byte, mimeType string) (receipt.Record, error)
}

// RowSink appends one fixed-order row to the durable store.
type RowSink interface {
	Append(ctx context.Context, row []interface{}) error
}

// Event is one inbound receipt: either image bytes from a photo message or
// raw text from a pasted receipt.
type Event struct {
	ID         string
	ImageBytes []byte
	MimeType   string
	Text       string
	Timestamp  time.Time
}

// Result carries the extracted record and whether it was persisted. SaveErr
// is set when the record was produced but could not be saved; the caller
// still renders the record in that case.
type Result struct {
	Record  receipt.Record
	Saved   bool
	SaveErr error
}

type Processor struct {
	extractor ImageExtractor
	sink      RowSink
	log       zerolog.Logger

	// Optional best-effort copies; failures are logged, never surfaced.
	Archive *archive.Store
	Mirror  *mirror.Mirror
}

func New(extractor ImageExtractor, sink RowSink, log zerolog.Logger) *Processor {
	return &Processor{
		extractor: extractor,
		sink:      sink,
		log:       log,
	}
}

// Process runs the whole flow for one event. It returns an error only for
// extraction failures (the caller renders "could not read your receipt");
// persistence problems are reported inside the Result instead.
func (p *Processor) Process(ctx context.Context, ev Event) (*Result, error) {
	var rec receipt.Record
	switch {
	case len(ev.ImageBytes) > 0:
		if p.extractor == nil {
			return nil, ErrNoExtractor
		}
		r, err := p.extractor.Extract(ctx, ev.ImageBytes, ev.MimeType)
		if err != nil {
			return nil, err
		}
		rec = r
	default:
		rec = extract.FromText(ev.Text)
	}

	res := &Result{Record: rec.FillMissing()}

	if p.sink == nil {
		res.SaveErr = ErrSinkNotConfigured
		return res, nil
	}

	row := receipt.Assemble(rec, ev.Timestamp)
	if err := p.sink.Append(ctx, row); err != nil {
		p.log.Warn().Err(err).Str("event_id", ev.ID).Msg("row append failed, returning unsaved record")
		res.SaveErr = fmt.Errorf("pipeline: append row: %w", err)
		return res, nil
	}
	res.Saved = true

	if p.Archive != nil && len(ev.ImageBytes) > 0 {
		if _, err := p.Archive.SavePhoto(ctx, ev.ImageBytes, ev.ID, ev.Timestamp); err != nil {
			p.log.Warn().Err(err).Str("event_id", ev.ID).Msg("photo archive failed")
		}
	}
	if p.Mirror != nil {
		if err := p.Mirror.Insert(ctx, rec, ev.ID, ev.Timestamp); err != nil {
			p.log.Warn().Err(err).Str("event_id", ev.ID).Msg("analytics mirror failed")
		}
	}

	return res, nil
}
