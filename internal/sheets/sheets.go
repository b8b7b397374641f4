package sheets

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/dvloznov/receipt-bot/internal/receipt"
)

// ErrPermissionDenied means the service account is not allowed to touch the
// spreadsheet. Retrying cannot fix that, so initialization aborts on it.
var ErrPermissionDenied = errors.New("sheets: permission denied for spreadsheet")

// Config identifies the target spreadsheet. The spreadsheet is addressed by
// its stable ID, never by display name, so a rename cannot break the sink.
type Config struct {
	SpreadsheetID   string
	Tab             string
	CredentialsJSON string
	CredentialPaths []string
}

// Sink is the opened, authorized handle to one spreadsheet tab. It is created
// once at process start and shared for the process lifetime; the Sheets API
// provides its own append ordering, so no extra locking is needed here.
type Sink struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	tab           string
}

// Append writes one row after the current data. Failures are reported to the
// caller, never retried: a retry after a lost acknowledgement would risk a
// duplicate row.
func (s *Sink) Append(ctx context.Context, row []interface{}) error {
	vr := &sheetsapi.ValueRange{Values: [][]interface{}{row}}
	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, s.tab, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets: append row: %w", err)
	}
	return nil
}

// Initialize opens the sink, retrying transient failures with exponential
// backoff (2^attempt seconds, no wait after the last attempt). Missing
// credentials and permission errors abort immediately. Exhausting all
// attempts returns nil rather than an error: the process keeps serving degraded, and
// every persistence request reports a configuration error instead.
func Initialize(ctx context.Context, cfg Config, maxRetries int, log zerolog.Logger) *Sink {
	openCfg := func(ctx context.Context) (*Sink, error) { return open(ctx, cfg, log) }
	return initialize(ctx, openCfg, maxRetries, sleepBackoff, log)
}

type openFunc func(ctx context.Context) (*Sink, error)
type sleepFunc func(ctx context.Context, d time.Duration)

func initialize(ctx context.Context, open openFunc, maxRetries int, sleep sleepFunc, log zerolog.Logger) *Sink {
	for attempt := 0; attempt < maxRetries; attempt++ {
		sink, err := open(ctx)
		if err == nil {
			log.Info().Msg("sheet sink initialized")
			return sink
		}
		if errors.Is(err, ErrCredentialsNotFound) || errors.Is(err, ErrPermissionDenied) {
			log.Error().Err(err).Msg("sheet sink initialization aborted")
			return nil
		}
		log.Warn().Err(err).Int("attempt", attempt+1).Int("max", maxRetries).
			Msg("sheet sink initialization failed")
		if attempt < maxRetries-1 {
			sleep(ctx, time.Duration(math.Pow(2, float64(attempt)))*time.Second)
			if ctx.Err() != nil {
				log.Warn().Int("attempts", attempt+1).Msg("sheet sink initialization cancelled")
				return nil
			}
		}
	}
	log.Error().Int("attempts", maxRetries).Msg("sheet sink initialization exhausted retries")
	return nil
}

func sleepBackoff(ctx context.Context, d time.Duration) {
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}

// open performs one full initialization attempt: resolve credentials,
// authorize, open the spreadsheet tab, and ensure the header row exists.
func open(ctx context.Context, cfg Config, log zerolog.Logger) (*Sink, error) {
	creds, err := ResolveCredentials(cfg.CredentialsJSON, cfg.CredentialPaths, log)
	if err != nil {
		return nil, err
	}

	svc, err := sheetsapi.NewService(ctx,
		option.WithCredentialsJSON(creds),
		option.WithScopes(sheetsapi.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets: create service: %w", err)
	}

	sink := &Sink{svc: svc, spreadsheetID: cfg.SpreadsheetID, tab: cfg.Tab}
	if err := sink.ensureHeader(ctx); err != nil {
		return nil, err
	}
	return sink, nil
}

// ensureHeader appends the header row exactly once: the emptiness check is
// the idempotency guard, so re-initializing against the same sheet never
// duplicates headers.
func (s *Sink) ensureHeader(ctx context.Context) error {
	readRange := fmt.Sprintf("%s!A1:G1", s.tab)
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return classify(fmt.Errorf("sheets: read header range: %w", err))
	}
	if len(resp.Values) > 0 {
		return nil
	}

	header := make([]interface{}, len(receipt.Header))
	for i, h := range receipt.Header {
		header[i] = h
	}
	vr := &sheetsapi.ValueRange{Values: [][]interface{}{header}}
	_, err = s.svc.Spreadsheets.Values.Append(s.spreadsheetID, s.tab, vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return classify(fmt.Errorf("sheets: append header row: %w", err))
	}
	return nil
}

func classify(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && (gerr.Code == 401 || gerr.Code == 403) {
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}
	return err
}
