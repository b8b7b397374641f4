package receipt

import (
	"time"
)

// Unknown is the sentinel stored for any field the extractors could not
// determine. Every field of a Record is always present; callers branch on
// sentinel-vs-real values, never on missing keys.
const Unknown = "Unknown"

// TimestampLayout is the ingestion timestamp format written to the sheet.
const TimestampLayout = "2006-01-02 15:04:05"

// Header is the expected first row of the tracking sheet, in column order.
var Header = []string{
	"Date",
	"Store/Merchant",
	"Total Amount",
	"Currency",
	"Transaction Type",
	"Items",
	"Timestamp",
}

// Record is the normalized output of receipt extraction. All fields are
// strings; empty string and Unknown both mean "not determined" (the text
// pipeline leaves fields empty, the model pipeline writes Unknown).
type Record struct {
	Date            string `json:"date"`
	Store           string `json:"store"`
	TotalAmount     string `json:"total_amount"`
	Currency        string `json:"currency"`
	TransactionType string `json:"transaction_type"`
	Items           string `json:"items"`
}

// FillMissing returns a copy of the record with every empty field replaced by
// the Unknown sentinel.
func (r Record) FillMissing() Record {
	for _, f := range []*string{&r.Date, &r.Store, &r.TotalAmount, &r.Currency, &r.TransactionType, &r.Items} {
		if *f == "" {
			*f = Unknown
		}
	}
	return r
}

// Assemble flattens a record plus the event timestamp into the fixed-order
// row matching Header. Empty fields are normalized to Unknown here so a
// defective upstream extractor can never produce a short or null-bearing row.
func Assemble(r Record, eventTime time.Time) []interface{} {
	r = r.FillMissing()
	return []interface{}{
		r.Date,
		r.Store,
		r.TotalAmount,
		r.Currency,
		r.TransactionType,
		r.Items,
		eventTime.Format(TimestampLayout),
	}
}
