package extract

import (
	"strings"

	"github.com/dvloznov/receipt-bot/internal/receipt"
)

const (
	maxStoreLen = 50
	maxItems    = 5
	maxItemsLen = 200
)

// FromText derives a receipt record from raw receipt text (OCR output or a
// pasted message). It is a total function: any input, including the empty
// string, yields a record; fields without a match stay empty and are
// normalized to the Unknown sentinel at assembly time.
func FromText(text string) receipt.Record {
	lines := strings.Split(text, "\n")

	var rec receipt.Record

	// The store name is assumed to sit at the top of the receipt. A
	// heuristic, not a guarantee.
	for _, line := range lines {
		if s := strings.TrimSpace(line); s != "" {
			rec.Store = truncate(s, maxStoreLen)
			break
		}
	}

	rec.Date = dateRules.extract(lines)
	rec.TotalAmount = totalRules.extract(lines)

	var items []string
	for _, line := range lines {
		if isItemLine(line) {
			items = append(items, strings.TrimSpace(line))
			if len(items) == maxItems {
				break
			}
		}
	}
	rec.Items = truncate(strings.Join(items, "; "), maxItemsLen)

	return rec
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
