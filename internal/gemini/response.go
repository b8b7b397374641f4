package gemini

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/dvloznov/receipt-bot/internal/extract"
	"github.com/dvloznov/receipt-bot/internal/receipt"
)

// DecodeResponse turns raw model output into a record. The provider answers
// in one of two shapes: a direct JSON object, or prose that may wrap JSON in
// a Markdown fence. If no JSON can be recovered at all, the prose rule set
// runs over the raw text instead, so decoding never fails outright.
func DecodeResponse(raw, defaultCurrency string) receipt.Record {
	clean := stripFences(raw)

	var m map[string]interface{}
	if err := json.Unmarshal([]byte(clean), &m); err != nil {
		return extract.Prose(raw, defaultCurrency)
	}
	return recordFromMap(m)
}

// recordFromMap maps the six expected keys onto a record. Keys that are
// missing, null, or empty are filled with the Unknown sentinel; keys that did
// parse are kept as-is, numbers coerced to strings.
func recordFromMap(m map[string]interface{}) receipt.Record {
	return receipt.Record{
		Date:            stringField(m, "date"),
		Store:           stringField(m, "store"),
		TotalAmount:     stringField(m, "total_amount"),
		Currency:        stringField(m, "currency"),
		TransactionType: stringField(m, "transaction_type"),
		Items:           stringField(m, "items"),
	}
}

func stringField(m map[string]interface{}, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return receipt.Unknown
	}
	switch val := v.(type) {
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return receipt.Unknown
		}
		return s
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return receipt.Unknown
	}
}

// stripFences cleans up Markdown fences and surrounding chatter if the model
// ignored the raw-JSON instruction.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)

	// Handle ```json ... ``` or ``` ... ``` wrappers.
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	// If there is still junk around the JSON object, keep only from the
	// first '{' to the last '}'.
	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
