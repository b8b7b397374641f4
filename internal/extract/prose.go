package extract

import (
	"regexp"
	"strings"

	"github.com/dvloznov/receipt-bot/internal/receipt"
)

// The prose rules are deliberately looser than the receipt-line rules: they
// run over a model's natural-language description of a transaction, not over
// receipt layout, so they lean on lexical cues (currency symbols and words,
// payment-provider names, transfer-vs-purchase verbs) instead of line shape.

type currencyCue struct {
	cue  string
	code string
}

// Ordered so matching is deterministic when several cues appear.
var currencySymbols = []currencyCue{
	{"₦", "NGN"},
	{"$", "USD"},
	{"€", "EUR"},
	{"£", "GBP"},
}

var currencyWords = []currencyCue{
	{"naira", "NGN"},
	{"ngn", "NGN"},
	{"dollars", "USD"},
	{"dollar", "USD"},
	{"usd", "USD"},
	{"euros", "EUR"},
	{"euro", "EUR"},
	{"eur", "EUR"},
	{"pounds", "GBP"},
	{"pound", "GBP"},
	{"gbp", "GBP"},
	{"cedis", "GHS"},
	{"cedi", "GHS"},
	{"shillings", "KES"},
	{"shilling", "KES"},
}

// paymentProviders are regional payment services whose presence both names
// the merchant and hints at the deployment's default currency.
var paymentProviders = []string{
	"OPay", "PalmPay", "Moniepoint", "Kuda", "Paystack", "Flutterwave", "GTBank", "Chipper",
}

var transferWords = []string{"transfer", "sent", "received", "wired"}
var purchaseWords = []string{"purchase", "purchased", "bought", "paid", "pos", "order"}

var (
	proseISODate   = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	proseSlashDate = regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`)

	// Amounts in prose routinely carry thousands separators; the symbol- or
	// label-adjacent forms are preferred over a bare number.
	symbolAmount  = regexp.MustCompile(`[₦$€£]\s*([\d,]+(?:\.\d{1,2})?)`)
	labeledAmount = regexp.MustCompile(`(?i)(?:sent|paid|amount|total|received|of|for)\s+(?:[₦$€£]\s*)?([\d,]+(?:\.\d{1,2})?)`)
	bareAmount    = regexp.MustCompile(`([\d,]+\.\d{2})`)
)

// Prose derives a best-effort record from free text using lexical cues.
// defaultCurrency is the locale bias: it is used only when no currency is
// stated outright but a regional cue (naira symbol, regional provider) is
// present.
func Prose(text, defaultCurrency string) receipt.Record {
	rec := receipt.Record{
		Date:            receipt.Unknown,
		Store:           receipt.Unknown,
		TotalAmount:     receipt.Unknown,
		Currency:        receipt.Unknown,
		TransactionType: receipt.Unknown,
		Items:           receipt.Unknown,
	}
	lower := strings.ToLower(text)

	if m := proseISODate.FindString(text); m != "" {
		rec.Date = m
	} else if m := proseSlashDate.FindString(text); m != "" {
		rec.Date = m
	}

	if m := symbolAmount.FindStringSubmatch(text); m != nil {
		rec.TotalAmount = strings.ReplaceAll(m[1], ",", "")
	} else if m := labeledAmount.FindStringSubmatch(text); m != nil {
		rec.TotalAmount = strings.ReplaceAll(m[1], ",", "")
	} else if m := bareAmount.FindStringSubmatch(text); m != nil {
		rec.TotalAmount = strings.ReplaceAll(m[1], ",", "")
	}

	regionalCue := false
	for _, c := range currencySymbols {
		if strings.Contains(text, c.cue) {
			rec.Currency = c.code
			break
		}
	}
	if rec.Currency == receipt.Unknown {
		for _, c := range currencyWords {
			if containsWord(lower, c.cue) {
				rec.Currency = c.code
				break
			}
		}
	}

	for _, p := range paymentProviders {
		if containsWord(lower, strings.ToLower(p)) {
			rec.Store = p
			regionalCue = true
			break
		}
	}
	if rec.Currency == receipt.Unknown && regionalCue && defaultCurrency != "" {
		rec.Currency = defaultCurrency
	}

	for _, w := range transferWords {
		if containsWord(lower, w) {
			rec.TransactionType = "Transfer"
			break
		}
	}
	if rec.TransactionType == receipt.Unknown {
		for _, w := range purchaseWords {
			if containsWord(lower, w) {
				rec.TransactionType = "Purchase"
				break
			}
		}
	}

	return rec
}

func containsWord(haystack, word string) bool {
	idx := 0
	for {
		i := strings.Index(haystack[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		beforeOK := start == 0 || !isWordChar(haystack[start-1])
		afterOK := end == len(haystack) || !isWordChar(haystack[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
