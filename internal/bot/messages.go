package bot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dvloznov/receipt-bot/internal/gemini"
	"github.com/dvloznov/receipt-bot/internal/pipeline"
	"github.com/dvloznov/receipt-bot/internal/receipt"
)

const welcomeText = "\U0001F44B Welcome to Receipt Bot!\n\n" +
	"Send me a photo of your receipt and I'll extract the details " +
	"and save them to your spreadsheet.\n\n" +
	"You can also paste receipt text directly.\n\n" +
	"Just snap a clear photo and send it to me!"

const helpText = "\U0001F4D6 How to use Receipt Bot:\n\n" +
	"1. Take a clear photo of your receipt\n" +
	"2. Send the photo to this chat\n" +
	"3. I'll extract the details and save them\n\n" +
	"Tips for better results:\n" +
	"• Ensure good lighting\n" +
	"• Keep the receipt flat\n" +
	"• Avoid glare and shadows\n" +
	"• Capture the entire receipt"

const processingText = "\U0001F504 Processing your receipt..."

// formatResult renders the extracted record, annotating persistence problems
// so "saved", "read but not saved", and "service misconfigured" read
// differently to the user.
func formatResult(res *pipeline.Result) string {
	var b strings.Builder

	switch {
	case res.Saved:
		b.WriteString("✅ Receipt processed and saved!\n\n")
	case errors.Is(res.SaveErr, pipeline.ErrSinkNotConfigured):
		b.WriteString("⚠️ Receipt processed, but the spreadsheet is not configured — nothing was saved. Ask the operator to check the sheet settings.\n\n")
	default:
		b.WriteString("⚠️ Receipt processed, but saving to the spreadsheet failed — here is what I read:\n\n")
	}

	rec := res.Record
	fmt.Fprintf(&b, "\U0001F3EA Store: %s\n", orNotFound(rec.Store))
	fmt.Fprintf(&b, "\U0001F4C5 Date: %s\n", orNotFound(rec.Date))
	total := orNotFound(rec.TotalAmount)
	if rec.Currency != "" && rec.Currency != receipt.Unknown {
		total += " " + rec.Currency
	}
	fmt.Fprintf(&b, "\U0001F4B0 Total: %s\n", total)
	fmt.Fprintf(&b, "\U0001F504 Type: %s\n", orNotFound(rec.TransactionType))
	if rec.Items != receipt.Unknown && rec.Items != "" {
		fmt.Fprintf(&b, "\U0001F6CD Items: %s\n", rec.Items)
	}

	return b.String()
}

// formatError renders extraction failures. Provider-level failures keep their
// category hint so a quota problem and a bad key lead to different fixes.
func formatError(err error) string {
	var perr *gemini.ProviderError
	if errors.As(err, &perr) {
		switch perr.Category {
		case gemini.CategoryQuota:
			return "❌ The extraction service rejected the request: quota or billing problem.\n\n" + perr.Err.Error()
		case gemini.CategoryAuth:
			return "❌ The extraction service rejected the credentials. Check the API key.\n\n" + perr.Err.Error()
		default:
			return "❌ Sorry, I couldn't read your receipt — the extraction service failed.\n\n" + perr.Err.Error()
		}
	}
	if errors.Is(err, pipeline.ErrNoExtractor) {
		return "❌ Photo extraction is not configured for this bot. Paste the receipt text instead."
	}
	return "❌ Sorry, I couldn't process that receipt. Please try again with a clearer image."
}

func orNotFound(v string) string {
	if v == "" || v == receipt.Unknown {
		return "Not found"
	}
	return v
}
