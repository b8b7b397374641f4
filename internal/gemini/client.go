package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/dvloznov/receipt-bot/internal/logger"
	"github.com/dvloznov/receipt-bot/internal/receipt"
)

// Extractor asks Gemini to describe a receipt image as a fixed-shape JSON
// object and decodes the answer, repairing or falling back as needed. One
// extractor is shared for the process lifetime.
type Extractor struct {
	client          *genai.Client
	model           string
	defaultCurrency string
}

func NewExtractor(ctx context.Context, apiKey, model, defaultCurrency string) (*Extractor, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &Extractor{
		client:          client,
		model:           model,
		defaultCurrency: defaultCurrency,
	}, nil
}

// Extract sends the image to the model and returns the decoded record. It
// returns a *ProviderError when the provider itself failed (auth, quota,
// network); a weak or malformed answer is repaired locally and is not an
// error.
func (e *Extractor) Extract(ctx context.Context, image []byte, mimeType string) (receipt.Record, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: buildPrompt(e.defaultCurrency)},
				{
					InlineData: &genai.Blob{
						MIMEType: mimeType,
						Data:     image,
					},
				},
			},
		},
	}

	resp, err := e.client.Models.GenerateContent(ctx, e.model, contents, nil)
	if err != nil {
		return receipt.Record{}, newProviderError(err)
	}

	raw := resp.Text()
	if raw == "" {
		return receipt.Record{}, newProviderError(fmt.Errorf("empty response from model"))
	}

	rec := DecodeResponse(raw, e.defaultCurrency)
	log := logger.FromContext(ctx)
	log.Debug().
		Str("model", e.model).
		Str("store", rec.Store).
		Str("total", rec.TotalAmount).
		Msg("decoded model response")
	return rec, nil
}
