package bot

import (
	"errors"
	"strings"
	"testing"

	"github.com/dvloznov/receipt-bot/internal/gemini"
	"github.com/dvloznov/receipt-bot/internal/pipeline"
	"github.com/dvloznov/receipt-bot/internal/receipt"
)

func TestFormatResult(t *testing.T) {
	tests := []struct {
		name     string
		res      *pipeline.Result
		contains []string
	}{
		{
			name: "saved",
			res: &pipeline.Result{
				Saved:  true,
				Record: receipt.Record{Store: "Mega Mart", Date: "2024-03-02", TotalAmount: "12.50", Currency: "NGN", TransactionType: "Purchase", Items: "Bread"},
			},
			contains: []string{"saved", "Mega Mart", "12.50 NGN", "Bread"},
		},
		{
			name: "extracted but not saved",
			res: &pipeline.Result{
				SaveErr: errors.New("503 backend error"),
				Record:  receipt.Record{Store: "Mega Mart"}.FillMissing(),
			},
			contains: []string{"saving to the spreadsheet failed", "Mega Mart", "Not found"},
		},
		{
			name: "sink not configured",
			res: &pipeline.Result{
				SaveErr: pipeline.ErrSinkNotConfigured,
				Record:  receipt.Record{}.FillMissing(),
			},
			contains: []string{"not configured", "Not found"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatResult(tt.res)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("formatResult() missing %q in:\n%s", want, got)
				}
			}
		})
	}
}

func TestFormatResult_OmitsUnknownCurrency(t *testing.T) {
	res := &pipeline.Result{Saved: true, Record: receipt.Record{TotalAmount: "12.50"}.FillMissing()}
	got := formatResult(res)
	if !strings.Contains(got, "Total: 12.50\n") {
		t.Errorf("undetermined currency should be omitted, got:\n%s", got)
	}
	if strings.Contains(got, receipt.Unknown) {
		t.Errorf("sentinel leaked into the reply:\n%s", got)
	}
}

func TestFormatResult_OmitsUnknownItems(t *testing.T) {
	res := &pipeline.Result{Saved: true, Record: receipt.Record{}.FillMissing()}
	if strings.Contains(formatResult(res), "Items:") {
		t.Error("unknown items should not be rendered")
	}
}

func TestFormatError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "quota",
			err:  &gemini.ProviderError{Category: gemini.CategoryQuota, Err: errors.New("429")},
			want: "quota or billing",
		},
		{
			name: "auth",
			err:  &gemini.ProviderError{Category: gemini.CategoryAuth, Err: errors.New("bad key")},
			want: "Check the API key",
		},
		{
			name: "no extractor",
			err:  pipeline.ErrNoExtractor,
			want: "not configured",
		},
		{
			name: "generic",
			err:  errors.New("boom"),
			want: "try again",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatError(tt.err); !strings.Contains(got, tt.want) {
				t.Errorf("formatError() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}
