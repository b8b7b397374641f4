package extract

import (
	"strings"
	"testing"
)

func TestFromText_Totality(t *testing.T) {
	// Any input, including degenerate ones, must yield a record without
	// panicking; unmatched fields stay empty.
	for _, in := range []string{"", "\n\n\n", "   ", "no numbers here", "????"} {
		rec := FromText(in)
		if rec.Date != "" || rec.TotalAmount != "" || rec.Items != "" {
			t.Errorf("FromText(%q) should leave unmatched fields empty, got %+v", in, rec)
		}
	}
}

func TestFromText_TotalPrecedence(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "labeled total beats earlier subtotal",
			text: "Subtotal 10.00\nTotal 12.50",
			want: "12.50",
		},
		{
			name: "amount label",
			text: "Amount due 99.99",
			want: "99.99",
		},
		{
			name: "balance label",
			text: "Balance: 5.25",
			want: "5.25",
		},
		{
			name: "trailing label",
			text: "12.00 total",
			want: "12.00",
		},
		{
			name: "bare trailing number only as last resort",
			text: "Line one\nSomething 7.77",
			want: "7.77",
		},
		{
			name: "labeled total anywhere beats bare number on earlier line",
			text: "Item 3.00\nTotal 9.00",
			want: "9.00",
		},
		{
			name: "no total",
			text: "just words",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := FromText(tt.text)
			if rec.TotalAmount != tt.want {
				t.Errorf("TotalAmount = %q, want %q", rec.TotalAmount, tt.want)
			}
		})
	}
}

func TestFromText_Dates(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Store\n12/31/2023\nTotal 5.00", "12/31/2023"},
		{"Store\n12-31-23", "12-31-23"},
		{"Store\n31.12.2023", "31.12.2023"},
		{"first 1/2/24\nsecond 3/4/24", "1/2/24"},
		{"no date here", ""},
	}
	for _, tt := range tests {
		rec := FromText(tt.text)
		if rec.Date != tt.want {
			t.Errorf("FromText(%q).Date = %q, want %q", tt.text, rec.Date, tt.want)
		}
	}
}

func TestFromText_ItemExclusion(t *testing.T) {
	text := "Bread 3.50\nTax 0.50\nTotal 4.00"
	rec := FromText(text)
	if rec.Items != "Bread 3.50" {
		t.Errorf("Items = %q, want %q", rec.Items, "Bread 3.50")
	}
}

func TestFromText_ItemLimits(t *testing.T) {
	lines := []string{
		"Apples 1.00",
		"Bananas 2.00",
		"Cherries 3.00",
		"Dates 4.00",
		"Eggs 5.00",
		"Flour 6.00",
	}
	rec := FromText(strings.Join(lines, "\n"))
	if strings.Contains(rec.Items, "Flour") {
		t.Errorf("Items should be capped at 5 entries, got %q", rec.Items)
	}
	if got := strings.Count(rec.Items, ";"); got != 4 {
		t.Errorf("expected 4 separators, got %d in %q", got, rec.Items)
	}
}

func TestFromText_Store(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"first line", "Mega Mart\nTotal 3.00", "Mega Mart"},
		{"skips leading blank lines", "\n\n  Corner Shop\nstuff", "Corner Shop"},
		{"truncated to 50 chars", strings.Repeat("A", 60), strings.Repeat("A", 50)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := FromText(tt.text)
			if rec.Store != tt.want {
				t.Errorf("Store = %q, want %q", rec.Store, tt.want)
			}
		})
	}
}

func TestIsItemLine(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"Bread 3.50", true},
		{"Subtotal 10.00", false},
		{"TAX 0.50", false},
		{"Total amount 4.00", false},
		{"Bananas", false},
	}
	for _, tt := range tests {
		if got := isItemLine(tt.line); got != tt.want {
			t.Errorf("isItemLine(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}
