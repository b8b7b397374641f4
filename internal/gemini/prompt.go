package gemini

import "fmt"

// buildPrompt constructs the extraction instructions. The model is pinned to
// a fixed six-key JSON object so the response can be decoded without any
// schema negotiation; defaultCurrency is the locale bias applied when the
// receipt shows regional cues but states no currency.
func buildPrompt(defaultCurrency string) string {
	prompt :=
		"You are a receipt extraction service.\n\n" +
			"Task:\n" +
			"- Read the attached receipt image.\n" +
			"- Output STRICT JSON only (no comments, no trailing commas, no extra text).\n" +
			"- Output a single JSON object with EXACTLY these string fields:\n\n" +
			"- \"date\": the receipt date, preferably \"YYYY-MM-DD\"\n" +
			"- \"store\": the store or merchant name\n" +
			"- \"total_amount\": the total as a plain number string, no currency symbols\n" +
			"- \"currency\": the ISO currency code, e.g. \"NGN\" or \"USD\"\n" +
			"- \"transaction_type\": \"Transfer\", \"Purchase\", or \"Unknown\"\n" +
			"- \"items\": purchased items joined with \"; \"\n\n"

	rules :=
		"Rules:\n" +
			"- Use the string \"Unknown\" for anything you cannot determine.\n" +
			"- Strip currency symbols and thousands separators from amounts.\n" +
			fmt.Sprintf("- If a ₦ symbol or a Nigerian payment provider (OPay, PalmPay, Moniepoint, Kuda) "+
				"appears and no other currency is stated, use %q.\n", defaultCurrency) +
			"Return ONLY valid raw JSON.\n" +
			"Do NOT wrap the response in code fences.\n" +
			"Do NOT use ```json or any Markdown.\n" +
			"Output must begin with \"{\" and end with \"}\".\n"

	return prompt + rules
}
