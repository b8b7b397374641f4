// Package config resolves all ambient settings once at startup into an
// explicit struct. No other component reads environment state directly.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/dvloznov/receipt-bot/internal/sheets"
)

// Config holds all application configuration.
type Config struct {
	// BotToken is the Telegram bot credential. Required.
	BotToken string

	// Gemini extraction provider. When APIKey is empty the bot runs
	// text-only on the heuristic extractor.
	GeminiAPIKey    string
	GeminiModel     string
	DefaultCurrency string

	// Target spreadsheet. Addressed by ID, not display name.
	SpreadsheetID   string
	SheetTab        string
	CredentialsJSON string
	CredentialPaths []string
	MaxInitRetries  int

	// Optional best-effort copies.
	ArchiveBucket string
	GCPProject    string
	MirrorDataset string
	MirrorTable   string
}

// Load reads configuration from the environment, with an optional .env file
// for local development.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		BotToken: getEnv("BOT_TOKEN", ""),

		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		DefaultCurrency: getEnv("DEFAULT_CURRENCY", "NGN"),

		SpreadsheetID:   getEnv("SPREADSHEET_ID", ""),
		SheetTab:        getEnv("SHEET_TAB", "Sheet1"),
		CredentialsJSON: getEnv("CREDENTIALS_JSON", ""),
		CredentialPaths: getEnvAsList("CREDENTIALS_FILE_PATHS", sheets.DefaultCredentialPaths),
		MaxInitRetries:  getEnvAsInt("SHEET_INIT_RETRIES", 3),

		ArchiveBucket: getEnv("ARCHIVE_BUCKET", ""),
		GCPProject:    getEnv("GCP_PROJECT", ""),
		MirrorDataset: getEnv("MIRROR_DATASET", ""),
		MirrorTable:   getEnv("MIRROR_TABLE", "receipts"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, p := range strings.Split(value, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
