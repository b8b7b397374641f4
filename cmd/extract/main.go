// Command extract runs the extraction pipeline over a local file and prints
// the resulting record as JSON. Useful for checking extraction quality
// without a Telegram bot or a spreadsheet.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/dvloznov/receipt-bot/internal/config"
	"github.com/dvloznov/receipt-bot/internal/extract"
	"github.com/dvloznov/receipt-bot/internal/gemini"
	"github.com/dvloznov/receipt-bot/internal/logger"
	"github.com/dvloznov/receipt-bot/internal/receipt"
)

func main() {
	var (
		imagePath = flag.String("image", "", "receipt image to extract with the model")
		textPath  = flag.String("text", "", "receipt text file to extract heuristically")
	)
	flag.Parse()

	log := logger.New()
	cfg := config.Load()
	ctx := context.Background()

	var rec receipt.Record
	switch {
	case *imagePath != "":
		if cfg.GeminiAPIKey == "" {
			log.Fatal().Msg("GEMINI_API_KEY is not set")
		}
		data, err := os.ReadFile(*imagePath)
		if err != nil {
			log.Fatal().Err(err).Msg("reading image")
		}
		ext, err := gemini.NewExtractor(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.DefaultCurrency)
		if err != nil {
			log.Fatal().Err(err).Msg("creating extractor")
		}
		mimeType := mime.TypeByExtension(filepath.Ext(*imagePath))
		if mimeType == "" {
			mimeType = "image/jpeg"
		}
		rec, err = ext.Extract(ctx, data, mimeType)
		if err != nil {
			log.Fatal().Err(err).Msg("extraction failed")
		}
	case *textPath != "":
		data, err := os.ReadFile(*textPath)
		if err != nil {
			log.Fatal().Err(err).Msg("reading text")
		}
		rec = extract.FromText(string(data))
	default:
		fmt.Fprintln(os.Stderr, "usage: extract -image receipt.jpg | -text receipt.txt")
		os.Exit(1)
	}

	out, err := json.MarshalIndent(rec.FillMissing(), "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("encoding record")
	}
	fmt.Println(string(out))
}
