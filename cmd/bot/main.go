package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/dvloznov/receipt-bot/internal/archive"
	"github.com/dvloznov/receipt-bot/internal/bot"
	"github.com/dvloznov/receipt-bot/internal/config"
	"github.com/dvloznov/receipt-bot/internal/gemini"
	"github.com/dvloznov/receipt-bot/internal/logger"
	"github.com/dvloznov/receipt-bot/internal/mirror"
	"github.com/dvloznov/receipt-bot/internal/pipeline"
	"github.com/dvloznov/receipt-bot/internal/sheets"
)

func main() {
	log := logger.New()
	cfg := config.Load()

	if cfg.BotToken == "" {
		log.Fatal().Msg("BOT_TOKEN is not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var extractor pipeline.ImageExtractor
	if cfg.GeminiAPIKey != "" {
		ext, err := gemini.NewExtractor(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.DefaultCurrency)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create extraction provider")
		}
		extractor = ext
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set, photo extraction disabled")
	}

	var sink pipeline.RowSink
	if cfg.SpreadsheetID != "" {
		s := sheets.Initialize(ctx, sheets.Config{
			SpreadsheetID:   cfg.SpreadsheetID,
			Tab:             cfg.SheetTab,
			CredentialsJSON: cfg.CredentialsJSON,
			CredentialPaths: cfg.CredentialPaths,
		}, cfg.MaxInitRetries, log)
		if s != nil {
			sink = s
		}
		// A nil sink is degraded-but-running: every event will report a
		// configuration error instead of attempting persistence.
	} else {
		log.Warn().Msg("SPREADSHEET_ID not set, persistence disabled")
	}

	proc := pipeline.New(extractor, sink, log)

	if cfg.ArchiveBucket != "" {
		st, err := archive.New(ctx, cfg.ArchiveBucket, log)
		if err != nil {
			log.Warn().Err(err).Msg("photo archive unavailable")
		} else {
			defer st.Close()
			proc.Archive = st
		}
	}
	if cfg.GCPProject != "" && cfg.MirrorDataset != "" {
		m, err := mirror.New(ctx, cfg.GCPProject, cfg.MirrorDataset, cfg.MirrorTable, log)
		if err != nil {
			log.Warn().Err(err).Msg("analytics mirror unavailable")
		} else {
			defer m.Close()
			proc.Mirror = m
		}
	}

	b, err := bot.New(cfg.BotToken, proc, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create bot")
	}

	if err := b.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("bot stopped")
	}
	log.Info().Msg("shutting down")
}
