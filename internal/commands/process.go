package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aherreros/invoice-ledger/internal/common"
	"github.com/aherreros/invoice-ledger/internal/currency"
	"github.com/aherreros/invoice-ledger/internal/extract"
	"github.com/aherreros/invoice-ledger/internal/ingest"
	"github.com/aherreros/invoice-ledger/internal/pipeline"
	"github.com/aherreros/invoice-ledger/internal/repository"
	"github.com/aherreros/invoice-ledger/internal/structurer"
)

func newProcessCommand() *cobra.Command {
	var (
		dir     string
		workers int
	)

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Process a directory of invoice documents into the ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := slog.Default()

			cfg := common.LoadConfig()
			if workers > 0 {
				cfg.Pipeline.Workers = workers
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			docs, _, err := ingest.DiscoverDocuments(dir, logger)
			if err != nil {
				return common.WrapError(err, "discover documents")
			}
			if len(docs) == 0 {
				logger.Warn("no supported documents found", "dir", dir)
				return nil
			}

			db, err := repository.Open(ctx, repository.Config{
				Driver:           cfg.Database.Driver,
				DSN:              cfg.Database.DSN,
				MaxConns:         cfg.Database.MaxConns,
				MinConns:         cfg.Database.MinConns,
				MaxConnLifetime:  cfg.Database.MaxConnLifetime,
				MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
				DialTimeout:      cfg.Database.DialTimeout,
				StatementTimeout: cfg.Database.StatementTimeout,
			}, logger)
			if err != nil {
				return common.WrapError(err, "open database")
			}
			defer repository.Close(db, logger)

			repo := repository.NewInvoiceRepository(db, logger)
			if err := repo.EnsureSchema(ctx); err != nil {
				return err
			}

			extractor := extract.NewExtractor(extract.Config{
				Pdftotext:     cfg.Extract.Pdftotext,
				Tesseract:     cfg.Extract.Tesseract,
				TesseractLang: cfg.Extract.TesseractLang,
			}, logger)

			client := structurer.NewClient(structurer.Config{
				APIKey:      cfg.Structurer.APIKey,
				BaseURL:     cfg.Structurer.BaseURL,
				Model:       cfg.Structurer.Model,
				Temperature: cfg.Structurer.Temperature,
				Timeout:     cfg.Structurer.Timeout,
			}, logger)

			rates := currency.NewFixerClient(currency.FixerConfig{
				APIKey:  cfg.Rates.APIKey,
				BaseURL: cfg.Rates.BaseURL,
				Timeout: cfg.Rates.Timeout,
			}, logger)
			normalizer := currency.NewNormalizer(rates, logger)

			orch := pipeline.NewOrchestrator(
				pipeline.Config{Workers: cfg.Pipeline.Workers},
				extractor, client, normalizer, repo, logger,
			)

			count, err := orch.Run(ctx, docs)
			if err != nil {
				return err
			}
			if count == 0 {
				logger.Warn("no invoices produced by this run")
				return nil
			}
			logger.Info("run complete", "invoices", count)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "directory containing invoice documents (required)")
	cmd.Flags().IntVar(&workers, "workers", 0, "bounded per-document parallelism (overrides PIPELINE_WORKERS)")
	_ = cmd.MarkFlagRequired("dir")

	return cmd
}
