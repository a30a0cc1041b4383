package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aherreros/invoice-ledger/internal/common"
	"github.com/aherreros/invoice-ledger/internal/export"
	"github.com/aherreros/invoice-ledger/internal/repository"
)

func newExportCommand() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the invoice ledger as an XLSX workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := slog.Default()

			cfg := common.LoadConfig()

			db, err := repository.Open(ctx, repository.Config{
				Driver:      cfg.Database.Driver,
				DSN:         cfg.Database.DSN,
				MaxConns:    cfg.Database.MaxConns,
				MinConns:    cfg.Database.MinConns,
				DialTimeout: cfg.Database.DialTimeout,
			}, logger)
			if err != nil {
				return common.WrapError(err, "open database")
			}
			defer repository.Close(db, logger)

			repo := repository.NewInvoiceRepository(db, logger)
			if err := repo.EnsureSchema(ctx); err != nil {
				return err
			}

			svc := export.NewService(repo, logger)
			data, err := svc.ExportXLSX(ctx)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return common.WrapError(err, "write "+out)
			}
			logger.Info("ledger exported", "path", out, "bytes", len(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "invoices.xlsx", "output XLSX file path")

	return cmd
}
