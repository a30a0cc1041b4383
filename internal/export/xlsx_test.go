package export

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/aherreros/invoice-ledger/internal/records"
	"github.com/aherreros/invoice-ledger/internal/repository"
)

func TestExportXLSX(t *testing.T) {
	ctx := context.Background()
	db, err := repository.Open(ctx, repository.Config{Driver: "sqlite", DSN: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := repository.NewInvoiceRepository(db, nil)
	require.NoError(t, repo.EnsureSchema(ctx))
	require.NoError(t, repo.Append(ctx, []records.Invoice{
		{
			Date:        "10/01/2024",
			Supplier:    "openai llc",
			Description: "ChatGPT Plus Subscription",
			Amount:      decimal.NullDecimal{Decimal: decimal.RequireFromString("18.18"), Valid: true},
			Currency:    "dollars",
		},
	}))

	svc := NewService(repo, nil)
	data, err := svc.ExportXLSX(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	header, err := f.GetCellValue("Invoices", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Invoice Date", header)

	supplier, err := f.GetCellValue("Invoices", "B2")
	require.NoError(t, err)
	assert.Equal(t, "openai llc", supplier)

	amount, err := f.GetCellValue("Invoices", "D2")
	require.NoError(t, err)
	assert.Equal(t, "18.18", amount)
}

func TestExportXLSXEmptyLedger(t *testing.T) {
	ctx := context.Background()
	db, err := repository.Open(ctx, repository.Config{Driver: "sqlite", DSN: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := repository.NewInvoiceRepository(db, nil)
	require.NoError(t, repo.EnsureSchema(ctx))

	svc := NewService(repo, nil)
	data, err := svc.ExportXLSX(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, data, "workbook with header row only")
}
