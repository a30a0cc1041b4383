package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/aherreros/invoice-ledger/internal/common"
	"github.com/aherreros/invoice-ledger/internal/records"
)

// InvoiceRepository is the durable ledger. Append never replaces: repeated
// runs accumulate rows in the invoices table.
type InvoiceRepository interface {
	EnsureSchema(ctx context.Context) error
	Append(ctx context.Context, invoices []records.Invoice) error
	List(ctx context.Context) ([]records.Invoice, error)
}

type invoiceRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewInvoiceRepository(db *sql.DB, logger *slog.Logger) InvoiceRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &invoiceRepository{db: db, logger: logger}
}

const createInvoicesTable = `
CREATE TABLE IF NOT EXISTS invoices (
	invoice_date        TEXT,
	supplier            TEXT,
	invoice_description TEXT,
	import              NUMERIC,
	original_currency   TEXT
)`

func (r *invoiceRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createInvoicesTable); err != nil {
		r.logger.Error("failed to ensure invoices schema", "error", err)
		return fmt.Errorf("%w: ensure invoices schema: %v", common.ErrDatabase, err)
	}
	return nil
}

func (r *invoiceRepository) Append(ctx context.Context, invoices []records.Invoice) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin append: %v", common.ErrDatabase, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO invoices
		(invoice_date, supplier, invoice_description, import, original_currency)
		VALUES ($1, $2, $3, $4, $5)`)
	if err != nil {
		return fmt.Errorf("%w: prepare insert: %v", common.ErrDatabase, err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for _, inv := range invoices {
		var amount any
		if inv.Amount.Valid {
			amount = inv.Amount.Decimal.String()
		}
		if _, err := stmt.ExecContext(ctx, inv.Date, inv.Supplier, inv.Description, amount, inv.Currency); err != nil {
			return fmt.Errorf("%w: insert invoice for supplier %q: %v", common.ErrDatabase, inv.Supplier, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit append: %v", common.ErrDatabase, err)
	}

	r.logger.Info("invoices appended", "rows", len(invoices))
	return nil
}

func (r *invoiceRepository) List(ctx context.Context) ([]records.Invoice, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT invoice_date, supplier, invoice_description, import, original_currency
		FROM invoices`)
	if err != nil {
		return nil, fmt.Errorf("%w: list invoices: %v", common.ErrDatabase, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []records.Invoice
	for rows.Next() {
		var inv records.Invoice
		var amount sql.NullString
		if err := rows.Scan(&inv.Date, &inv.Supplier, &inv.Description, &amount, &inv.Currency); err != nil {
			return nil, fmt.Errorf("%w: scan invoice: %v", common.ErrDatabase, err)
		}
		if amount.Valid {
			if d, err := decimal.NewFromString(amount.String); err == nil {
				inv.Amount = decimal.NullDecimal{Decimal: d, Valid: true}
			}
		}
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list invoices: %v", common.ErrDatabase, err)
	}
	return out, nil
}
