package records

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/aherreros/invoice-ledger/internal/common"
)

// Parse decodes a semicolon-delimited payload into invoice records.
// A malformed header or a column-count mismatch fails the whole payload
// (empty set, wrapped common.ErrParse); no column-repair heuristics.
// Rows whose amount cannot be coerced keep a null Amount but are never
// dropped here. Parsing is pure, so it is trivially idempotent.
func Parse(payload string) ([]Invoice, error) {
	cr := csv.NewReader(strings.NewReader(payload))
	cr.Comma = ';'
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrParse, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty payload", common.ErrParse)
	}
	if err := checkHeader(rows[0]); err != nil {
		return nil, err
	}

	out := make([]Invoice, 0, len(rows)-1)
	for _, row := range rows[1:] {
		out = append(out, Invoice{
			Date:        strings.TrimSpace(row[0]),
			Supplier:    strings.TrimSpace(row[1]),
			Description: strings.TrimSpace(row[2]),
			Amount:      coerceAmount(row[3]),
			Currency:    strings.TrimSpace(row[4]),
		})
	}
	return out, nil
}

func checkHeader(header []string) error {
	if len(header) != len(Columns) {
		return fmt.Errorf("%w: header has %d columns, want %d", common.ErrParse, len(header), len(Columns))
	}
	for i, want := range Columns {
		got := strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
		if got != want {
			return fmt.Errorf("%w: header column %d is %q, want %q", common.ErrParse, i, got, want)
		}
	}
	return nil
}

// coerceAmount normalizes a Spanish-formatted decimal ("1.234,56") to a
// numeric value. When a decimal comma is present, periods are thousand
// separators and get stripped. Uncoercible values yield a null amount.
func coerceAmount(raw string) decimal.NullDecimal {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return decimal.NullDecimal{}
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
