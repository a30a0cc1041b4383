package currency

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/aherreros/invoice-ledger/constants"
	"github.com/aherreros/invoice-ledger/internal/records"
)

// Normalizer converts a whole batch of invoice amounts into the reference
// currency. Conversion is deliberately batched: the rate provider is called
// once per run, covering exactly the ISO codes present in the batch.
type Normalizer struct {
	source RateSource
	logger *slog.Logger
}

func NewNormalizer(source RateSource, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{source: source, logger: logger}
}

// Normalize mutates the batch in place and returns it. Records whose label
// has no mapping or whose code obtained no rate keep their original amount
// and label; a provider failure degrades to an empty table and converts
// nothing. None of these conditions aborts the batch.
func (n *Normalizer) Normalize(ctx context.Context, batch []records.Invoice) []records.Invoice {
	for i := range batch {
		batch[i].Currency = strings.ToLower(strings.TrimSpace(batch[i].Currency))
	}

	table := n.fetchRates(ctx, batch)

	converted := map[string]int{}
	gapped := map[string]bool{}
	for i := range batch {
		label := batch[i].Currency
		if label == constants.ReferenceLabel {
			continue
		}
		code, ok := constants.ISOCode(label)
		if !ok {
			continue
		}
		rate, ok := table[code]
		if !ok {
			if !gapped[label] {
				gapped[label] = true
				n.logger.Warn("no exchange rate for currency, amounts left unconverted",
					"label", label, "code", code)
			}
			continue
		}
		if !batch[i].Amount.Valid {
			continue
		}
		// rate is units of foreign currency per 1 reference unit, so the
		// reference amount is the quotient
		batch[i].Amount.Decimal = batch[i].Amount.Decimal.Div(rate)
		converted[code]++
	}

	codes := make([]string, 0, len(converted))
	for code := range converted {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		n.logger.Info("converted to reference currency",
			"code", code, "rows", converted[code], "rate", table[code].String())
	}
	return batch
}

// fetchRates collects the distinct mapped ISO codes in the batch (reference
// label excluded, unmapped labels dropped from the request set) and fetches
// their rates in one call. Any provider failure yields an empty table.
func (n *Normalizer) fetchRates(ctx context.Context, batch []records.Invoice) map[string]decimal.Decimal {
	seen := map[string]bool{}
	var symbols []string
	for i := range batch {
		label := batch[i].Currency
		if label == constants.ReferenceLabel || seen[label] {
			continue
		}
		seen[label] = true
		if code, ok := constants.ISOCode(label); ok {
			symbols = append(symbols, code)
		}
	}
	if len(symbols) == 0 {
		return map[string]decimal.Decimal{}
	}
	sort.Strings(symbols)

	table, err := n.source.Latest(ctx, symbols)
	if err != nil {
		n.logger.Warn("rate fetch failed, batch proceeds with unconverted amounts", "error", err)
		return map[string]decimal.Decimal{}
	}
	return table
}
