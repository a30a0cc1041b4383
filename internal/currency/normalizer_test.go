package currency

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aherreros/invoice-ledger/internal/records"
)

type fakeRateSource struct {
	table    map[string]decimal.Decimal
	err      error
	calls    int
	lastSyms []string
}

func (f *fakeRateSource) Latest(_ context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	f.calls++
	f.lastSyms = symbols
	if f.err != nil {
		return nil, f.err
	}
	return f.table, nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func amount(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: dec(s), Valid: true}
}

func TestNormalizeConvertsWithRate(t *testing.T) {
	src := &fakeRateSource{table: map[string]decimal.Decimal{"USD": decimal.NewFromFloat(1.1)}}
	n := NewNormalizer(src, nil)

	batch := []records.Invoice{
		{Supplier: "acme", Amount: amount("110.0"), Currency: "dollars"},
	}
	got := n.Normalize(context.Background(), batch)

	require.Len(t, got, 1)
	assert.True(t, got[0].Amount.Decimal.Equal(dec("100")), "got %s", got[0].Amount.Decimal)
	assert.Equal(t, "dollars", got[0].Currency, "original label retained for traceability")
	assert.Equal(t, 1, src.calls)
}

func TestNormalizeMissingRateLeavesRecordUntouched(t *testing.T) {
	src := &fakeRateSource{table: map[string]decimal.Decimal{"USD": decimal.NewFromFloat(1.1)}}
	n := NewNormalizer(src, nil)

	batch := []records.Invoice{
		{Supplier: "sony", Amount: amount("8500.00"), Currency: "yen"},
	}
	got := n.Normalize(context.Background(), batch)

	assert.True(t, got[0].Amount.Decimal.Equal(dec("8500.00")))
	assert.Equal(t, "yen", got[0].Currency)
}

func TestNormalizeReferenceCurrencyPassesThrough(t *testing.T) {
	src := &fakeRateSource{table: map[string]decimal.Decimal{}}
	n := NewNormalizer(src, nil)

	batch := []records.Invoice{
		{Supplier: "canva", Amount: amount("109.99"), Currency: " Euros "},
	}
	got := n.Normalize(context.Background(), batch)

	assert.True(t, got[0].Amount.Decimal.Equal(dec("109.99")))
	assert.Equal(t, "euros", got[0].Currency, "labels are lowercased and trimmed")
	assert.Equal(t, 0, src.calls, "no rate call when only the reference currency is present")
}

func TestNormalizeUnmappedLabelsNeverRequested(t *testing.T) {
	src := &fakeRateSource{table: map[string]decimal.Decimal{"USD": decimal.NewFromFloat(1.1), "JPY": decimal.NewFromFloat(160)}}
	n := NewNormalizer(src, nil)

	batch := []records.Invoice{
		{Amount: amount("10"), Currency: "dollars"},
		{Amount: amount("10"), Currency: "others"},
		{Amount: amount("10"), Currency: "rupiah"},
		{Amount: amount("10"), Currency: "yen"},
	}
	got := n.Normalize(context.Background(), batch)

	require.Equal(t, 1, src.calls)
	assert.Equal(t, []string{"JPY", "USD"}, src.lastSyms)
	assert.Equal(t, "others", got[1].Currency)
	assert.True(t, got[1].Amount.Decimal.Equal(dec("10")), "unmapped label left unconverted")
	assert.True(t, got[2].Amount.Decimal.Equal(dec("10")))
}

func TestNormalizeProviderFailureConvertsNothing(t *testing.T) {
	src := &fakeRateSource{err: errors.New("provider unreachable")}
	n := NewNormalizer(src, nil)

	batch := []records.Invoice{
		{Amount: amount("110.0"), Currency: "dollars"},
		{Amount: amount("9.99"), Currency: "pounds"},
	}
	got := n.Normalize(context.Background(), batch)

	assert.True(t, got[0].Amount.Decimal.Equal(dec("110.0")))
	assert.True(t, got[1].Amount.Decimal.Equal(dec("9.99")))
}

func TestNormalizeSkipsNullAmounts(t *testing.T) {
	src := &fakeRateSource{table: map[string]decimal.Decimal{"USD": decimal.NewFromFloat(1.1)}}
	n := NewNormalizer(src, nil)

	batch := []records.Invoice{
		{Supplier: "acme", Currency: "dollars"}, // null amount
	}
	got := n.Normalize(context.Background(), batch)
	assert.False(t, got[0].Amount.Valid)
}
