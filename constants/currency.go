package constants

import "strings"

// ReferenceCurrency is the ISO code all amounts are normalized into.
const ReferenceCurrency = "EUR"

// ReferenceLabel is the descriptive label the structuring service emits for
// invoices already denominated in the reference currency.
const ReferenceLabel = "euros"

// currencyLabels maps the closed vocabulary of descriptive currency labels
// (as instructed to the structuring service) to ISO 4217 codes. Labels
// outside this table are never sent to the rate provider.
var currencyLabels = map[string]string{
	"euros":              "EUR",
	"dollars":            "USD",
	"pounds":             "GBP",
	"yen":                "JPY",
	"swiss_francs":       "CHF",
	"canadian_dollars":   "CAD",
	"australian_dollars": "AUD",
	"yuan":               "CNY",
	"swedish_krona":      "SEK",
	"norwegian_krone":    "NOK",
	"danish_krone":       "DKK",
	"rupees":             "INR",
	"reais":              "BRL",
	"mexican_pesos":      "MXN",
	"rands":              "ZAR",
	"singapore_dollars":  "SGD",
	"hong_kong_dollars":  "HKD",
}

// ISOCode resolves a descriptive currency label to its ISO 4217 code.
// Unrecognized labels (including "others") report ok=false.
func ISOCode(label string) (string, bool) {
	code, ok := currencyLabels[strings.ToLower(strings.TrimSpace(label))]
	return code, ok
}

// CurrencyLabels returns the label vocabulary in no particular order.
func CurrencyLabels() []string {
	out := make([]string, 0, len(currencyLabels))
	for l := range currencyLabels {
		out = append(out, l)
	}
	return out
}
