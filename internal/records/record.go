package records

import "github.com/shopspring/decimal"

// Invoice is one structured invoice line item. Date stays a dd/mm/yyyy
// string; the pipeline never interprets it. Amount is null when the source
// value could not be coerced to a number — such rows are kept by the parser
// and only dropped at the final projection.
type Invoice struct {
	Date        string
	Supplier    string
	Description string
	Amount      decimal.NullDecimal
	Currency    string
}

// Columns of the payload contract, in order. The structuring service is
// instructed to always emit exactly this header.
var Columns = []string{"invoice_date", "supplier", "invoice_description", "import", "currency"}
