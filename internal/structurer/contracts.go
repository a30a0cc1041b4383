package structurer

import "context"

// PayloadStructurer is the second pipeline stage: free text -> delimited
// payload matching the five-field invoice contract. The returned payload is
// opaque here; RecordParser owns header and row validation.
type PayloadStructurer interface {
	Structure(ctx context.Context, text string) (string, error)
}
