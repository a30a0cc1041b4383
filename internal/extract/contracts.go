package extract

import "context"

// TextExtractor is the first pipeline stage: document file -> free text.
// Implementations must absorb underlying tool failures into an error return;
// the orchestrator converts any error into "zero records for this document".
type TextExtractor interface {
	Extract(ctx context.Context, path string) (string, error)
}
