package pipeline

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/aherreros/invoice-ledger/internal/extract"
	"github.com/aherreros/invoice-ledger/internal/ingest"
	"github.com/aherreros/invoice-ledger/internal/records"
	"github.com/aherreros/invoice-ledger/internal/structurer"
)

// LedgerSink receives the final batch. Append-only: repeated runs
// accumulate, never overwrite.
type LedgerSink interface {
	Append(ctx context.Context, invoices []records.Invoice) error
}

// BatchNormalizer unifies the batch into the reference currency. It must
// only run after every document has been parsed.
type BatchNormalizer interface {
	Normalize(ctx context.Context, batch []records.Invoice) []records.Invoice
}

// Config holds batch processing behavior.
type Config struct {
	Workers int // bounded per-document parallelism; default 1
}

// Orchestrator drives each document through extraction, structuring and
// parsing, then runs the batch-level currency normalization and hands the
// projected ledger to the sink. Documents are independent: every
// per-document failure degrades to zero records without touching the rest
// of the batch.
type Orchestrator struct {
	cfg        Config
	extractor  extract.TextExtractor
	structurer structurer.PayloadStructurer
	normalizer BatchNormalizer
	sink       LedgerSink
	logger     *slog.Logger
}

func NewOrchestrator(
	cfg Config,
	ex extract.TextExtractor,
	st structurer.PayloadStructurer,
	norm BatchNormalizer,
	sink LedgerSink,
	logger *slog.Logger,
) *Orchestrator {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		cfg:        cfg,
		extractor:  ex,
		structurer: st,
		normalizer: norm,
		sink:       sink,
		logger:     logger,
	}
}

// Run processes the whole batch and returns the number of persisted
// invoices. An empty resulting ledger is terminal but graceful: the sink is
// never invoked and the count is zero.
func (o *Orchestrator) Run(ctx context.Context, docs []ingest.Document) (int, error) {
	runID := uuid.New().String()
	o.logger.Info("pipeline.run.start", "run_id", runID, "documents", len(docs), "workers", o.cfg.Workers)

	batch := o.collect(ctx, docs)

	// Hard barrier: normalization needs the full set of currency labels.
	batch = o.normalizer.Normalize(ctx, batch)
	ledger := project(batch)

	if len(ledger) == 0 {
		o.logger.Warn("pipeline.run.empty_ledger", "run_id", runID, "parsed_rows", len(batch))
		return 0, nil
	}

	if err := o.sink.Append(ctx, ledger); err != nil {
		o.logger.Error("pipeline.run.persist_failed", "run_id", runID, "error", err)
		return 0, err
	}

	o.logger.Info("pipeline.run.ok",
		"run_id", runID,
		"documents", len(docs),
		"invoices", len(ledger),
		"dropped_at_projection", len(batch)-len(ledger),
	)
	return len(ledger), nil
}

// collect fans documents out to a bounded worker pool and appends every
// parsed record to the shared batch under a mutex. Order across documents
// is not guaranteed and not required.
func (o *Orchestrator) collect(ctx context.Context, docs []ingest.Document) []records.Invoice {
	jobs := make(chan ingest.Document)
	var mu sync.Mutex
	var batch []records.Invoice
	var wg sync.WaitGroup

	for i := 0; i < o.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for doc := range jobs {
				recs := o.processDocument(ctx, doc)
				if len(recs) == 0 {
					continue
				}
				mu.Lock()
				batch = append(batch, recs...)
				mu.Unlock()
			}
		}()
	}
	for _, doc := range docs {
		jobs <- doc
	}
	close(jobs)
	wg.Wait()
	return batch
}

// processDocument runs one document through the per-document stages. Each
// stage failure is absorbed here with a diagnostic naming the document; the
// next stage is never invoked after a failure.
func (o *Orchestrator) processDocument(ctx context.Context, doc ingest.Document) []records.Invoice {
	if doc.Format == "" {
		o.logger.Warn("unsupported document reached pipeline, skipping", "path", doc.Path)
		return nil
	}
	o.logger.Info("processing document", "path", doc.Path, "format", string(doc.Format))

	text, err := o.extractor.Extract(ctx, doc.Path)
	if err != nil {
		o.logger.Warn("text extraction failed, document contributes no records", "path", doc.Path, "error", err)
		return nil
	}

	payload, err := o.structurer.Structure(ctx, text)
	if err != nil {
		o.logger.Warn("structuring failed, document contributes no records", "path", doc.Path, "error", err)
		return nil
	}

	recs, err := records.Parse(payload)
	if err != nil {
		o.logger.Warn("payload parse failed, document contributes no records", "path", doc.Path, "error", err)
		return nil
	}
	return recs
}

// project applies the final schema projection: the amount and currency
// columns are mandatory for a record to survive into the ledger.
func project(batch []records.Invoice) []records.Invoice {
	out := make([]records.Invoice, 0, len(batch))
	for _, rec := range batch {
		if !rec.Amount.Valid || rec.Currency == "" {
			continue
		}
		out = append(out, rec)
	}
	return out
}
