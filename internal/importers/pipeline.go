package importers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mrlokans/bookcatalog/internal/catalog"
	"github.com/mrlokans/bookcatalog/internal/entities"
	"github.com/mrlokans/bookcatalog/internal/services"
)

// Origin tags where a candidate came from. It only affects logging and the
// audit trail: every origin goes through the same validation.
type Origin string

const (
	OriginManual     Origin = "manual"
	OriginChat       Origin = "chat"
	OriginBulkImport Origin = "bulk-import"
)

// Recorder receives one record per ingestion. Implementations must not block
// for long and cannot fail an ingestion.
//
// Implementations:
//   - audit.Service (internal/audit)
type Recorder interface {
	RecordIngest(ctx context.Context, record services.IngestRecord)
}

type nopRecorder struct{}

func (nopRecorder) RecordIngest(context.Context, services.IngestRecord) {}

// Outcome is the result of a single row in a batch.
type Outcome struct {
	Index  int
	Book   *entities.Book
	Errors []catalog.FieldError // validation failures, nil otherwise
	Err    error                // *catalog.ValidationError or *services.StoreError
}

// Ingested reports whether the row was persisted.
func (o Outcome) Ingested() bool {
	return o.Err == nil && o.Book != nil
}

// BatchResult holds the per-row outcomes of IngestBatch in input order.
type BatchResult struct {
	Outcomes []Outcome
	Ingested int
	Rejected int
}

// Summary returns the aggregate counts.
func (r BatchResult) Summary() services.IngestResult {
	return services.IngestResult{
		TotalRows: len(r.Outcomes),
		Ingested:  r.Ingested,
		Rejected:  r.Rejected,
	}
}

// Pipeline is the single entry point for writing books:
// candidate → validate → create.
//
// Nothing reaches the store without passing the validator, so exactly one
// Create happens per valid candidate and none per invalid one.
type Pipeline struct {
	store     services.CatalogStore
	validator *catalog.Validator
	recorder  Recorder
}

// NewPipeline creates a pipeline writing to store. recorder may be nil.
func NewPipeline(store services.CatalogStore, recorder Recorder) *Pipeline {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Pipeline{
		store:     store,
		validator: catalog.NewValidator(),
		recorder:  recorder,
	}
}

// IngestOne validates and persists a single candidate. The returned error is
// a *catalog.ValidationError (the store was not called) or a
// *services.StoreError.
func (p *Pipeline) IngestOne(ctx context.Context, raw catalog.RawCandidate, origin Origin) (*entities.Book, error) {
	book, err := p.ingest(ctx, raw, origin)

	record := services.IngestRecord{Origin: string(origin), Err: err}
	if err != nil {
		record.Rejected = 1
		record.Summary = describeRaw(raw)
	} else {
		record.Ingested = 1
		record.BookID = &book.ID
		record.Summary = describeBook(book)
	}
	p.recorder.RecordIngest(ctx, record)

	return book, err
}

// IngestBatch processes candidates sequentially and independently, as a bulk
// import. A rejected row never stops the batch and rows created before a
// failure stay persisted. The error is non-nil only when ctx is cancelled
// between rows; the partial result is still returned.
func (p *Pipeline) IngestBatch(ctx context.Context, raws []catalog.RawCandidate) (BatchResult, error) {
	result := BatchResult{Outcomes: make([]Outcome, 0, len(raws))}

	var cancelErr error
	for i, raw := range raws {
		if err := ctx.Err(); err != nil {
			cancelErr = fmt.Errorf("batch interrupted after %d of %d rows: %w", i, len(raws), err)
			break
		}

		book, err := p.ingest(ctx, raw, OriginBulkImport)
		outcome := Outcome{Index: i, Book: book, Err: err}
		var verr *catalog.ValidationError
		if errors.As(err, &verr) {
			outcome.Errors = verr.Errors
		}

		if err != nil {
			result.Rejected++
		} else {
			result.Ingested++
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	p.recorder.RecordIngest(ctx, services.IngestRecord{
		Origin:   string(OriginBulkImport),
		Ingested: result.Ingested,
		Rejected: result.Rejected,
		Summary:  fmt.Sprintf("%d of %d rows ingested", result.Ingested, len(raws)),
		Err:      cancelErr,
	})

	slog.Info("Batch ingestion finished",
		"rows", len(raws),
		"ingested", result.Ingested,
		"rejected", result.Rejected,
	)

	return result, cancelErr
}

func (p *Pipeline) ingest(ctx context.Context, raw catalog.RawCandidate, origin Origin) (*entities.Book, error) {
	draft, err := p.validator.Validate(raw)
	if err != nil {
		slog.Debug("Candidate rejected", "origin", origin, "error", err)
		return nil, err
	}

	book, err := p.store.Create(ctx, draft)
	if err != nil {
		var storeErr *services.StoreError
		if !errors.As(err, &storeErr) {
			err = &services.StoreError{Op: "create", Err: err}
		}
		slog.Error("Failed to persist book", "origin", origin, "name", draft.Name, "error", err)
		return nil, err
	}

	slog.Debug("Book ingested", "origin", origin, "id", book.ID, "name", book.Name)
	return book, nil
}

func describeBook(b *entities.Book) string {
	return fmt.Sprintf("%s by %s", b.Name, b.Author)
}

func describeRaw(raw catalog.RawCandidate) string {
	name, _ := raw[catalog.FieldName].(string)
	author, _ := raw[catalog.FieldAuthor].(string)
	if name == "" && author == "" {
		return "unnamed candidate"
	}
	return fmt.Sprintf("%s by %s", name, author)
}
