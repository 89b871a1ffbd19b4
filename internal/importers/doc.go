// Package importers provides the ingestion pipeline through which every book
// enters the catalog.
//
// # Architecture
//
//	Source Data → Converter → catalog.RawCandidate → Pipeline → Validator → CatalogStore
//
// Each origin has a converter that turns its native shape into a
// catalog.RawCandidate keyed by wire field names:
//
//   - ParseCatalogCSV (catalog_csv.go): bulk import CSV
//   - ChatCandidate (chat.go): showBookRecommendation tool-call arguments
//   - FormCandidate, JSONCandidate (form.go): manual submissions
//
// Converters do no validation. The Pipeline validates every candidate with
// the same catalog.Validator regardless of origin and calls the store only for
// valid candidates.
//
// # Example Usage
//
//	pipeline := importers.NewPipeline(booksRepo, auditService)
//
//	// Single candidate
//	book, err := pipeline.IngestOne(ctx, importers.FormCandidate(form), importers.OriginManual)
//
//	// Bulk import
//	rows, parseErrors, err := importers.ParseCatalogCSV(file)
//	result, err := pipeline.IngestBatch(ctx, rows)
package importers
