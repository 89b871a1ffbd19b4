// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - CatalogStore: Create and list books (internal/services/interfaces.go)
//   - CatalogReader: Read-only listing (internal/services/interfaces.go)
//   - Pinger: Storage health checks (internal/http/stores.go)
//
// ## Ingestion Interfaces
//
//   - Ingestor / CSVImporter: Validation pipeline entry points (internal/http/stores.go)
//   - CatalogImporter: Background CSV imports (internal/tasks/import_catalog.go)
//   - Importer: Scheduled CSV imports (internal/scheduler/catalog_import.go)
//   - Recorder: Audit trail for ingestions (internal/importers/pipeline.go)
//
// ## External Service Interfaces
//
//   - Asker: AI assistant (internal/http/stores.go)
//   - TaskQueue: Background task queue (internal/http/stores.go)
//   - ImportScheduler: Scheduled import status and manual runs (internal/http/stores.go)
//
// # Adding a New Ingestion Source
//
// Every source produces catalog.RawCandidate values and hands them to the
// pipeline; validation and persistence are never reimplemented:
//
//  1. Add a converter in internal/importers/ returning catalog.RawCandidate
//
//     func XMLCandidate(node *xmlBook) catalog.RawCandidate
//
//  2. Pick or add an Origin constant for the audit trail
//
//  3. Call Pipeline.IngestOne or Pipeline.IngestBatch from the new endpoint
//
// # Adding a New Catalog Store
//
//  1. Implement services.CatalogStore, wrapping every failure in
//     *services.StoreError
//
//  2. Add compile-time check:
//
//     var _ services.CatalogStore = (*Repository)(nil)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// This pattern is used throughout the codebase. See checks.go for examples.
package interfaces
