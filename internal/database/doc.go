// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup and migrations
//	├── books/           # Book catalog persistence (services.CatalogStore)
//	└── audit/           # Ingestion and import audit trail
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase("./bookcatalog.db")
//
//	booksRepo := books.NewRepository(db.DB)
//	auditRepo := audit.NewRepository(db.DB)
//
//	book, err := booksRepo.Create(ctx, draft)
//
// # Adding a New Domain
//
// Create a sub-package with a Repository type taking *gorm.DB, register its
// entities in NewDatabase's AutoMigrate call and add a compile-time check in
// internal/interfaces/checks.go.
package database
