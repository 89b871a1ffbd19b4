package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/mrlokans/bookcatalog/internal/audit"
	"github.com/mrlokans/bookcatalog/internal/catalog"
	"github.com/mrlokans/bookcatalog/internal/config"
	"github.com/mrlokans/bookcatalog/internal/database"
	auditrepo "github.com/mrlokans/bookcatalog/internal/database/audit"
	"github.com/mrlokans/bookcatalog/internal/database/books"
	"github.com/mrlokans/bookcatalog/internal/importers"
	"github.com/mrlokans/bookcatalog/internal/logging"
)

// ImportCSVCommand seeds the catalog from a CSV file
type ImportCSVCommand struct {
	FilePath     string
	DatabasePath string
	Verbose      bool
	DryRun       bool

	out io.Writer
}

// NewImportCSVCommand creates a new ImportCSVCommand
func NewImportCSVCommand() *ImportCSVCommand {
	return &ImportCSVCommand{out: os.Stdout}
}

// ParseFlags parses command line flags
func (cmd *ImportCSVCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import-csv", flag.ContinueOnError)

	fs.StringVar(&cmd.FilePath, "file", "", "Path to the catalog CSV file (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the catalog database file")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Print the outcome of every row")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Validate rows without writing to the database")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import-csv -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Validate every row of a catalog CSV and save the valid ones.\n")
		fmt.Fprintf(os.Stderr, "Expected headers: Name, Author, User Rating, Reviews, Price, Year, Genre\n")
		fmt.Fprintf(os.Stderr, "(Name and Author are required).\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s import-csv -file bestsellers.csv\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s import-csv -file bestsellers.csv -dry-run -verbose\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.FilePath == "" {
		return fmt.Errorf("-file is required")
	}
	return nil
}

// Run executes the import
func (cmd *ImportCSVCommand) Run() error {
	if cmd.Verbose {
		logging.Init("debug")
	} else {
		logging.Init("warn")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Fprintln(cmd.out, "📚 Catalog CSV Import")
	fmt.Fprintln(cmd.out, "=====================")
	if cmd.DryRun {
		fmt.Fprintln(cmd.out, "🔍 DRY RUN MODE - No changes will be made")
	}
	fmt.Fprintf(cmd.out, "📁 File: %s\n", cmd.FilePath)

	if cmd.DryRun {
		return cmd.dryRun()
	}

	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}
	fmt.Fprintf(cmd.out, "💾 Database: %s\n", absDBPath)

	db, err := database.NewDatabase(absDBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	auditService := audit.NewService(auditrepo.NewRepository(db.DB))
	pipeline := importers.NewPipeline(books.NewRepository(db.DB), auditService)

	result, err := pipeline.ImportCSVFile(ctx, cmd.FilePath)
	auditService.Wait()
	if err != nil && len(result.Outcomes) == 0 {
		return fmt.Errorf("import failed: %w", err)
	}

	if cmd.Verbose {
		fmt.Fprintln(cmd.out, "\n=== Rows ===")
		for _, o := range result.Outcomes {
			cmd.printOutcome(o)
		}
	}

	cmd.printSummary(len(result.Outcomes), result.Ingested, result.Rejected, result.ParseErrors)
	if err != nil {
		return fmt.Errorf("import interrupted: %w", err)
	}

	fmt.Fprintln(cmd.out, "\n✅ Import complete!")
	return nil
}

// dryRun parses and validates without opening the database.
func (cmd *ImportCSVCommand) dryRun() error {
	f, err := os.Open(cmd.FilePath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", cmd.FilePath, err)
	}
	defer f.Close()

	raws, parseErrors, err := importers.ParseCatalogCSV(f)
	if err != nil {
		return fmt.Errorf("failed to parse CSV: %w", err)
	}

	valid := 0
	for i, raw := range raws {
		_, err := catalog.Validate(raw)
		if err == nil {
			valid++
		}
		if cmd.Verbose {
			outcome := importers.Outcome{Index: i, Err: err}
			var verr *catalog.ValidationError
			if errors.As(err, &verr) {
				outcome.Errors = verr.Errors
			}
			fmt.Fprintf(cmd.out, "  %d. %s: %s\n", i+1, describe(raw), outcomeLabel(outcome, err == nil))
		}
	}

	cmd.printSummary(len(raws), valid, len(raws)-valid, parseErrors)
	fmt.Fprintln(cmd.out, "\n✅ Dry run complete. Use without -dry-run to import.")
	return nil
}

func (cmd *ImportCSVCommand) printOutcome(o importers.Outcome) {
	if o.Ingested() {
		fmt.Fprintf(cmd.out, "  %d. \"%s\" by %s: ✅ saved (id %d)\n", o.Index+1, o.Book.Name, o.Book.Author, o.Book.ID)
		return
	}
	fmt.Fprintf(cmd.out, "  %d. %s\n", o.Index+1, outcomeLabel(o, false))
}

func (cmd *ImportCSVCommand) printSummary(total, ingested, rejected int, parseErrors []string) {
	fmt.Fprintln(cmd.out, "\n=== Import Summary ===")
	fmt.Fprintf(cmd.out, "📄 Rows read: %d\n", total)
	fmt.Fprintf(cmd.out, "✅ Ingested: %d\n", ingested)
	fmt.Fprintf(cmd.out, "❌ Rejected: %d\n", rejected)

	if len(parseErrors) > 0 {
		fmt.Fprintf(cmd.out, "\n⚠️  %d malformed lines skipped:\n", len(parseErrors))
		for _, msg := range parseErrors {
			fmt.Fprintf(cmd.out, "  ❌ %s\n", msg)
		}
	}
}

func outcomeLabel(o importers.Outcome, ok bool) string {
	if ok {
		return "✅ valid"
	}
	if len(o.Errors) > 0 {
		msg := "❌ rejected:"
		for _, fe := range o.Errors {
			msg += " " + fe.Error() + ";"
		}
		return msg
	}
	if o.Err != nil {
		return "❌ " + o.Err.Error()
	}
	return "❌ rejected"
}

func describe(raw catalog.RawCandidate) string {
	name, _ := raw[catalog.FieldName].(string)
	author, _ := raw[catalog.FieldAuthor].(string)
	return fmt.Sprintf("%q by %q", name, author)
}
