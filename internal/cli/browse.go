package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/mrlokans/bookcatalog/internal/catalog"
	"github.com/mrlokans/bookcatalog/internal/config"
	"github.com/mrlokans/bookcatalog/internal/database"
	"github.com/mrlokans/bookcatalog/internal/database/books"
	"github.com/mrlokans/bookcatalog/internal/logging"
	"github.com/mrlokans/bookcatalog/internal/tui"
)

// BrowseCommand opens the interactive terminal catalog browser
type BrowseCommand struct {
	DatabasePath string
	PageSize     int
	Debounce     time.Duration
}

// NewBrowseCommand creates a new BrowseCommand
func NewBrowseCommand() *BrowseCommand {
	return &BrowseCommand{}
}

// ParseFlags parses command line flags
func (cmd *BrowseCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("browse", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the catalog database file")
	fs.IntVar(&cmd.PageSize, "page-size", catalog.DefaultPageSize, "Books revealed per page")
	fs.DurationVar(&cmd.Debounce, "debounce", catalog.DefaultDebounce, "Idle time before a search is applied")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s browse [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Search the catalog interactively. Type to filter by name or author,\n")
		fmt.Fprintf(os.Stderr, "ctrl+n or pgdown to load more, esc to quit.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.PageSize <= 0 {
		return fmt.Errorf("-page-size must be positive")
	}
	return nil
}

// Run executes the browser
func (cmd *BrowseCommand) Run() error {
	// Anything logged while the terminal UI is active corrupts the screen.
	logging.Init("error")

	if _, err := os.Stat(cmd.DatabasePath); err != nil {
		return fmt.Errorf("catalog database not found at %s (run import-csv first)", cmd.DatabasePath)
	}

	db, err := database.NewSilentDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return tui.Browse(ctx, books.NewRepository(db.DB), cmd.PageSize, cmd.Debounce)
}
