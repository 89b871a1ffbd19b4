// Package tui provides the interactive terminal catalog browser.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrlokans/bookcatalog/internal/catalog"
	"github.com/mrlokans/bookcatalog/internal/entities"
	"github.com/mrlokans/bookcatalog/internal/services"
)

// termAppliedMsg carries a debounced search term back into the update loop.
type termAppliedMsg struct {
	term string
}

type column struct {
	title string
	width int
}

var columns = []column{
	{"Name", 32},
	{"Author", 22},
	{"Rating", 6},
	{"Reviews", 8},
	{"Price", 8},
	{"Year", 6},
	{"Genre", 14},
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			MarginBottom(1)

	headerCellStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("110")).
			PaddingRight(1)

	cellStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			PaddingRight(1)

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true)

	footerStyle = lipgloss.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color("247"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))
)

type model struct {
	input   textinput.Model
	browser *catalog.Browser
	// push feeds raw keystrokes to the debouncer.
	push func(string)
	last string
}

func newModel(browser *catalog.Browser, push func(string)) *model {
	input := textinput.New()
	input.Placeholder = "Search by name or author"
	input.Prompt = "Search: "
	input.CharLimit = 128
	input.Focus()

	return &model{
		input:   input,
		browser: browser,
		push:    push,
	}
}

func (m *model) Init() tea.Cmd { return textinput.Blink }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			return m, tea.Quit
		case "ctrl+n", "pgdown":
			m.browser.LoadMore()
			return m, nil
		}
	case termAppliedMsg:
		m.browser.SetTerm(msg.term)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if value := m.input.Value(); value != m.last {
		m.last = value
		m.push(value)
	}
	return m, cmd
}

func (m *model) View() string {
	view := m.browser.View()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Book Catalog"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if len(view.Books) == 0 {
		b.WriteString(emptyStyle.Render("No books found"))
		b.WriteString("\n")
	} else {
		b.WriteString(renderHeader())
		b.WriteString("\n")
		for _, book := range view.Books {
			b.WriteString(renderRow(book))
			b.WriteString("\n")
		}
	}

	b.WriteString(footerStyle.Render(footer(view)))
	b.WriteString("\n")
	help := "esc quit"
	if view.HasMore {
		help = "ctrl+n/pgdown load more | " + help
	}
	b.WriteString(helpStyle.Render(help))
	return b.String()
}

func renderHeader() string {
	cells := make([]string, len(columns))
	for i, col := range columns {
		cells[i] = headerCellStyle.Width(col.width + 1).Render(col.title)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func renderRow(book entities.Book) string {
	values := []string{
		book.Name,
		book.Author,
		formatRating(book.UserRating),
		formatWhole(book.Reviews),
		formatPrice(book.Price),
		formatWhole(book.Year),
		formatText(book.Genre),
	}
	cells := make([]string, len(columns))
	for i, col := range columns {
		cells[i] = cellStyle.Width(col.width + 1).Render(truncate(values[i], col.width))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func footer(view catalog.View) string {
	return fmt.Sprintf("Showing %d of %d result(s)", len(view.Books), view.TotalMatched)
}

// Browse loads the catalog once and runs the interactive browser until the
// user quits. Keystrokes are debounced before the search term is applied.
func Browse(ctx context.Context, reader services.CatalogReader, pageSize int, debounce time.Duration) error {
	books, err := reader.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	browser := catalog.NewBrowser(pageSize)
	browser.SetCatalog(books)

	var program *tea.Program
	debouncer := catalog.NewDebouncer(debounce, func(term string) {
		program.Send(termAppliedMsg{term: term})
	})
	defer debouncer.Stop()

	program = tea.NewProgram(newModel(browser, debouncer.Push), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("browser: %w", err)
	}
	return nil
}
