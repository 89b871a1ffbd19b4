package importers

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mrlokans/bookcatalog/internal/catalog"
)

// CSV header names of the catalog export, mapped to wire field names.
// Headers are matched exactly.
var catalogCSVColumns = []struct {
	header string
	field  string
}{
	{"Name", catalog.FieldName},
	{"Author", catalog.FieldAuthor},
	{"User Rating", catalog.FieldUserRating},
	{"Reviews", catalog.FieldReviews},
	{"Price", catalog.FieldPrice},
	{"Year", catalog.FieldYear},
	{"Genre", catalog.FieldGenre},
}

var requiredCSVHeaders = []string{"Name", "Author"}

// ParseCatalogCSV reads a catalog CSV (Name,Author,User Rating,Reviews,Price,Year,Genre)
// into raw candidates. Cells are passed through as strings; validation is the
// pipeline's job, so a row with an empty Name is still returned and later
// rejected.
//
// Returns the candidates, line-numbered errors for malformed lines (which are
// skipped), and a fatal error when the header is missing or unreadable.
func ParseCatalogCSV(r io.Reader) ([]catalog.RawCandidate, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil, fmt.Errorf("failed to read header: empty file")
		}
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Build header index map
	headerIndex := make(map[string]int)
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		headerIndex[h] = i
	}

	for _, h := range requiredCSVHeaders {
		if _, ok := headerIndex[h]; !ok {
			return nil, nil, fmt.Errorf("missing required header: %s", h)
		}
	}

	var rows []catalog.RawCandidate
	var parseErrors []string

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				parseErrors = append(parseErrors, fmt.Sprintf("Line %d: %v", perr.Line, perr.Err))
				continue
			}
			return rows, parseErrors, fmt.Errorf("failed to read csv: %w", err)
		}

		row := make(catalog.RawCandidate, len(catalogCSVColumns))
		for _, col := range catalogCSVColumns {
			if value, ok := getCSVValue(record, headerIndex, col.header); ok {
				row[col.field] = value
			}
		}
		rows = append(rows, row)
	}

	return rows, parseErrors, nil
}

// getCSVValue returns the cell under header. ok is false when the column is
// not present in the file or the record is short.
func getCSVValue(record []string, headerIndex map[string]int, header string) (string, bool) {
	if idx, ok := headerIndex[header]; ok && idx < len(record) {
		return record[idx], true
	}
	return "", false
}

// CSVImportResult is a BatchResult plus the lines that could not be parsed.
type CSVImportResult struct {
	BatchResult
	ParseErrors []string
}

// ImportCSV parses a catalog CSV and ingests every row as a bulk import.
func (p *Pipeline) ImportCSV(ctx context.Context, r io.Reader) (CSVImportResult, error) {
	rows, parseErrors, err := ParseCatalogCSV(r)
	if err != nil {
		return CSVImportResult{ParseErrors: parseErrors}, err
	}

	batch, err := p.IngestBatch(ctx, rows)
	return CSVImportResult{BatchResult: batch, ParseErrors: parseErrors}, err
}

// ImportCSVFile is ImportCSV reading from a file on disk.
func (p *Pipeline) ImportCSVFile(ctx context.Context, path string) (CSVImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return CSVImportResult{}, fmt.Errorf("failed to open csv: %w", err)
	}
	defer f.Close()

	return p.ImportCSV(ctx, f)
}
