package ingest

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"globecli/internal/errors"
)

// CSVReader reads delimited files and repairs exports that collapsed into a
// single quoted column.
type CSVReader struct {
	logger *slog.Logger
}

// NewCSVReader creates a CSV reader.
func NewCSVReader(logger *slog.Logger) *CSVReader {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVReader{logger: logger}
}

// ReadFile reads a CSV file into a Table, repairing it if malformed. The
// file handle is released on every exit path.
func (r *CSVReader) ReadFile(path string) (*Table, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewStorageError(fmt.Sprintf("failed to read CSV file %s", path), err)
	}
	return r.Read(string(content))
}

// Read parses CSV content into a Table. A parse that collapses to a single
// column triggers the repair path; if repair reports no fix, alternate
// delimiters are tried before giving up.
func (r *CSVReader) Read(content string) (*Table, error) {
	table, err := parseDelimited(content, ',')
	if err == nil && table.ColumnCount() > 1 {
		return table, nil
	}

	r.logger.Warn("CSV parse collapsed to a single column, attempting repair",
		slog.Int("columns", columnCountOrZero(table)))

	repaired, repairErr := RepairCSVContent(content)
	if repairErr == nil {
		table, err = parseDelimited(repaired, ',')
		if err == nil && table.ColumnCount() > 1 {
			r.logger.Info("CSV repair succeeded",
				slog.Int("columns", table.ColumnCount()),
				slog.Int("rows", table.RowCount()))
			return table, nil
		}
	}

	// No quote-wrapping fix available; fall back to alternate delimiters.
	for _, delim := range []rune{';', '\t', '|'} {
		table, err = parseDelimited(content, delim)
		if err == nil && table.ColumnCount() > 1 {
			r.logger.Info("CSV parsed with alternate delimiter",
				slog.String("delimiter", string(delim)))
			return table, nil
		}
	}

	return nil, errors.NewRepairFailedError("could not reconstruct a multi-column table from CSV content", repairErr)
}

// RepairCSVContent fixes a CSV whose every line was wrapped in one pair of
// quotes, collapsing the table into a single column. The header line's outer
// quotes are stripped and the content split on commas; the same treatment is
// applied to each data line. When the first line is not quote-wrapped there
// is no fix available and an error is returned so the caller can fall back.
func RepairCSVContent(content string) (string, error) {
	lines := strings.Split(strings.TrimSpace(content), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return "", errors.NewRepairFailedError("empty CSV content", nil)
	}

	first := strings.TrimSpace(lines[0])
	if !strings.HasPrefix(first, `"`) || !strings.HasSuffix(first, `"`) || len(first) < 2 {
		return "", errors.NewRepairFailedError("first line is not quote-wrapped, no fix available", nil)
	}

	fixed := make([]string, 0, len(lines))
	fixed = append(fixed, stripAndSplit(first))

	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, `"`) && strings.HasSuffix(line, `"`) && len(line) >= 2 {
			fixed = append(fixed, stripAndSplit(line))
		} else {
			fixed = append(fixed, line)
		}
	}

	return strings.Join(fixed, "\n"), nil
}

// DetectCSVIssues scans CSV content for common structural problems. It is
// advisory only; an empty slice means no issues were found.
func DetectCSVIssues(content string) []string {
	var issues []string

	table, err := parseDelimited(content, ',')
	if err != nil {
		return []string{fmt.Sprintf("error reading content: %v", err)}
	}
	if table.ColumnCount() == 1 {
		issues = append(issues, "single column detected - likely malformed headers")
	}
	if table.IsEmpty() {
		issues = append(issues, "empty dataset")
	}
	for col, header := range table.Headers {
		missing := table.RowCount() - len(table.ColumnValues(col))
		if missing > 0 {
			issues = append(issues, fmt.Sprintf("missing values in %s: %d", header, missing))
		}
	}
	return issues
}

func stripAndSplit(line string) string {
	inner := line[1 : len(line)-1]
	parts := strings.Split(inner, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return strings.Join(parts, ",")
}

func parseDelimited(content string, delim rune) (*Table, error) {
	reader := csv.NewReader(strings.NewReader(content))
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.NewParsingError("failed to parse delimited content", err)
	}
	if len(records) == 0 {
		return &Table{}, nil
	}

	table := &Table{Headers: CleanHeaders(records[0])}
	for _, row := range records[1:] {
		if isBlankRow(row) {
			continue
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func columnCountOrZero(t *Table) int {
	if t == nil {
		return 0
	}
	return t.ColumnCount()
}
