package ingest

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"globecli/internal/errors"
)

// ExcelReader reads workbooks and repairs sheets whose real header is buried
// under blank or decorative rows.
type ExcelReader struct {
	logger *slog.Logger
}

// NewExcelReader creates an Excel reader.
func NewExcelReader(logger *slog.Logger) *ExcelReader {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelReader{logger: logger}
}

// ReadFile reads the first usable sheet of a workbook into a Table, running
// header repair when the sheet looks malformed. The workbook handle is
// closed on every exit path.
func (r *ExcelReader) ReadFile(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewStorageError(fmt.Sprintf("failed to open Excel file %s", path), err)
	}
	defer f.Close()

	rows, sheetName, err := r.findDataSheet(f)
	if err != nil {
		return nil, err
	}

	r.logger.Info("found data sheet",
		slog.String("sheet_name", sheetName),
		slog.Int("total_rows", len(rows)))

	return r.ReadRows(rows)
}

// ReadStream reads a workbook from an io.Reader, for uploads that never
// touch disk. The same repair path as ReadFile applies.
func (r *ExcelReader) ReadStream(src io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, errors.NewParsingError("failed to open Excel stream", err)
	}
	defer f.Close()

	rows, sheetName, err := r.findDataSheet(f)
	if err != nil {
		return nil, err
	}

	r.logger.Info("found data sheet",
		slog.String("sheet_name", sheetName),
		slog.Int("total_rows", len(rows)))

	return r.ReadRows(rows)
}

// InspectStream reports structural issues in a workbook without building a
// table, for pre-flight checks on uploads.
func (r *ExcelReader) InspectStream(src io.Reader) []string {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return []string{"not a readable workbook: " + err.Error()}
	}
	defer f.Close()

	rows, _, err := r.findDataSheet(f)
	if err != nil {
		return []string{err.Error()}
	}
	return DetectExcelIssues(rows)
}

// ReadRows turns raw sheet rows into a Table, repairing when the sheet shape
// indicates a malformed export.
func (r *ExcelReader) ReadRows(rows [][]string) (*Table, error) {
	if len(rows) == 0 {
		return nil, errors.NewParsingError("sheet contains no rows", nil)
	}

	if !NeedsRepair(rows) {
		table := &Table{Headers: CleanHeaders(rows[0])}
		for _, row := range rows[1:] {
			if isBlankRow(row) {
				continue
			}
			table.Rows = append(table.Rows, row)
		}
		return table, nil
	}

	r.logger.Warn("sheet appears malformed, attempting header repair")
	return RepairExcelRows(rows)
}

// NeedsRepair reports whether the sheet shape indicates a malformed export:
// more than half the header cells are placeholders, or the leading rows are
// entirely empty.
func NeedsRepair(rows [][]string) bool {
	if len(rows) == 0 {
		return false
	}

	// A blank first row means the real header is buried further down.
	if isBlankRow(rows[0]) {
		return true
	}

	header := rows[0]
	placeholder := 0
	for _, cell := range header {
		c := strings.TrimSpace(cell)
		if c == "" || strings.Contains(c, "Unnamed") {
			placeholder++
		}
	}
	return placeholder*2 > len(header)
}

// RepairExcelRows locates the real header row and rebuilds the table from
// it: everything above the header is discarded, everything below becomes the
// data body, with cleaned column names and fully empty rows dropped. When no
// header candidate qualifies the repair reports failure rather than
// guessing.
func RepairExcelRows(rows [][]string) (*Table, error) {
	headerIdx, found := FindHeaderRow(rows)
	if !found {
		return nil, errors.NewRepairFailedError("could not find a header row in sheet", nil)
	}

	table := &Table{Headers: CleanHeaders(rows[headerIdx])}
	for _, row := range rows[headerIdx+1:] {
		if isBlankRow(row) {
			continue
		}
		table.Rows = append(table.Rows, row)
	}

	if table.IsEmpty() {
		return nil, errors.NewRepairFailedError("header found but no data rows below it", nil)
	}
	return table, nil
}

// DetectExcelIssues scans sheet rows for common structural problems. It is
// advisory only.
func DetectExcelIssues(rows [][]string) []string {
	var issues []string
	if len(rows) == 0 {
		return []string{"empty sheet"}
	}

	header := rows[0]
	placeholder := 0
	for _, cell := range header {
		c := strings.TrimSpace(cell)
		if c == "" || strings.Contains(c, "Unnamed") {
			placeholder++
		}
	}
	if len(header) > 0 && placeholder*2 > len(header) {
		issues = append(issues, fmt.Sprintf("too many unnamed columns: %d/%d", placeholder, len(header)))
	}

	emptyLeading := 0
	for i := 0; i < len(rows) && i < 3; i++ {
		if isBlankRow(rows[i]) {
			emptyLeading++
		}
	}
	if emptyLeading > 0 {
		issues = append(issues, fmt.Sprintf("empty rows at beginning: %d", emptyLeading))
	}

	return issues
}

// findDataSheet picks the sheet that holds financial data, preferring the
// one whose leading rows score against the financial vocabulary.
func (r *ExcelReader) findDataSheet(f *excelize.File) ([][]string, string, error) {
	var fallbackRows [][]string
	var fallbackName string

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil || len(rows) == 0 {
			continue
		}
		if fallbackRows == nil {
			fallbackRows = rows
			fallbackName = name
		}

		limit := len(rows)
		if limit > headerScanLimit {
			limit = headerScanLimit
		}
		for i := 0; i < limit; i++ {
			if ScoreHeaderRow(rows[i]) >= minKeywordMatches {
				return rows, name, nil
			}
		}
	}

	if fallbackRows == nil {
		return nil, "", errors.NewParsingError("could not find a data sheet in workbook", nil)
	}
	return fallbackRows, fallbackName, nil
}
