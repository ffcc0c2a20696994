package ingest

import (
	"fmt"
	"strings"
)

// financialKeywords are the column-name fragments that identify a header row
// in a financial spreadsheet.
var financialKeywords = []string{
	"jurisdiction", "entity", "revenue", "income", "tax", "expense",
	"profit", "margin", "rate", "amount", "status", "parent",
}

// headerScanLimit bounds how many leading rows are scanned for a header.
const headerScanLimit = 10

// minKeywordMatches is the score a row needs to be accepted as a header.
const minKeywordMatches = 3

// minNonNumericCells is the fallback acceptance bar when no row scores
// enough keywords.
const minNonNumericCells = 2

// ScoreHeaderRow returns how many distinct financial keywords appear in the
// row. It is a pure function so the "is this the header" decision can be
// tested against synthetic malformed tables.
func ScoreHeaderRow(row []string) int {
	var parts []string
	for _, cell := range row {
		if c := strings.TrimSpace(cell); c != "" {
			parts = append(parts, strings.ToLower(c))
		}
	}
	rowText := strings.Join(parts, " ")

	score := 0
	for _, keyword := range financialKeywords {
		if strings.Contains(rowText, keyword) {
			score++
		}
	}
	return score
}

// FindHeaderRow scans the first rows of a sheet for the real header. A row
// containing at least minKeywordMatches financial keywords wins; failing
// that, the first row with at least minNonNumericCells non-numeric cells is
// taken as a weaker candidate. Returns false when neither heuristic finds
// anything.
func FindHeaderRow(rows [][]string) (int, bool) {
	limit := len(rows)
	if limit > headerScanLimit {
		limit = headerScanLimit
	}

	for i := 0; i < limit; i++ {
		if ScoreHeaderRow(rows[i]) >= minKeywordMatches {
			return i, true
		}
	}

	// No keyword-bearing row; fall back to the first row that looks like
	// labels rather than data.
	for i := range rows {
		if isBlankRow(rows[i]) {
			continue
		}
		nonNumeric := 0
		for _, cell := range rows[i] {
			c := strings.TrimSpace(cell)
			if c != "" && !isNumericCell(c) {
				nonNumeric++
			}
		}
		if nonNumeric >= minNonNumericCells {
			return i, true
		}
	}

	return 0, false
}

// CleanHeaders trims header cells and substitutes positional placeholder
// names for empty ones.
func CleanHeaders(row []string) []string {
	cleaned := make([]string, len(row))
	for i, cell := range row {
		c := strings.TrimSpace(cell)
		if c == "" {
			c = fmt.Sprintf("column_%d", i)
		}
		cleaned[i] = c
	}
	return cleaned
}

// isNumericCell reports whether a cell holds a plain number.
func isNumericCell(s string) bool {
	stripped := strings.NewReplacer(".", "", "-", "", ",", "").Replace(s)
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
