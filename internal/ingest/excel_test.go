package ingest

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "globecli/internal/errors"
)

func TestNeedsRepair(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		want bool
	}{
		{
			name: "clean header",
			rows: [][]string{{"Jurisdiction", "Revenue"}, {"Ireland", "1000"}},
			want: false,
		},
		{
			name: "blank first row",
			rows: [][]string{{"", ""}, {"Jurisdiction", "Revenue"}},
			want: true,
		},
		{
			name: "mostly placeholder columns",
			rows: [][]string{{"Unnamed: 0", "Unnamed: 1", "Revenue"}, {"1", "2", "3"}},
			want: true,
		},
		{
			name: "minority placeholder columns",
			rows: [][]string{{"Jurisdiction", "Unnamed: 1", "Revenue"}, {"Ireland", "x", "1000"}},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NeedsRepair(tt.rows))
		})
	}
}

func TestRepairExcelRows(t *testing.T) {
	t.Run("header at row three", func(t *testing.T) {
		rows := [][]string{
			{"", "", "", ""},
			{"", "", "", ""},
			{"Jurisdiction", "Entity", "Revenue", "Tax"},
			{"Ireland", "Acme", "1000", "100"},
			{"", "", "", ""},
			{"Germany", "GmbH", "2000", "500"},
		}

		table, err := RepairExcelRows(rows)
		require.NoError(t, err)

		assert.Equal(t, []string{"Jurisdiction", "Entity", "Revenue", "Tax"}, table.Headers)
		assert.Equal(t, 2, table.RowCount())
		assert.Equal(t, "Germany", table.Cell(1, 0))
	})

	t.Run("no header candidate", func(t *testing.T) {
		rows := [][]string{{"1", "2"}, {"3", "4"}}
		_, err := RepairExcelRows(rows)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeRepairFailed))
	})

	t.Run("header with nothing below it", func(t *testing.T) {
		rows := [][]string{{"Jurisdiction", "Entity", "Revenue", "Tax"}}
		_, err := RepairExcelRows(rows)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeRepairFailed))
	})
}

func TestDetectExcelIssues(t *testing.T) {
	issues := DetectExcelIssues([][]string{
		{"", ""},
		{"Unnamed: 0", "Unnamed: 1"},
	})
	assert.NotEmpty(t, issues)

	clean := DetectExcelIssues([][]string{
		{"Jurisdiction", "Revenue"},
		{"Ireland", "1000"},
	})
	assert.Empty(t, clean)
}

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	path := filepath.Join(t.TempDir(), "test.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadFile_RepairsBuriedHeader(t *testing.T) {
	reader := NewExcelReader(nil)

	path := writeWorkbook(t, [][]interface{}{
		{"", ""},
		{"", ""},
		{"Jurisdiction", "Entity", "Revenue", "Tax"},
		{"Ireland", "Acme", 1000, 100},
	})

	table, err := reader.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Jurisdiction", "Entity", "Revenue", "Tax"}, table.Headers)
	require.Equal(t, 1, table.RowCount())
	assert.Equal(t, "Acme", table.Cell(0, 1))
}

func TestReadStream(t *testing.T) {
	reader := NewExcelReader(nil)

	path := writeWorkbook(t, [][]interface{}{
		{"Jurisdiction", "Entity", "Revenue", "Tax"},
		{"Ireland", "Acme", 1000, 100},
	})
	content, err := os.ReadFile(path)
	require.NoError(t, err)

	table, err := reader.ReadStream(bytes.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, 1, table.RowCount())
}
