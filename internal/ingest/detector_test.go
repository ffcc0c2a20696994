package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"globecli/pkg/contracts/domain"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		input   interface{}
		hint    domain.SourceFormat
		want    domain.SourceFormat
		wantErr bool
	}{
		{
			name:  "hint always wins",
			input: &Table{},
			hint:  domain.FormatExcel,
			want:  domain.FormatExcel,
		},
		{
			name:  "table without hint defaults to csv",
			input: &Table{},
			want:  domain.FormatCSV,
		},
		{
			name:  "xml declaration",
			input: `<?xml version="1.0"?><root/>`,
			want:  domain.FormatXML,
		},
		{
			name:  "json object",
			input: `{"pre_tax_income": 100}`,
			want:  domain.FormatJSON,
		},
		{
			name:  "free text is document content",
			input: "Pre-Tax Income: 1,000,000",
			want:  domain.FormatPDF,
		},
		{
			name:  "byte payload",
			input: []byte(`{"a":1}`),
			want:  domain.FormatJSON,
		},
		{
			name:  "decoded json map",
			input: map[string]interface{}{"a": 1.0},
			want:  domain.FormatJSON,
		},
		{
			name:  "canonical record keeps its provenance",
			input: domain.Record{SourceFormat: domain.FormatExcel},
			want:  domain.FormatExcel,
		},
		{
			name:    "empty string",
			input:   "   ",
			wantErr: true,
		},
		{
			name:    "unclassifiable value",
			input:   42,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Detect(tt.input, tt.hint)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFromPath(t *testing.T) {
	cases := map[string]domain.SourceFormat{
		"filing.xlsx":      domain.FormatExcel,
		"filing.XLS":       domain.FormatExcel,
		"filing.csv":       domain.FormatCSV,
		"filing.json":      domain.FormatJSON,
		"filing.xml":       domain.FormatXML,
		"extract.pdf":      domain.FormatPDF,
		"extract.txt":      domain.FormatPDF,
		"dir/filing.xlsx":  domain.FormatExcel,
	}
	for path, want := range cases {
		got, err := DetectFromPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := DetectFromPath("filing.docx")
	require.Error(t, err)
}
