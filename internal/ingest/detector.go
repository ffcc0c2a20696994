package ingest

import (
	"path/filepath"
	"strings"

	"globecli/internal/errors"
	"globecli/pkg/contracts/domain"
)

// Detect classifies an arbitrary input value as one of the supported source
// formats. Detection is best-effort and the hint always wins when supplied:
// a tabular object is excel-or-csv (disambiguated by the hint), a string
// starting with "<?xml" is XML, a string starting with "{" is JSON, and any
// other string is treated as extracted document text. An unclassifiable
// value with no hint is an error, not a guess.
func Detect(input interface{}, hint domain.SourceFormat) (domain.SourceFormat, error) {
	if hint != "" && hint != domain.FormatUnknown {
		return hint, nil
	}

	switch v := input.(type) {
	case *Table:
		// Without a hint there is nothing to disambiguate excel from csv;
		// csv is the safer default for an in-memory table.
		return domain.FormatCSV, nil
	case []byte:
		return detectText(string(v))
	case string:
		return detectText(v)
	case map[string]interface{}:
		return domain.FormatJSON, nil
	case domain.Record:
		return recordFormat(v), nil
	case *domain.Record:
		return recordFormat(*v), nil
	default:
		return domain.FormatUnknown, errors.NewUnsupportedFormatError("could not classify input and no format hint given")
	}
}

// DetectFromPath infers a format from a file extension.
func DetectFromPath(path string) (domain.SourceFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		return domain.FormatExcel, nil
	case ".csv":
		return domain.FormatCSV, nil
	case ".json":
		return domain.FormatJSON, nil
	case ".xml":
		return domain.FormatXML, nil
	case ".pdf", ".txt":
		return domain.FormatPDF, nil
	default:
		return domain.FormatUnknown, errors.NewUnsupportedFormatError("unsupported file extension: " + filepath.Ext(path))
	}
}

// recordFormat preserves the provenance of a record that already went
// through the pipeline once.
func recordFormat(r domain.Record) domain.SourceFormat {
	if r.SourceFormat != "" {
		return r.SourceFormat
	}
	return domain.FormatUnknown
}

func detectText(s string) (domain.SourceFormat, error) {
	trimmed := strings.TrimSpace(s)
	switch {
	case trimmed == "":
		return domain.FormatUnknown, errors.NewUnsupportedFormatError("empty input")
	case strings.HasPrefix(trimmed, "<?xml"):
		return domain.FormatXML, nil
	case strings.HasPrefix(trimmed, "{"):
		return domain.FormatJSON, nil
	default:
		// Any other free text is assumed to be extracted document content.
		return domain.FormatPDF, nil
	}
}
