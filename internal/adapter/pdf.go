package adapter

import (
	"log/slog"
	"regexp"
	"strings"

	"globecli/pkg/contracts/domain"
)

// pdfPatterns extract financial figures from text pulled out of a document.
// The numeric group tolerates thousands separators and an optional currency
// symbol before the figure.
var pdfPatterns = []struct {
	field   domain.Field
	pattern *regexp.Regexp
}{
	{domain.FieldPreTaxIncome, regexp.MustCompile(`(?i)(?:profit|income)\D{0,30}(?:before|pre)\D{0,30}tax\D{0,10}([\d,]+(?:\.\d+)?)`)},
	{domain.FieldCurrentTaxExpense, regexp.MustCompile(`(?i)(?:current|total)\D{0,30}tax\D{0,30}expense\D{0,10}([\d,]+(?:\.\d+)?)`)},
	{domain.FieldRevenue, regexp.MustCompile(`(?i)(?:total|gross)\D{0,30}revenue\D{0,10}([\d,]+(?:\.\d+)?)`)},
	{domain.FieldEntityName, regexp.MustCompile(`(?i)(?:company|entity|corporation)\s*name\s*:\s*([A-Za-z][A-Za-z .&-]*)`)},
	{domain.FieldTaxResidence, regexp.MustCompile(`(?i)(?:tax|fiscal)\s*residence\s*:\s*([A-Za-z][A-Za-z ]*)`)},
}

// AdaptPDFText extracts canonical fields from document text using fixed
// regex patterns. Extraction from free text is inherently lossy; fields the
// patterns cannot find are simply absent.
func (a *Adapter) AdaptPDFText(content string) Result {
	res := Result{
		Record: domain.Record{SourceFormat: domain.FormatPDF},
		Fields: domain.FieldSet{},
	}

	for _, p := range pdfPatterns {
		match := p.pattern.FindStringSubmatch(content)
		if match == nil {
			continue
		}
		value := strings.TrimSpace(match[1])
		if stringFields[p.field] {
			assignString(&res.Record, p.field, value)
			res.Fields.Add(p.field)
			continue
		}
		numeric, ok := ParseNumeric(value)
		if !ok {
			continue
		}
		assignNumeric(&res.Record, p.field, numeric)
		res.Fields.Add(p.field)
	}

	a.logger.Debug("adapted document text",
		slog.Int("content_length", len(content)),
		slog.Int("mapped_fields", len(res.Fields)))
	return res
}
