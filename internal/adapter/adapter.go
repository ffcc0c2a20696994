package adapter

import (
	"fmt"
	"log/slog"

	"globecli/internal/errors"
	"globecli/internal/ingest"
	"globecli/pkg/contracts/domain"
)

// Result is an adapted record together with the set of canonical fields that
// were actually populated and any coercion warnings. Warnings are advisory;
// they never fail the adaptation.
type Result struct {
	Record   domain.Record
	Fields   domain.FieldSet
	Warnings []string
}

// Adapter converts format-specific inputs into canonical financial records.
type Adapter struct {
	logger *slog.Logger
}

// New creates an Adapter.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{logger: logger}
}

// Adapt dispatches on the source format. Tabular formats expect an
// *ingest.Table; xml and pdf expect string content; json accepts either raw
// content or an already-decoded object. An already-canonical record passes
// through unchanged.
func (a *Adapter) Adapt(input interface{}, format domain.SourceFormat) (Result, error) {
	// Canonicalization is idempotent: adapting a canonical record is a no-op.
	if rec, ok := input.(domain.Record); ok {
		return a.AdaptRecord(rec), nil
	}

	switch format {
	case domain.FormatExcel, domain.FormatCSV:
		table, ok := input.(*ingest.Table)
		if !ok {
			return Result{}, errors.NewParsingError(fmt.Sprintf("%s adaptation requires a table, got %T", format, input), nil)
		}
		return a.AdaptTable(table, format), nil
	case domain.FormatJSON:
		if payload, ok := input.(map[string]interface{}); ok {
			return a.AdaptMap(payload), nil
		}
		return a.AdaptJSON(asString(input))
	case domain.FormatXML:
		return a.AdaptXML(asString(input))
	case domain.FormatPDF:
		return a.AdaptPDFText(asString(input)), nil
	default:
		return Result{}, errors.NewUnsupportedFormatError(fmt.Sprintf("unsupported format: %s", format))
	}
}

// AdaptRecord returns the record unchanged with every populated field
// marked. Zero numeric values are indistinguishable from defaults at this
// point, so they stay unmarked unless a string field proves the record
// carries entity data.
func (a *Adapter) AdaptRecord(rec domain.Record) Result {
	fields := domain.FieldSet{}
	for _, f := range domain.NumericFields() {
		if rec.NumericValue(f) != 0 {
			fields.Add(f)
		}
	}
	for _, f := range []domain.Field{domain.FieldEntityName, domain.FieldTaxResidence, domain.FieldJurisdiction, domain.FieldParentJurisdiction} {
		if rec.StringValue(f) != "" {
			fields.Add(f)
		}
	}
	return Result{Record: rec, Fields: fields}
}

// AdaptTable maps a table's columns onto canonical fields and takes one
// representative value per mapped field: the first non-null in the column.
// Unmatched columns are dropped.
func (a *Adapter) AdaptTable(table *ingest.Table, format domain.SourceFormat) Result {
	res := Result{
		Record: domain.Record{
			SourceFormat: format,
			TotalRows:    table.RowCount(),
			TotalColumns: table.ColumnCount(),
		},
		Fields: domain.FieldSet{},
	}

	for col, header := range table.Headers {
		field, ok := matchColumn(header)
		if !ok || res.Fields.Has(field) {
			continue
		}
		value := table.FirstValue(col)
		if value == "" {
			continue
		}
		a.setField(&res, field, value, header)
	}

	a.logger.Debug("adapted table",
		slog.String("format", string(format)),
		slog.Int("mapped_fields", len(res.Fields)),
		slog.Int("warnings", len(res.Warnings)))

	return res
}

// AdaptTableRows adapts each data row of a multi-entity table into its own
// record, for batch analysis of per-entity filings.
func (a *Adapter) AdaptTableRows(table *ingest.Table, format domain.SourceFormat) []Result {
	// Resolve the column mapping once; per-row values reuse it.
	type mapping struct {
		col    int
		header string
		field  domain.Field
	}
	var mappings []mapping
	claimed := map[domain.Field]bool{}
	for col, header := range table.Headers {
		field, ok := matchColumn(header)
		if !ok || claimed[field] {
			continue
		}
		claimed[field] = true
		mappings = append(mappings, mapping{col: col, header: header, field: field})
	}

	results := make([]Result, 0, table.RowCount())
	for row := 0; row < table.RowCount(); row++ {
		res := Result{
			Record: domain.Record{SourceFormat: format},
			Fields: domain.FieldSet{},
		}
		for _, m := range mappings {
			value := table.Cell(row, m.col)
			if value == "" {
				continue
			}
			a.setField(&res, m.field, value, m.header)
		}
		results = append(results, res)
	}
	return results
}

// setField assigns one canonical field, coercing numerics with graceful
// fallback to zero plus a warning.
func (a *Adapter) setField(res *Result, field domain.Field, raw, source string) {
	if stringFields[field] {
		assignString(&res.Record, field, raw)
		res.Fields.Add(field)
		return
	}

	value, ok := ParseNumeric(raw)
	if !ok {
		res.Warnings = append(res.Warnings, fmt.Sprintf("could not convert column '%s' to numeric", source))
	}
	assignNumeric(&res.Record, field, value)
	res.Fields.Add(field)
}

func assignNumeric(rec *domain.Record, field domain.Field, value float64) {
	switch field {
	case domain.FieldPreTaxIncome:
		rec.PreTaxIncome = value
	case domain.FieldCurrentTaxExpense:
		rec.CurrentTaxExpense = value
	case domain.FieldDeferredTaxExpense:
		rec.DeferredTaxExpense = value
	case domain.FieldRevenue:
		rec.Revenue = value
	case domain.FieldEligiblePayroll:
		rec.EligiblePayroll = value
	case domain.FieldEligibleTangibleAssets:
		rec.EligibleTangibleAssets = value
	case domain.FieldDomesticTaxRate:
		rec.DomesticTaxRate = value
	}
}

func assignString(rec *domain.Record, field domain.Field, value string) {
	switch field {
	case domain.FieldEntityName:
		rec.EntityName = value
	case domain.FieldTaxResidence:
		rec.TaxResidence = value
	case domain.FieldJurisdiction:
		rec.Jurisdiction = value
	case domain.FieldParentJurisdiction:
		rec.ParentJurisdiction = value
	}
}

func asString(input interface{}) string {
	switch v := input.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
