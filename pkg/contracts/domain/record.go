package domain

// Field identifies a canonical financial field name. The adapter maps
// source-specific column names, XML tags, and JSON keys onto these.
type Field string

const (
	FieldPreTaxIncome           Field = "pre_tax_income"
	FieldCurrentTaxExpense      Field = "current_tax_expense"
	FieldDeferredTaxExpense     Field = "deferred_tax_expense"
	FieldRevenue                Field = "revenue"
	FieldEligiblePayroll        Field = "eligible_payroll"
	FieldEligibleTangibleAssets Field = "eligible_tangible_assets"
	FieldDomesticTaxRate        Field = "domestic_tax_rate"
	FieldEntityName             Field = "entity_name"
	FieldTaxResidence           Field = "tax_residence"
	FieldJurisdiction           Field = "jurisdiction"
	FieldParentJurisdiction     Field = "parent_jurisdiction"
)

// SourceFormat identifies the original format a record was adapted from.
type SourceFormat string

const (
	FormatExcel   SourceFormat = "excel"
	FormatCSV     SourceFormat = "csv"
	FormatJSON    SourceFormat = "json"
	FormatXML     SourceFormat = "xml"
	FormatPDF     SourceFormat = "pdf"
	FormatUnknown SourceFormat = "unknown"
)

// FieldSet tracks which canonical fields were actually populated from the
// source. A zero value in the record is ambiguous on its own; membership
// here distinguishes "mapped to zero" from "genuinely missing".
type FieldSet map[Field]bool

// Has reports whether the field was populated from the source data.
func (fs FieldSet) Has(f Field) bool {
	return fs[f]
}

// Add marks a field as populated.
func (fs FieldSet) Add(f Field) {
	fs[f] = true
}

// ConstituentEntity is a member entity of an MNE group, carried for
// UTPR applicability analysis.
type ConstituentEntity struct {
	Name string  `json:"name"`
	ETR  float64 `json:"etr"`
}

// Record is the canonical financial record produced by the format adapter.
// Financial fields are always numeric after adaptation; downstream stages
// rely on this without re-checking types. Records are never mutated once
// produced.
type Record struct {
	PreTaxIncome           float64 `json:"pre_tax_income"`
	CurrentTaxExpense      float64 `json:"current_tax_expense"`
	DeferredTaxExpense     float64 `json:"deferred_tax_expense"`
	Revenue                float64 `json:"revenue"`
	EligiblePayroll        float64 `json:"eligible_payroll"`
	EligibleTangibleAssets float64 `json:"eligible_tangible_assets"`
	DomesticTaxRate        float64 `json:"domestic_tax_rate"`

	EntityName         string `json:"entity_name"`
	TaxResidence       string `json:"tax_residence"`
	Jurisdiction       string `json:"jurisdiction"`
	ParentJurisdiction string `json:"parent_jurisdiction"`

	ConstituentEntities []ConstituentEntity `json:"constituent_entities,omitempty"`

	SourceFormat SourceFormat `json:"source_format"`
	TotalRows    int          `json:"total_rows,omitempty"`
	TotalColumns int          `json:"total_columns,omitempty"`
}

// NumericValue returns the value of a numeric canonical field.
func (r Record) NumericValue(f Field) float64 {
	switch f {
	case FieldPreTaxIncome:
		return r.PreTaxIncome
	case FieldCurrentTaxExpense:
		return r.CurrentTaxExpense
	case FieldDeferredTaxExpense:
		return r.DeferredTaxExpense
	case FieldRevenue:
		return r.Revenue
	case FieldEligiblePayroll:
		return r.EligiblePayroll
	case FieldEligibleTangibleAssets:
		return r.EligibleTangibleAssets
	case FieldDomesticTaxRate:
		return r.DomesticTaxRate
	default:
		return 0
	}
}

// StringValue returns the value of a string canonical field.
func (r Record) StringValue(f Field) string {
	switch f {
	case FieldEntityName:
		return r.EntityName
	case FieldTaxResidence:
		return r.TaxResidence
	case FieldJurisdiction:
		return r.Jurisdiction
	case FieldParentJurisdiction:
		return r.ParentJurisdiction
	default:
		return ""
	}
}

// JurisdictionOrResidence returns the jurisdiction if set, otherwise the
// tax residence. Aggregation groups by this key.
func (r Record) JurisdictionOrResidence() string {
	if r.Jurisdiction != "" {
		return r.Jurisdiction
	}
	return r.TaxResidence
}

// NumericFields lists the canonical fields holding monetary or rate values.
func NumericFields() []Field {
	return []Field{
		FieldPreTaxIncome,
		FieldCurrentTaxExpense,
		FieldDeferredTaxExpense,
		FieldRevenue,
		FieldEligiblePayroll,
		FieldEligibleTangibleAssets,
		FieldDomesticTaxRate,
	}
}

// ValidationResult carries the outcome of validating a Record. Warnings and
// suggestions are advisory; only Errors block the pipeline.
type ValidationResult struct {
	IsValid     bool     `json:"is_valid"`
	Errors      []string `json:"errors"`
	Warnings    []string `json:"warnings"`
	Suggestions []string `json:"suggestions"`
}

// Merge combines another validation result into this one. The merged result
// is valid only if both inputs are valid.
func (vr ValidationResult) Merge(other ValidationResult) ValidationResult {
	return ValidationResult{
		IsValid:     vr.IsValid && other.IsValid,
		Errors:      append(append([]string{}, vr.Errors...), other.Errors...),
		Warnings:    append(append([]string{}, vr.Warnings...), other.Warnings...),
		Suggestions: append(append([]string{}, vr.Suggestions...), other.Suggestions...),
	}
}
