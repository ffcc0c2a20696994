package adapter

import (
	"strings"

	"globecli/pkg/contracts/domain"
)

// synonym binds a source-name pattern to a canonical field. Order matters:
// the table is scanned top to bottom and the first match wins, so more
// specific patterns sit above the generic ones they contain.
type synonym struct {
	pattern string
	field   domain.Field
}

// columnSynonyms is the shared synonym table for tabular sources (Excel and
// CSV headers normalize to the same space-separated lowercase form).
var columnSynonyms = []synonym{
	{"profit before tax", domain.FieldPreTaxIncome},
	{"income before tax", domain.FieldPreTaxIncome},
	{"pre tax income", domain.FieldPreTaxIncome},
	{"globe income", domain.FieldPreTaxIncome},
	{"deferred tax", domain.FieldDeferredTaxExpense},
	{"current tax", domain.FieldCurrentTaxExpense},
	{"covered taxes", domain.FieldCurrentTaxExpense},
	{"tax expense", domain.FieldCurrentTaxExpense},
	{"total revenue", domain.FieldRevenue},
	{"revenue", domain.FieldRevenue},
	{"eligible payroll", domain.FieldEligiblePayroll},
	{"payroll costs", domain.FieldEligiblePayroll},
	{"tangible assets", domain.FieldEligibleTangibleAssets},
	{"domestic tax rate", domain.FieldDomesticTaxRate},
	{"statutory rate", domain.FieldDomesticTaxRate},
	{"entity name", domain.FieldEntityName},
	{"company name", domain.FieldEntityName},
	{"constituent entity", domain.FieldEntityName},
	{"tax residence", domain.FieldTaxResidence},
	{"parent jurisdiction", domain.FieldParentJurisdiction},
	{"jurisdiction", domain.FieldJurisdiction},
	{"country", domain.FieldJurisdiction},
}

// stringFields are the canonical fields whose values stay textual.
var stringFields = map[domain.Field]bool{
	domain.FieldEntityName:         true,
	domain.FieldTaxResidence:       true,
	domain.FieldJurisdiction:       true,
	domain.FieldParentJurisdiction: true,
}

// matchColumn finds the canonical field for a source column name using
// case-insensitive substring matching in both directions. The second return
// is false when no synonym matches and the column should be dropped.
func matchColumn(source string) (domain.Field, bool) {
	normalized := normalizeColumn(source)
	if normalized == "" {
		return "", false
	}
	// Headers that contain a pattern are checked first; otherwise a short
	// header like "jurisdiction" would be claimed by the longer "parent
	// jurisdiction" pattern that happens to contain it.
	for _, s := range columnSynonyms {
		if strings.Contains(normalized, s.pattern) {
			return s.field, true
		}
	}
	for _, s := range columnSynonyms {
		if strings.Contains(s.pattern, normalized) {
			return s.field, true
		}
	}
	return "", false
}

// normalizeColumn lowercases a header and collapses underscores, hyphens and
// extra whitespace so Excel-style and csv-style names share one synonym table.
func normalizeColumn(source string) string {
	s := strings.ToLower(strings.TrimSpace(source))
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")
	return strings.Join(strings.Fields(s), " ")
}
