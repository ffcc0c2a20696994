package adapter

import (
	"encoding/json"
	"fmt"
	"log/slog"

	jsonrepair "github.com/RealAlexandreAI/json-repair"

	"globecli/internal/errors"
	"globecli/pkg/contracts/domain"
)

// jsonKeyMapping maps accepted JSON keys onto canonical fields. Canonical
// names are accepted alongside the common source spellings so that
// re-adapting canonical output is a no-op.
var jsonKeyMapping = map[string]domain.Field{
	"pre_tax_income":           domain.FieldPreTaxIncome,
	"profit_before_tax":        domain.FieldPreTaxIncome,
	"income_before_tax":        domain.FieldPreTaxIncome,
	"current_tax_expense":      domain.FieldCurrentTaxExpense,
	"current_tax":              domain.FieldCurrentTaxExpense,
	"deferred_tax_expense":     domain.FieldDeferredTaxExpense,
	"deferred_tax":             domain.FieldDeferredTaxExpense,
	"revenue":                  domain.FieldRevenue,
	"eligible_payroll":         domain.FieldEligiblePayroll,
	"eligible_tangible_assets": domain.FieldEligibleTangibleAssets,
	"domestic_tax_rate":        domain.FieldDomesticTaxRate,
	"entity_name":              domain.FieldEntityName,
	"tax_residence":            domain.FieldTaxResidence,
	"jurisdiction":             domain.FieldJurisdiction,
	"parent_jurisdiction":      domain.FieldParentJurisdiction,
}

// AdaptJSON adapts a JSON document. Malformed JSON gets one repair attempt
// before the adapter gives up; a successful repair is surfaced as a warning
// so callers know the source was not clean.
func (a *Adapter) AdaptJSON(content string) (Result, error) {
	var payload map[string]interface{}
	var warnings []string

	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		repaired, repairErr := jsonrepair.RepairJSON(content)
		if repairErr != nil {
			return Result{}, errors.NewParsingError("failed to parse JSON content", err)
		}
		if err := json.Unmarshal([]byte(repaired), &payload); err != nil {
			return Result{}, errors.NewParsingError("failed to parse JSON content after repair", err)
		}
		a.logger.Warn("malformed JSON repaired before adaptation")
		warnings = append(warnings, "malformed JSON was repaired before adaptation")
	}

	res := a.AdaptMap(payload)
	res.Warnings = append(warnings, res.Warnings...)
	return res, nil
}

// AdaptMap adapts an already-parsed JSON object.
func (a *Adapter) AdaptMap(payload map[string]interface{}) Result {
	res := Result{
		Record: domain.Record{SourceFormat: domain.FormatJSON},
		Fields: domain.FieldSet{},
	}

	for key, field := range jsonKeyMapping {
		raw, present := payload[key]
		if !present || raw == nil {
			continue
		}
		if stringFields[field] {
			if s, ok := raw.(string); ok && s != "" {
				assignString(&res.Record, field, s)
				res.Fields.Add(field)
			}
			continue
		}
		switch v := raw.(type) {
		case float64:
			assignNumeric(&res.Record, field, v)
			res.Fields.Add(field)
		case string:
			value, ok := ParseNumeric(v)
			if !ok {
				res.Warnings = append(res.Warnings, fmt.Sprintf("could not convert field '%s' to numeric", key))
			}
			assignNumeric(&res.Record, field, value)
			res.Fields.Add(field)
		default:
			res.Warnings = append(res.Warnings, fmt.Sprintf("unexpected type for field '%s'", key))
		}
	}

	// Constituent entities ride along for group-level UTPR analysis.
	if rawEntities, ok := payload["constituent_entities"].([]interface{}); ok {
		for _, rawEntity := range rawEntities {
			entity, ok := rawEntity.(map[string]interface{})
			if !ok {
				continue
			}
			ce := domain.ConstituentEntity{}
			if name, ok := entity["name"].(string); ok {
				ce.Name = name
			}
			if etr, ok := entity["etr"].(float64); ok {
				ce.ETR = etr
			}
			res.Record.ConstituentEntities = append(res.Record.ConstituentEntities, ce)
		}
	}

	a.logger.Debug("adapted JSON object", slog.Int("mapped_fields", len(res.Fields)))
	return res
}
