package adapter

import (
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"globecli/internal/errors"
	"globecli/pkg/contracts/domain"
)

// AdaptXML walks an XML document and maps element names onto canonical
// fields by tag-fragment matching. Element nesting is not significant; the
// first element matching a field wins.
func (a *Adapter) AdaptXML(content string) (Result, error) {
	res := Result{
		Record: domain.Record{SourceFormat: domain.FormatXML},
		Fields: domain.FieldSet{},
	}

	decoder := xml.NewDecoder(strings.NewReader(content))
	var currentTag string
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Result{}, errors.NewParsingError("failed to parse XML content", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			currentTag = strings.ToLower(t.Name.Local)
		case xml.CharData:
			text := strings.TrimSpace(string(t))
			if currentTag == "" || text == "" {
				continue
			}
			a.adaptXMLElement(&res, currentTag, text)
		case xml.EndElement:
			currentTag = ""
		}
	}

	a.logger.Debug("adapted XML document", slog.Int("mapped_fields", len(res.Fields)))
	return res, nil
}

// adaptXMLElement maps one element onto a canonical field. Deferred-tax tags
// are checked before the generic tax-expense rule so a DeferredTaxExpense
// element does not land in current_tax_expense.
func (a *Adapter) adaptXMLElement(res *Result, tag, text string) {
	var field domain.Field
	switch {
	case strings.Contains(tag, "deferred") && strings.Contains(tag, "tax"):
		field = domain.FieldDeferredTaxExpense
	case strings.Contains(tag, "profit") && strings.Contains(tag, "tax"):
		field = domain.FieldPreTaxIncome
	case strings.Contains(tag, "tax") && strings.Contains(tag, "expense"):
		field = domain.FieldCurrentTaxExpense
	case strings.Contains(tag, "revenue"):
		field = domain.FieldRevenue
	case strings.Contains(tag, "payroll"):
		field = domain.FieldEligiblePayroll
	case strings.Contains(tag, "tangible") && strings.Contains(tag, "asset"):
		field = domain.FieldEligibleTangibleAssets
	case strings.Contains(tag, "entity") && strings.Contains(tag, "name"):
		field = domain.FieldEntityName
	case strings.Contains(tag, "tax") && strings.Contains(tag, "residence"):
		field = domain.FieldTaxResidence
	case strings.Contains(tag, "parent") && strings.Contains(tag, "jurisdiction"):
		field = domain.FieldParentJurisdiction
	case strings.Contains(tag, "jurisdiction"):
		field = domain.FieldJurisdiction
	default:
		return
	}

	if res.Fields.Has(field) {
		return
	}
	if stringFields[field] {
		assignString(&res.Record, field, text)
		res.Fields.Add(field)
		return
	}
	value, ok := ParseNumeric(text)
	if !ok {
		res.Warnings = append(res.Warnings, fmt.Sprintf("could not convert element '%s' to numeric", tag))
	}
	assignNumeric(&res.Record, field, value)
	res.Fields.Add(field)
}
