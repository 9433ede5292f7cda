package quote

import (
	"encoding/json"
	"fmt"
	"strings"

	"quoteGen/internal/excel"
	"quoteGen/internal/logger"

	"github.com/shopspring/decimal"
)

// WriteItems writes items to consecutive rows starting at firstRow.
func WriteItems(editor *excel.Editor, sheet string, firstRow int, columns excel.ColumnMap, items []LineItem) error {
	for i, item := range items {
		if err := WriteRow(editor, sheet, firstRow+i, columns, item); err != nil {
			return fmt.Errorf("failed to write line item %d: %w", i+1, err)
		}
	}
	return nil
}

// WriteRow projects one line item onto the mapped columns of row.
func WriteRow(editor *excel.Editor, sheet string, row int, columns excel.ColumnMap, item LineItem) error {
	for _, name := range columns.Fields() {
		col := columns[name]
		field := Field(name)

		switch field {
		case FieldDescription, FieldConcept:
			if err := editor.SetCellValue(sheet, col, row, textValue(item, field, columns)); err != nil {
				return err
			}
			if err := editor.SetWrapText(sheet, col, row); err != nil {
				return err
			}

		case FieldQuantity, FieldUnitPrice:
			value := item.Value(field)
			if value == nil {
				value = 0
			}
			coerced := excel.ParseNumericValue(value)
			if s, ok := coerced.(string); ok {
				logger.Warn("Non-numeric value written as text", "field", name, "row", row, "value", s)
			}
			if err := editor.SetCellValue(sheet, col, row, coerced); err != nil {
				return err
			}

		case FieldTotal:
			hasFormula, err := editor.HasFormula(sheet, col, row)
			if err != nil {
				return err
			}
			if hasFormula {
				logger.Debug("Keeping total formula", "row", row, "column", col)
				continue
			}
			if err := editor.SetCellValue(sheet, col, row, LineTotal(item)); err != nil {
				return err
			}

		default:
			value := item.Value(field)
			if value == nil {
				continue
			}
			if err := editor.SetCellValue(sheet, col, row, value); err != nil {
				return err
			}
		}
	}
	return nil
}

// textValue picks the text for the description or concept column. When the
// table only has one of the two columns, the other input field fills it.
func textValue(item LineItem, field Field, columns excel.ColumnMap) string {
	primary := text(item.Value(field))
	if primary != "" {
		return primary
	}

	other := FieldConcept
	if field == FieldConcept {
		other = FieldDescription
	}
	if _, mapped := columns[string(other)]; mapped {
		return ""
	}
	return text(item.Value(other))
}

// LineTotal returns quantity * unit price. Missing or non-numeric operands
// count as zero.
func LineTotal(item LineItem) float64 {
	total := toDecimal(item.Quantity).Mul(toDecimal(item.UnitPrice))
	f, _ := total.Float64()
	return f
}

func toDecimal(value interface{}) decimal.Decimal {
	switch v := value.(type) {
	case nil:
		return decimal.Zero
	case float64:
		return decimal.NewFromFloat(v)
	case float32:
		return decimal.NewFromFloat32(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Zero
		}
		return d
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}
