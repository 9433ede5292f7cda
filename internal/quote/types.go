package quote

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"quoteGen/internal/logger"
)

// ProjectInfo holds the header fields of one quotation. Absent values are nil.
type ProjectInfo struct {
	Client   interface{}
	Address  interface{}
	Phone    interface{}
	Date     interface{}
	Validity interface{}
	Folio    interface{}
}

// LineItem is one row of the quotation table. Absent values are nil.
type LineItem struct {
	Item        interface{}
	Code        interface{}
	Concept     interface{}
	Description interface{}
	Unit        interface{}
	Quantity    interface{}
	UnitPrice   interface{}
	Amount      interface{}
}

// Payload is the decoded input document.
type Payload struct {
	Project ProjectInfo
	Items   []LineItem
}

// Input keys, first entry is the canonical one
var (
	projectKeys = map[Field][]string{
		FieldClient:   {"cliente"},
		FieldAddress:  {"direccion"},
		FieldPhone:    {"telefono"},
		FieldDate:     {"fecha"},
		FieldValidity: {"vigencia", "vigencia_dias"},
		FieldFolio:    {"folio", "hoja"},
	}
	itemKeys = map[Field][]string{
		FieldItem:        {"item", "partida", "no"},
		FieldCode:        {"clave", "codigo"},
		FieldConcept:     {"concepto"},
		FieldDescription: {"descripcion"},
		FieldUnit:        {"unidad"},
		FieldQuantity:    {"cantidad", "unidades"},
		FieldUnitPrice:   {"precio_unitario", "precio"},
		FieldTotal:       {"total", "importe"},
	}
)

// LoadPayload reads the input JSON file. A missing or unreadable file is an
// error; a readable file with unexpected structure yields empty defaults.
func LoadPayload(path string) (*Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &MissingResourceError{Kind: "input data", Path: path, Err: err}
		}
		return nil, fmt.Errorf("failed to read input data %s: %w", path, err)
	}
	return ParsePayload(data), nil
}

// ParsePayload decodes the input document leniently: anything that is not the
// expected shape is skipped and logged.
func ParsePayload(data []byte) *Payload {
	payload := &Payload{}

	var root map[string]interface{}
	if err := json.Unmarshal(data, &root); err != nil {
		logger.Warn("Input is not a JSON object, using empty defaults", "error", err)
		return payload
	}

	switch proyecto := root["proyecto"].(type) {
	case map[string]interface{}:
		payload.Project = parseProject(proyecto)
	case nil:
		logger.Warn("Input has no proyecto section")
	default:
		logger.Warn("Input proyecto section is not an object", "type", fmt.Sprintf("%T", proyecto))
	}

	switch conceptos := root["conceptos"].(type) {
	case []interface{}:
		for i, raw := range conceptos {
			obj, ok := raw.(map[string]interface{})
			if !ok {
				logger.Warn("Skipping line item that is not an object", "index", i)
				continue
			}
			payload.Items = append(payload.Items, parseItem(obj))
		}
	case nil:
		logger.Warn("Input has no conceptos section")
	default:
		logger.Warn("Input conceptos section is not a list", "type", fmt.Sprintf("%T", conceptos))
	}

	return payload
}

func parseProject(obj map[string]interface{}) ProjectInfo {
	return ProjectInfo{
		Client:   lookup(obj, projectKeys[FieldClient]),
		Address:  lookup(obj, projectKeys[FieldAddress]),
		Phone:    lookup(obj, projectKeys[FieldPhone]),
		Date:     lookup(obj, projectKeys[FieldDate]),
		Validity: lookup(obj, projectKeys[FieldValidity]),
		Folio:    lookup(obj, projectKeys[FieldFolio]),
	}
}

func parseItem(obj map[string]interface{}) LineItem {
	return LineItem{
		Item:        lookup(obj, itemKeys[FieldItem]),
		Code:        lookup(obj, itemKeys[FieldCode]),
		Concept:     lookup(obj, itemKeys[FieldConcept]),
		Description: lookup(obj, itemKeys[FieldDescription]),
		Unit:        lookup(obj, itemKeys[FieldUnit]),
		Quantity:    lookup(obj, itemKeys[FieldQuantity]),
		UnitPrice:   lookup(obj, itemKeys[FieldUnitPrice]),
		Amount:      lookup(obj, itemKeys[FieldTotal]),
	}
}

// lookup returns the first non-nil value among keys
func lookup(obj map[string]interface{}, keys []string) interface{} {
	for _, key := range keys {
		if value, ok := obj[key]; ok && value != nil {
			return value
		}
	}
	return nil
}

// Value returns the project value for a header field.
func (p ProjectInfo) Value(field Field) interface{} {
	switch field {
	case FieldClient:
		return p.Client
	case FieldAddress:
		return p.Address
	case FieldPhone:
		return p.Phone
	case FieldDate:
		return p.Date
	case FieldValidity:
		return p.Validity
	case FieldFolio:
		return p.Folio
	}
	return nil
}

// FolioText returns the folio as trimmed text, "" when absent.
func (p ProjectInfo) FolioText() string {
	return strings.TrimSpace(text(p.Folio))
}

// Value returns the item value for a table field.
func (li LineItem) Value(field Field) interface{} {
	switch field {
	case FieldItem:
		return li.Item
	case FieldCode:
		return li.Code
	case FieldConcept:
		return li.Concept
	case FieldDescription:
		return li.Description
	case FieldUnit:
		return li.Unit
	case FieldQuantity:
		return li.Quantity
	case FieldUnitPrice:
		return li.UnitPrice
	case FieldTotal:
		return li.Amount
	}
	return nil
}

// text renders a raw JSON value for display; nil becomes "" and whole floats
// lose their fractional part.
func text(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprint(v)
	}
}
