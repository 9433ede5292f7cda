package quote

import (
	"quoteGen/internal/excel"
	"quoteGen/internal/textnorm"
)

// Field identifies a logical value of the quotation. The string form matches
// the input JSON key and the alias overrides file.
type Field string

// Header fields
const (
	FieldClient   Field = "cliente"
	FieldAddress  Field = "direccion"
	FieldPhone    Field = "telefono"
	FieldDate     Field = "fecha"
	FieldValidity Field = "vigencia"
	FieldFolio    Field = "folio"
)

// Table fields
const (
	FieldItem        Field = "item"
	FieldCode        Field = "clave"
	FieldConcept     Field = "concepto"
	FieldDescription Field = "descripcion"
	FieldUnit        Field = "unidad"
	FieldQuantity    Field = "cantidad"
	FieldUnitPrice   Field = "precio_unitario"
	FieldTotal       Field = "total"
)

// AnchorSpec is a logical field with the labels that identify it.
type AnchorSpec struct {
	Field   Field
	Aliases []string
}

// HeaderFields lists the project fields in the order they are written.
var HeaderFields = []AnchorSpec{
	{FieldClient, []string{"Cliente:", "Cliente", "Nombre del cliente:"}},
	{FieldAddress, []string{"Dirección:", "Dirección", "Domicilio:"}},
	{FieldPhone, []string{"Teléfono:", "Teléfono", "Tel:", "Tel."}},
	{FieldDate, []string{"Fecha del presupuesto", "Fecha del presupuesto:", "Fecha:", "Fecha"}},
	{FieldValidity, []string{"Vigencia:", "Vigencia", "Vigencia (días):", "Validez:"}},
	{FieldFolio, []string{"Folio:", "Folio", "No. de folio:"}},
}

// TitlePrefixes identify the title cell rewritten as "Presupuesto <folio>".
var TitlePrefixes = []string{"Presupuesto"}

// TitleWord starts the rewritten title cell.
const TitleWord = "Presupuesto"

// TableColumns lists the table fields in matching priority order.
var TableColumns = []AnchorSpec{
	{FieldDescription, []string{"Descripción", "Descripción del concepto"}},
	{FieldConcept, []string{"Concepto", "Conceptos"}},
	{FieldItem, []string{"Item", "Partida", "No.", "No", "#"}},
	{FieldCode, []string{"Clave", "Código", "Cve."}},
	{FieldUnit, []string{"Unidad", "U.M.", "UM", "Unid."}},
	{FieldQuantity, []string{"Cantidad", "Unidades", "Cant.", "Cant"}},
	{FieldUnitPrice, []string{"Precio unitario", "Precio", "P.U.", "PU", "Precio_unitario"}},
	{FieldTotal, []string{"Total", "Importe", "Monto", "Subtotal"}},
}

// Anchors holds the resolved alias sets for one generation run.
type Anchors struct {
	Header  map[Field]textnorm.Set
	Title   textnorm.Set
	Columns []excel.ColumnSpec
}

// NewAnchors builds the alias sets from the defaults plus extra labels per
// field (as produced by the mapping tool). Extra labels for unknown fields
// are ignored.
func NewAnchors(extra map[Field][]string) *Anchors {
	a := &Anchors{
		Header: make(map[Field]textnorm.Set, len(HeaderFields)),
		Title:  textnorm.NewSet(TitlePrefixes...),
	}

	for _, spec := range HeaderFields {
		set := textnorm.NewSet(spec.Aliases...)
		set.Add(extra[spec.Field]...)
		a.Header[spec.Field] = set
	}

	for _, spec := range TableColumns {
		set := textnorm.NewSet(spec.Aliases...)
		set.Add(extra[spec.Field]...)
		a.Columns = append(a.Columns, excel.ColumnSpec{
			Field:    string(spec.Field),
			Aliases:  set,
			Required: spec.Field == FieldDescription || spec.Field == FieldConcept,
		})
	}

	return a
}

// IsKnownField reports whether name is a header or table field.
func IsKnownField(name string) bool {
	for _, field := range AllFields() {
		if string(field) == name {
			return true
		}
	}
	return false
}

// AllFields returns header fields followed by table fields.
func AllFields() []Field {
	fields := make([]Field, 0, len(HeaderFields)+len(TableColumns))
	for _, spec := range HeaderFields {
		fields = append(fields, spec.Field)
	}
	for _, spec := range TableColumns {
		fields = append(fields, spec.Field)
	}
	return fields
}
