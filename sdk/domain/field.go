package domain

// Field nombra uno de los diez campos del registro de comando.
type Field string

// Universo fijo de campos, en el orden en que viajan por el cable.
const (
	FieldAction  Field = "action"
	FieldType    Field = "type"
	FieldSymbol  Field = "symbol"
	FieldPrice   Field = "price"
	FieldSL      Field = "sl"
	FieldTP      Field = "tp"
	FieldComment Field = "comment"
	FieldLots    Field = "lots"
	FieldMagic   Field = "magic"
	FieldTicket  Field = "ticket"
)

// SlotCount es la cantidad de slots posicionales del registro.
const SlotCount = 10

var wireFields = [SlotCount]Field{
	FieldAction,
	FieldType,
	FieldSymbol,
	FieldPrice,
	FieldSL,
	FieldTP,
	FieldComment,
	FieldLots,
	FieldMagic,
	FieldTicket,
}

var slotNames = map[Field]string{
	FieldAction:  "_action",
	FieldType:    "_type",
	FieldSymbol:  "_symbol",
	FieldPrice:   "_price",
	FieldSL:      "_SL",
	FieldTP:      "_TP",
	FieldComment: "_comment",
	FieldLots:    "_lots",
	FieldMagic:   "_magic",
	FieldTicket:  "_ticket",
}

// WireFields retorna los diez campos en orden de slot.
func WireFields() [SlotCount]Field {
	return wireFields
}

// Slot retorna el nombre del slot que usa el terminal (ej: "_SL").
func (f Field) Slot() string {
	return slotNames[f]
}

// Index retorna la posición del campo en el registro, o -1 si no es un campo conocido.
func (f Field) Index() int {
	for i, w := range wireFields {
		if w == f {
			return i
		}
	}
	return -1
}

// Valid indica si el campo pertenece al universo.
func (f Field) Valid() bool {
	return f.Index() >= 0
}

// String implementa fmt.Stringer.
func (f Field) String() string {
	return string(f)
}
