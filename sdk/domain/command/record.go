package command

import (
	"strings"

	"github.com/xKoRx/echo-dwx/sdk/domain"
)

// Delimiter separa los slots del registro.
const Delimiter = ";"

// Record es el registro posicional de 10 slots que consume el terminal.
//
// Es inmutable: todos los accesores retornan copias. Un slot ausente se
// representa como texto vacío, distinto de "0".
type Record struct {
	action     domain.Action
	orderType  domain.OrderType
	values     [domain.SlotCount]interface{}
	present    [domain.SlotCount]bool
	slots      [domain.SlotCount]string
	advisories []Advisory
}

// Action retorna la acción resuelta.
func (r Record) Action() domain.Action {
	return r.action
}

// Type retorna el tipo de orden si el registro lo lleva.
func (r Record) Type() (domain.OrderType, bool) {
	if !r.present[domain.FieldType.Index()] {
		return domain.OrderTypeUnset, false
	}
	return r.orderType, true
}

// Get retorna el valor de un campo presente.
func (r Record) Get(f domain.Field) (interface{}, bool) {
	i := f.Index()
	if i < 0 || !r.present[i] {
		return nil, false
	}
	return r.values[i], true
}

// Has indica si el campo está presente.
func (r Record) Has(f domain.Field) bool {
	i := f.Index()
	return i >= 0 && r.present[i]
}

// Slot retorna el texto de un slot ("" si está ausente).
func (r Record) Slot(f domain.Field) string {
	i := f.Index()
	if i < 0 {
		return ""
	}
	return r.slots[i]
}

// Slots retorna los 10 slots formateados en orden de cable.
func (r Record) Slots() [domain.SlotCount]string {
	return r.slots
}

// Advisories retorna los avisos emitidos al generar el registro, en orden.
func (r Record) Advisories() []Advisory {
	out := make([]Advisory, len(r.advisories))
	copy(out, r.advisories)
	return out
}

// String retorna los slots unidos por ";".
func (r Record) String() string {
	return strings.Join(r.slots[:], Delimiter)
}

// Equal compara dos registros por su representación en cable.
func (r Record) Equal(other Record) bool {
	return r.action == other.action && r.present == other.present && r.slots == other.slots
}

// IsZero indica si el registro no fue generado por un Encoder.
func (r Record) IsZero() bool {
	return !r.present[domain.FieldAction.Index()]
}
