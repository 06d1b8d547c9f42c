package domain

import "fmt"

// FieldSet es el conjunto de campos requeridos por una acción.
//
// Es una variante etiquetada: Defined(...) lista campos, Unimplemented() marca
// una acción que el protocolo reserva pero no soporta. Un FieldSet definido con
// un solo campo (ej: HEARTBEAT) no es lo mismo que uno no implementado.
type FieldSet struct {
	implemented bool
	fields      []Field
}

// Defined construye un FieldSet con los campos dados en orden.
func Defined(fields ...Field) FieldSet {
	cp := make([]Field, len(fields))
	copy(cp, fields)
	return FieldSet{implemented: true, fields: cp}
}

// Unimplemented construye el marcador de acción no soportada.
func Unimplemented() FieldSet {
	return FieldSet{}
}

// IsImplemented indica si el conjunto es Defined.
func (s FieldSet) IsImplemented() bool {
	return s.implemented
}

// Fields retorna una copia ordenada de los campos.
func (s FieldSet) Fields() []Field {
	cp := make([]Field, len(s.fields))
	copy(cp, s.fields)
	return cp
}

// Contains indica si el campo es requerido.
func (s FieldSet) Contains(f Field) bool {
	for _, x := range s.fields {
		if x == f {
			return true
		}
	}
	return false
}

// Len retorna la cantidad de campos requeridos.
func (s FieldSet) Len() int {
	return len(s.fields)
}

var openFields = []Field{
	FieldAction, FieldSymbol, FieldType, FieldLots, FieldPrice,
	FieldSL, FieldTP, FieldComment, FieldMagic,
}

// schemaTable es de solo lectura. FieldSet no expone su slice interno.
var schemaTable = map[Action]FieldSet{
	ActionHeartbeat:        Defined(FieldAction),
	ActionPosOpen:          Defined(openFields...),
	ActionPosModify:        Defined(FieldAction, FieldTicket, FieldSL, FieldTP),
	ActionPosClose:         Defined(FieldAction, FieldTicket),
	ActionPosClosePartial:  Defined(FieldAction, FieldLots, FieldTicket),
	ActionPosCloseMagic:    Defined(FieldAction, FieldMagic),
	ActionPosCloseAll:      Defined(FieldAction),
	ActionOrdOpen:          Defined(openFields...),
	ActionOrdModify:        Defined(FieldAction, FieldTicket, FieldSL, FieldTP),
	ActionOrdDelete:        Defined(FieldAction, FieldTicket),
	ActionOrdDeleteAll:     Defined(FieldAction),
	ActionGetPositions:     Defined(FieldAction),
	ActionGetPendingOrders: Defined(FieldAction),
	ActionGetData:          Unimplemented(),
	ActionGetTickData:      Unimplemented(),
}

// FieldsFor retorna los campos requeridos por la acción.
//
// GET_DATA y GET_TICK_DATA retornan Unimplemented sin error; una acción fuera
// del conjunto conocido retorna ErrInvalidDiscriminator.
//
// Example:
//
//	set, err := domain.FieldsFor(domain.ActionPosClose)
//	// set.Fields() == []Field{FieldAction, FieldTicket}
func FieldsFor(a Action) (FieldSet, error) {
	set, ok := schemaTable[a]
	if !ok {
		return FieldSet{}, NewError(ErrInvalidDiscriminator, fmt.Sprintf("unknown action %s", a)).
			WithDetail("action", a.String())
	}
	return set, nil
}
