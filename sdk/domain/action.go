package domain

import (
	"fmt"
	"strings"
)

// Action identifica la operación que el terminal debe ejecutar.
//
// El valor numérico es el código que viaja en el slot _action del registro.
type Action int32

// Acciones soportadas por el protocolo DWX.
const (
	ActionHeartbeat        Action = 0
	ActionPosOpen          Action = 1
	ActionPosModify        Action = 2
	ActionPosClose         Action = 3
	ActionPosClosePartial  Action = 4
	ActionPosCloseMagic    Action = 5
	ActionPosCloseAll      Action = 6
	ActionOrdOpen          Action = 7
	ActionOrdModify        Action = 8
	ActionOrdDelete        Action = 9
	ActionOrdDeleteAll     Action = 10
	ActionGetPositions     Action = 11
	ActionGetPendingOrders Action = 12
	ActionGetData          Action = 13
	ActionGetTickData      Action = 14
)

var actionNames = [...]string{
	ActionHeartbeat:        "HEARTBEAT",
	ActionPosOpen:          "POS_OPEN",
	ActionPosModify:        "POS_MODIFY",
	ActionPosClose:         "POS_CLOSE",
	ActionPosClosePartial:  "POS_CLOSE_PARTIAL",
	ActionPosCloseMagic:    "POS_CLOSE_MAGIC",
	ActionPosCloseAll:      "POS_CLOSE_ALL",
	ActionOrdOpen:          "ORD_OPEN",
	ActionOrdModify:        "ORD_MODIFY",
	ActionOrdDelete:        "ORD_DELETE",
	ActionOrdDeleteAll:     "ORD_DELETE_ALL",
	ActionGetPositions:     "GET_POSITIONS",
	ActionGetPendingOrders: "GET_PENDING_ORDERS",
	ActionGetData:          "GET_DATA",
	ActionGetTickData:      "GET_TICK_DATA",
}

// String retorna el nombre simbólico (ej: "POS_CLOSE").
func (a Action) String() string {
	if !a.Valid() {
		return fmt.Sprintf("ACTION(%d)", int32(a))
	}
	return actionNames[a]
}

// Code retorna el código que se escribe en el registro.
func (a Action) Code() int32 {
	return int32(a)
}

// Valid indica si la acción pertenece al conjunto conocido.
func (a Action) Valid() bool {
	return a >= ActionHeartbeat && a <= ActionGetTickData
}

// IsOpen indica si la acción abre una posición u orden.
func (a Action) IsOpen() bool {
	return a == ActionPosOpen || a == ActionOrdOpen
}

// IsModify indica si la acción modifica stops de una posición u orden.
func (a Action) IsModify() bool {
	return a == ActionPosModify || a == ActionOrdModify
}

// Actions retorna todas las acciones en orden de código.
func Actions() []Action {
	out := make([]Action, 0, len(actionNames))
	for i := range actionNames {
		out = append(out, Action(i))
	}
	return out
}

// ParseAction convierte un nombre simbólico en Action.
//
// Acepta mayúsculas o minúsculas.
func ParseAction(name string) (Action, error) {
	normalized := strings.ToUpper(strings.TrimSpace(name))
	for i, n := range actionNames {
		if n == normalized {
			return Action(i), nil
		}
	}
	return 0, NewError(ErrInvalidDiscriminator, fmt.Sprintf("unknown action '%s'", name)).
		WithDetail("action", name)
}
