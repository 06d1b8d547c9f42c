package domain

import (
	"fmt"
	"strings"
)

// OrderType es el tipo de orden MT4. Su código coincide con el ordinal.
type OrderType int32

// Tipos de orden.
const (
	// OrderTypeUnset marca un registro que no trajo el campo _type.
	OrderTypeUnset OrderType = -1

	OrderTypeBuy       OrderType = 0
	OrderTypeSell      OrderType = 1
	OrderTypeBuyLimit  OrderType = 2
	OrderTypeSellLimit OrderType = 3
	OrderTypeBuyStop   OrderType = 4
	OrderTypeSellStop  OrderType = 5
)

var orderTypeNames = [...]string{
	OrderTypeBuy:       "BUY",
	OrderTypeSell:      "SELL",
	OrderTypeBuyLimit:  "BUY_LIMIT",
	OrderTypeSellLimit: "SELL_LIMIT",
	OrderTypeBuyStop:   "BUY_STOP",
	OrderTypeSellStop:  "SELL_STOP",
}

// String retorna el nombre simbólico del tipo.
func (t OrderType) String() string {
	if t == OrderTypeUnset {
		return "UNSET"
	}
	if !t.Valid() {
		return fmt.Sprintf("ORDER_TYPE(%d)", int32(t))
	}
	return orderTypeNames[t]
}

// Code retorna el código que viaja en el slot _type.
func (t OrderType) Code() int32 {
	return int32(t)
}

// Valid indica si el tipo es uno de los seis tipos conocidos.
func (t OrderType) Valid() bool {
	return t >= OrderTypeBuy && t <= OrderTypeSellStop
}

// IsMarket indica ejecución a mercado (BUY o SELL).
func (t OrderType) IsMarket() bool {
	return t == OrderTypeBuy || t == OrderTypeSell
}

// IsPending indica orden pendiente (limit o stop).
func (t OrderType) IsPending() bool {
	return t >= OrderTypeBuyLimit && t <= OrderTypeSellStop
}

// OrderTypes retorna los tipos válidos en orden de código.
func OrderTypes() []OrderType {
	out := make([]OrderType, 0, len(orderTypeNames))
	for i := range orderTypeNames {
		out = append(out, OrderType(i))
	}
	return out
}

// ParseOrderType convierte un nombre simbólico en OrderType.
func ParseOrderType(name string) (OrderType, error) {
	normalized := strings.ToUpper(strings.TrimSpace(name))
	for i, n := range orderTypeNames {
		if n == normalized {
			return OrderType(i), nil
		}
	}
	return OrderTypeUnset, NewError(ErrInvalidDiscriminator, fmt.Sprintf("unknown order type '%s'", name)).
		WithDetail("order_type", name)
}
