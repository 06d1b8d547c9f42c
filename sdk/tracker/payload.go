package tracker

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Payload es una respuesta del terminal ya decodificada de JSON.
type Payload map[string]interface{}

// Key nombra una de las tres claves que el Tracker guarda.
type Key string

const (
	KeyTicket    Key = "ticket"
	KeyPositions Key = "positions"
	KeyOrders    Key = "orders"
)

// Keys retorna las claves rastreadas en orden fijo.
func Keys() []Key {
	return []Key{KeyTicket, KeyPositions, KeyOrders}
}

// WireName retorna la forma con guion bajo que usa el terminal (ej: "_ticket").
func (k Key) WireName() string {
	return "_" + string(k)
}

// Lookup busca la clave en la forma "_ticket" y luego "ticket". La forma con
// guion bajo gana si vienen ambas.
func (p Payload) Lookup(k Key) (interface{}, bool) {
	if v, ok := p[k.WireName()]; ok {
		return v, true
	}
	v, ok := p[string(k)]
	return v, ok
}

// String retorna un campo string del payload (ej: "_response").
func (p Payload) String(key string) string {
	s, _ := p[key].(string)
	return s
}

// ParsePayload decodifica una línea JSON en Payload. Los números quedan como float64.
func ParsePayload(data []byte) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("invalid payload: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("invalid payload: not a JSON object")
	}
	return p, nil
}

// toInt64 convierte un número con forma JSON a int64. Rechaza fracciones y booleanos.
func toInt64(v interface{}) (int64, error) {
	switch x := v.(type) {
	case int:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case uint32:
		return int64(x), nil
	case float64:
		if x != float64(int64(x)) {
			return 0, fmt.Errorf("non-integral number %v", x)
		}
		return int64(x), nil
	case json.Number:
		return x.Int64()
	case string:
		return strconv.ParseInt(strings.TrimSpace(x), 10, 64)
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}
