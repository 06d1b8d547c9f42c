package command

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/xKoRx/echo-dwx/sdk/domain"
)

// Fields son los argumentos con nombre de un comando.
//
// Tipos de valor aceptados: string, bool, enteros con y sin signo, float32/64,
// decimal.Decimal, json.Number, domain.Action y domain.OrderType.
type Fields map[domain.Field]interface{}

// Clone retorna una copia superficial del mapa.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// ParseFields convierte pares "clave=valor" en Fields.
//
// Los valores numéricos se guardan como json.Number para conservar el texto
// original; symbol y comment siempre se guardan como string.
func ParseFields(pairs []string) (Fields, error) {
	out := make(Fields, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid field %q: expected key=value", pair)
		}
		field := domain.Field(strings.ToLower(strings.TrimSpace(key)))
		value = strings.TrimSpace(value)

		switch field {
		case domain.FieldSymbol, domain.FieldComment:
			out[field] = value
			continue
		}
		if _, err := decimal.NewFromString(value); err == nil {
			out[field] = json.Number(value)
			continue
		}
		out[field] = value
	}
	return out, nil
}

// formatValue produce el texto del slot. Enteros en base 10, flotantes y
// decimales en su forma decimal más corta, Action/OrderType como su código.
func formatValue(v interface{}) (string, error) {
	switch x := v.(type) {
	case string:
		if strings.ContainsAny(x, ";\r\n") {
			return "", fmt.Errorf("string %q contains a record delimiter", x)
		}
		return x, nil
	case bool:
		return strconv.FormatBool(x), nil
	case int:
		return strconv.FormatInt(int64(x), 10), nil
	case int8:
		return strconv.FormatInt(int64(x), 10), nil
	case int16:
		return strconv.FormatInt(int64(x), 10), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float32:
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return "", fmt.Errorf("non-finite number %v", x)
		}
		return decimal.NewFromFloat32(x).String(), nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return "", fmt.Errorf("non-finite number %v", x)
		}
		return decimal.NewFromFloat(x).String(), nil
	case decimal.Decimal:
		return x.String(), nil
	case json.Number:
		d, err := decimal.NewFromString(x.String())
		if err != nil {
			return "", fmt.Errorf("invalid number %q", x.String())
		}
		return d.String(), nil
	case domain.Action:
		if !x.Valid() {
			return "", fmt.Errorf("invalid action %s", x)
		}
		return strconv.FormatInt(int64(x.Code()), 10), nil
	case domain.OrderType:
		if !x.Valid() {
			return "", fmt.Errorf("invalid order type %s", x)
		}
		return strconv.FormatInt(int64(x.Code()), 10), nil
	case nil:
		return "", fmt.Errorf("nil value")
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}

// numericValue interpreta el valor como número, si es posible.
func numericValue(v interface{}) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case int:
		return decimal.NewFromInt(int64(x)), true
	case int8:
		return decimal.NewFromInt(int64(x)), true
	case int16:
		return decimal.NewFromInt(int64(x)), true
	case int32:
		return decimal.NewFromInt32(x), true
	case int64:
		return decimal.NewFromInt(x), true
	case uint:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(x)), 0), true
	case uint8:
		return decimal.NewFromInt(int64(x)), true
	case uint16:
		return decimal.NewFromInt(int64(x)), true
	case uint32:
		return decimal.NewFromInt(int64(x)), true
	case uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(x), 0), true
	case float32:
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat32(x), true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(x), true
	case decimal.Decimal:
		return x, true
	case json.Number:
		d, err := decimal.NewFromString(x.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(x))
		return d, err == nil
	default:
		return decimal.Zero, false
	}
}
