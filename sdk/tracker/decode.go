package tracker

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/xKoRx/echo-dwx/sdk/domain"
	"github.com/xKoRx/echo-dwx/sdk/utils"
)

const typeKey = "_type"

// decodeRecord decodifica un registro con forma JSON en out (weakly typed).
// record debe ser una copia propia: Extra referencia sus valores.
func decodeRecord(record map[string]interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(record)
}

// orderTypeOf interpreta el _type crudo. Sólo acepta enteros exactos dentro
// del rango BUY..SELL_STOP: 1.9, 2^32, "2.7" o un bool no son códigos válidos.
func orderTypeOf(raw interface{}) (domain.OrderType, bool) {
	if _, isBool := raw.(bool); isBool {
		return domain.OrderTypeUnset, false
	}
	n, err := toInt64(raw)
	if err != nil || n < int64(domain.OrderTypeBuy) || n > int64(domain.OrderTypeSellStop) {
		return domain.OrderTypeUnset, false
	}
	return domain.OrderType(n), true
}

// splitType saca _type del registro antes de pasarlo a mapstructure, que con
// WeaklyTypedInput truncaría 1.9 a 1 y desbordaría 2^32 en int32.
// Un código inválido vuelve a Extra con su valor crudo.
func splitType(record map[string]interface{}) (domain.OrderType, map[string]interface{}) {
	raw, ok := record[typeKey]
	if !ok {
		return domain.OrderTypeUnset, nil
	}
	delete(record, typeKey)
	if t, valid := orderTypeOf(raw); valid {
		return t, nil
	}
	return domain.OrderTypeUnset, map[string]interface{}{typeKey: raw}
}

func mergeExtra(dst *map[string]interface{}, src map[string]interface{}) {
	if len(src) == 0 {
		return
	}
	if *dst == nil {
		*dst = make(map[string]interface{}, len(src))
	}
	for k, v := range src {
		(*dst)[k] = v
	}
}

// decodePosition decodifica un registro de _positions. Sólo falla si el
// registro no es un objeto; si un campo no decodifica, la posición queda con
// tipo Unset y el registro completo en Extra (mismo criterio que las órdenes).
func decodePosition(raw interface{}) (domain.Position, error) {
	record, ok := raw.(map[string]interface{})
	if !ok {
		return domain.Position{}, fmt.Errorf("position record is %T, want object", raw)
	}
	work := utils.DeepCopyMap(record)
	typ, extra := splitType(work)

	pos := domain.Position{}
	if err := decodeRecord(work, &pos); err != nil {
		return domain.Position{Type: domain.OrderTypeUnset, Extra: utils.DeepCopyMap(record)}, nil
	}
	pos.Type = typ
	mergeExtra(&pos.Extra, extra)
	return pos, nil
}

// decodePendingOrder decodifica un registro de _orders. Un registro que no
// decodifica queda con tipo Unset y completo en Extra.
func decodePendingOrder(record map[string]interface{}) domain.PendingOrder {
	work := utils.DeepCopyMap(record)
	typ, extra := splitType(work)

	order := domain.PendingOrder{}
	if err := decodeRecord(work, &order); err != nil {
		return domain.PendingOrder{Type: domain.OrderTypeUnset, Extra: utils.DeepCopyMap(record)}
	}
	order.Type = typ
	mergeExtra(&order.Extra, extra)
	return order
}

// decodePositions construye el mapa tipado completo. Sólo falla, sin efectos,
// si _positions o alguno de sus registros no es un objeto.
func decodePositions(raw interface{}) (map[string]domain.Position, error) {
	records, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("positions is %T, want object", raw)
	}
	out := make(map[string]domain.Position, len(records))
	for id, rec := range records {
		pos, err := decodePosition(rec)
		if err != nil {
			return nil, fmt.Errorf("position %s: %w", id, err)
		}
		out[id] = pos
	}
	return out, nil
}

// copyOrders valida la forma (objeto de objetos) y copia en profundidad. No decodifica.
func copyOrders(raw interface{}) (map[string]map[string]interface{}, error) {
	records, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("orders is %T, want object", raw)
	}
	out := make(map[string]map[string]interface{}, len(records))
	for id, rec := range records {
		m, ok := rec.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("order %s is %T, want object", id, rec)
		}
		out[id] = utils.DeepCopyMap(m)
	}
	return out, nil
}

// positionRecord es la inversa de decodePosition, para snapshots. Las claves
// presentes en Extra ganan: así un registro en fallback se reproduce tal cual.
func positionRecord(p domain.Position) map[string]interface{} {
	out := utils.DeepCopyMap(p.Extra)
	if out == nil {
		out = make(map[string]interface{}, 10)
	}
	typed := map[string]interface{}{
		"_magic":      float64(p.Magic),
		"_symbol":     p.Symbol,
		"_lots":       p.Lots,
		"_open_price": p.OpenPrice,
		"_open_time":  p.OpenTime,
		"_SL":         p.SL,
		"_TP":         p.TP,
		"_pnl":        p.PnL,
		"_comment":    p.Comment,
	}
	if p.Type != domain.OrderTypeUnset {
		typed[typeKey] = float64(p.Type.Code())
	}
	for k, v := range typed {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	return out
}

func copyPosition(p domain.Position) domain.Position {
	p.Extra = utils.DeepCopyMap(p.Extra)
	return p
}
