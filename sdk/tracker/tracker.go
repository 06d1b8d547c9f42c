package tracker

import (
	"strconv"
	"sync/atomic"

	"github.com/xKoRx/echo-dwx/sdk/domain"
	"github.com/xKoRx/echo-dwx/sdk/utils"
)

// SkippedKey describe una clave presente pero mal formada que no se aplicó.
type SkippedKey struct {
	Key    Key
	Reason string
}

// ApplyResult resume qué hizo Apply con cada clave presente.
type ApplyResult struct {
	Updated []Key
	Skipped []SkippedKey
}

// Changed indica si alguna caché fue reemplazada.
func (r ApplyResult) Changed() bool {
	return len(r.Updated) > 0
}

// Tracker guarda el último ticket, posiciones y órdenes reportados por el terminal.
//
// Cada caché se publica con un único swap atómico de un valor ya construido;
// los lectores ven el snapshot anterior completo o el nuevo completo. No hay
// atomicidad entre claves.
type Tracker struct {
	ticket    atomic.Pointer[int64]
	positions atomic.Pointer[map[string]domain.Position]
	orders    atomic.Pointer[map[string]map[string]interface{}]
}

// New crea un Tracker vacío.
func New() *Tracker {
	return &Tracker{}
}

// Apply reemplaza cada caché cuya clave viene en p. Una clave ausente deja su
// caché intacta; una clave mal formada se reporta en Skipped y también la deja
// intacta. Nunca entra en pánico ni retorna error.
func (t *Tracker) Apply(p Payload) ApplyResult {
	var res ApplyResult

	if raw, ok := p.Lookup(KeyTicket); ok {
		if ticket, err := toInt64(raw); err != nil {
			res.Skipped = append(res.Skipped, SkippedKey{Key: KeyTicket, Reason: err.Error()})
		} else {
			t.ticket.Store(&ticket)
			res.Updated = append(res.Updated, KeyTicket)
		}
	}

	if raw, ok := p.Lookup(KeyPositions); ok {
		if positions, err := decodePositions(raw); err != nil {
			res.Skipped = append(res.Skipped, SkippedKey{Key: KeyPositions, Reason: err.Error()})
		} else {
			t.positions.Store(&positions)
			res.Updated = append(res.Updated, KeyPositions)
		}
	}

	if raw, ok := p.Lookup(KeyOrders); ok {
		if orders, err := copyOrders(raw); err != nil {
			res.Skipped = append(res.Skipped, SkippedKey{Key: KeyOrders, Reason: err.Error()})
		} else {
			t.orders.Store(&orders)
			res.Updated = append(res.Updated, KeyOrders)
		}
	}

	return res
}

// Ticket retorna el último ticket reportado.
func (t *Tracker) Ticket() (int64, bool) {
	p := t.ticket.Load()
	if p == nil {
		return 0, false
	}
	return *p, true
}

// Positions retorna una copia independiente de las posiciones.
func (t *Tracker) Positions() (map[string]domain.Position, bool) {
	p := t.positions.Load()
	if p == nil {
		return nil, false
	}
	out := make(map[string]domain.Position, len(*p))
	for id, pos := range *p {
		out[id] = copyPosition(pos)
	}
	return out, true
}

// Orders retorna las órdenes pendientes. El tipo se convierte en cada lectura
// a partir de la copia cruda guardada.
//
// Un registro que no se puede decodificar se entrega con Type OrderTypeUnset y
// todo su contenido en Extra.
func (t *Tracker) Orders() (map[string]domain.PendingOrder, bool) {
	p := t.orders.Load()
	if p == nil {
		return nil, false
	}
	out := make(map[string]domain.PendingOrder, len(*p))
	for id, record := range *p {
		out[id] = decodePendingOrder(record)
	}
	return out, true
}

// Snapshot retorna el estado actual como Payload en forma de cable ("_ticket",
// "_positions", "_orders"). Sólo incluye las claves ya pobladas.
// El ticket va como string decimal: un float64 perdería tickets sobre 2^53.
func (t *Tracker) Snapshot() Payload {
	snap := Payload{}

	if ticket, ok := t.Ticket(); ok {
		snap[KeyTicket.WireName()] = strconv.FormatInt(ticket, 10)
	}
	if p := t.positions.Load(); p != nil {
		records := make(map[string]interface{}, len(*p))
		for id, pos := range *p {
			records[id] = positionRecord(pos)
		}
		snap[KeyPositions.WireName()] = records
	}
	if p := t.orders.Load(); p != nil {
		records := make(map[string]interface{}, len(*p))
		for id, record := range *p {
			records[id] = utils.DeepCopyMap(record)
		}
		snap[KeyOrders.WireName()] = records
	}

	return snap
}

// Restore siembra las cachés desde un Snapshot. Equivale a Apply.
func (t *Tracker) Restore(snap Payload) ApplyResult {
	return t.Apply(snap)
}
