package command

import (
	"sync"

	"github.com/xKoRx/echo-dwx/sdk/domain"
)

// AdvisoryCode identifica el tipo de aviso.
type AdvisoryCode string

const (
	// AdvisoryMarketPrice: POS_OPEN con precio explícito distinto de cero.
	AdvisoryMarketPrice AdvisoryCode = "MARKET_PRICE"
	// AdvisoryNoStopLoss: apertura sin stop loss.
	AdvisoryNoStopLoss AdvisoryCode = "NO_STOP_LOSS"
	// AdvisoryNoTakeProfit: apertura sin take profit.
	AdvisoryNoTakeProfit AdvisoryCode = "NO_TAKE_PROFIT"
)

const (
	msgMarketPrice  = "We recommend using the default price==0 to execute at mkt price."
	msgNoStopLoss   = "We recommend using a stoploss!"
	msgNoTakeProfit = "We recommend using a takeprofit!"
)

// Advisory es un aviso no fatal sobre un comando. Nunca impide generar el registro.
type Advisory struct {
	Code    AdvisoryCode
	Field   domain.Field
	Action  domain.Action
	Message string
}

// AdvisoryHandler recibe los avisos de cada registro generado. No debe bloquear.
type AdvisoryHandler func(Advisory)

// DiscardAdvisories es el handler por defecto.
func DiscardAdvisories(Advisory) {}

// AdvisoryCollector acumula avisos. Es seguro para uso concurrente.
type AdvisoryCollector struct {
	mu    sync.Mutex
	items []Advisory
}

// Handle implementa AdvisoryHandler.
func (c *AdvisoryCollector) Handle(a Advisory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, a)
}

// Advisories retorna una copia de los avisos acumulados.
func (c *AdvisoryCollector) Advisories() []Advisory {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Advisory, len(c.items))
	copy(out, c.items)
	return out
}

// Reset descarta los avisos acumulados.
func (c *AdvisoryCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}
