package domain

// OrderSide representa la dirección de una orden.
type OrderSide string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

// String implementa fmt.Stringer para OrderSide.
func (s OrderSide) String() string {
	return string(s)
}

// Side retorna la dirección del tipo de orden. Vacío si el tipo no es válido.
func (t OrderType) Side() OrderSide {
	switch t {
	case OrderTypeBuy, OrderTypeBuyLimit, OrderTypeBuyStop:
		return OrderSideBuy
	case OrderTypeSell, OrderTypeSellLimit, OrderTypeSellStop:
		return OrderSideSell
	default:
		return ""
	}
}

// Position es una posición abierta tal como la reporta el terminal en _positions.
//
// Las claves del terminal llevan prefijo "_". Lo que no se reconoce queda en Extra.
type Position struct {
	Magic     int64     `json:"_magic" mapstructure:"_magic"`           // MagicNumber de la posición
	Symbol    string    `json:"_symbol" mapstructure:"_symbol"`         // Símbolo (ej: EURUSD)
	Lots      float64   `json:"_lots" mapstructure:"_lots"`             // Volumen en lotes
	Type      OrderType `json:"_type" mapstructure:"_type"`             // BUY/SELL; OrderTypeUnset si no vino
	OpenPrice float64   `json:"_open_price" mapstructure:"_open_price"` // Precio de apertura
	OpenTime  string    `json:"_open_time" mapstructure:"_open_time"`   // Hora de apertura del servidor MT4
	SL        float64   `json:"_SL" mapstructure:"_SL"`                 // Stop loss (0 = sin SL)
	TP        float64   `json:"_TP" mapstructure:"_TP"`                 // Take profit (0 = sin TP)
	PnL       float64   `json:"_pnl" mapstructure:"_pnl"`               // Profit flotante
	Comment   string    `json:"_comment" mapstructure:"_comment"`       // Comentario de la orden

	Extra map[string]interface{} `json:"-" mapstructure:",remain"` // Claves no reconocidas
}

// PendingOrder es una orden pendiente tal como la reporta el terminal en _orders.
type PendingOrder struct {
	Magic     int64     `json:"_magic" mapstructure:"_magic"`
	Symbol    string    `json:"_symbol" mapstructure:"_symbol"`
	Lots      float64   `json:"_lots" mapstructure:"_lots"`
	Type      OrderType `json:"_type" mapstructure:"_type"`
	OpenPrice float64   `json:"_open_price" mapstructure:"_open_price"`
	SL        float64   `json:"_SL" mapstructure:"_SL"`
	TP        float64   `json:"_TP" mapstructure:"_TP"`
	Comment   string    `json:"_comment" mapstructure:"_comment"`

	Extra map[string]interface{} `json:"-" mapstructure:",remain"`
}

// HasStopLoss indica si la posición tiene SL configurado.
func (p Position) HasStopLoss() bool {
	return p.SL != 0
}

// HasTakeProfit indica si la posición tiene TP configurado.
func (p Position) HasTakeProfit() bool {
	return p.TP != 0
}
