package semconv

import "go.opentelemetry.io/otel/attribute"

// DWX contiene atributos semánticos del bridge DWX.
//
// # Comando
//
//   - dwx.command_id: UUIDv7 asignado al comando al enviarlo
//   - dwx.action: Acción resuelta (POS_OPEN, ORD_MODIFY, ...)
//   - dwx.order_type: Tipo de orden (BUY, SELL_LIMIT, ...)
//   - dwx.field: Campo involucrado en un error o advisory
//   - dwx.advisory_code: MARKET_PRICE, NO_STOP_LOSS o NO_TAKE_PROFIT
//
// # Trading
//
//   - dwx.symbol: Símbolo del instrumento
//   - dwx.ticket: Ticket MT4
//   - dwx.magic: Magic number
//
// # Estado
//
//   - dwx.status: success/error
//   - dwx.error_code: Código TradingError
//   - dwx.component: connector/response_loop/heartbeat/snapshot
//   - dwx.response_key: Clave del tracker (ticket/positions/orders)
//
// # Uso
//
//	client.Warn(ctx, "Command advisory",
//	    semconv.DWX.Action.String("POS_OPEN"),
//	    semconv.DWX.AdvisoryCode.String("NO_STOP_LOSS"),
//	)
var DWX = dwxAttributes{
	// Comando
	CommandID:    attribute.Key("dwx.command_id"),
	Action:       attribute.Key("dwx.action"),
	OrderType:    attribute.Key("dwx.order_type"),
	Field:        attribute.Key("dwx.field"),
	AdvisoryCode: attribute.Key("dwx.advisory_code"),

	// Trading
	Symbol: attribute.Key("dwx.symbol"),
	Ticket: attribute.Key("dwx.ticket"),
	Magic:  attribute.Key("dwx.magic"),

	// Estado
	Status:      attribute.Key("dwx.status"),
	ErrorCode:   attribute.Key("dwx.error_code"),
	Component:   attribute.Key("dwx.component"),
	ResponseKey: attribute.Key("dwx.response_key"),
}

type dwxAttributes struct {
	CommandID    attribute.Key
	Action       attribute.Key
	OrderType    attribute.Key
	Field        attribute.Key
	AdvisoryCode attribute.Key

	Symbol attribute.Key
	Ticket attribute.Key
	Magic  attribute.Key

	Status      attribute.Key
	ErrorCode   attribute.Key
	Component   attribute.Key
	ResponseKey attribute.Key
}

// Valores de DWX.Status
const (
	StatusSuccess = "success"
	StatusError   = "error"
)
