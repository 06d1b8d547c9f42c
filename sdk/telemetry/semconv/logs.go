package semconv

import (
	"go.opentelemetry.io/otel/attribute"
)

// Logs define atributos transversales para logs.
//
// Event identifica qué ocurrió (command_sent, response_applied, ...);
// Feature agrupa por capacidad (encoder, tracker, transport).
var Logs struct {
	Feature attribute.Key
	Event   attribute.Key

	// Se mapean a las convenciones OTel de servicio.
	ServiceName attribute.Key
	Environment attribute.Key
}

func init() {
	Logs.Feature = attribute.Key("feature")
	Logs.Event = attribute.Key("event")

	Logs.ServiceName = attribute.Key("service.name")
	Logs.Environment = attribute.Key("service.environment")
}
