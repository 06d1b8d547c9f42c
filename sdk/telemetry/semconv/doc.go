// Package semconv define las claves de atributos OpenTelemetry del bridge DWX.
//
//	client.Info(ctx, "Command sent",
//	    semconv.Logs.Event.String("command_sent"),
//	    semconv.DWX.Action.String("POS_CLOSE"),
//	    semconv.DWX.Ticket.Int64(42),
//	)
//
// Las mismas claves se usan en logs, spans y métricas para poder
// correlacionar los tres pilares.
package semconv
