// Package tracker mantiene el estado que el terminal reporta en sus respuestas.
//
// Se rastrean tres claves independientes: _ticket, _positions y _orders. Cada
// respuesta reemplaza por completo las cachés de las claves que trae y deja
// intactas las demás:
//
//	tr := tracker.New()
//	tr.Apply(tracker.Payload{"_ticket": 7.0})
//	tr.Apply(tracker.Payload{"_positions": map[string]interface{}{}})
//	ticket, _ := tr.Ticket() // 7
//
// Las posiciones se convierten a domain.Position al escribir; las órdenes se
// guardan crudas y se convierten a domain.PendingOrder en cada lectura. Todos
// los accesores retornan copias independientes.
package tracker
