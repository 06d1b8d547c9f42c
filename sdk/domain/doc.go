// Package domain contiene los tipos del protocolo DWX y el sistema de errores de trading.
//
// # Responsabilidades
//
// - Discriminadores del comando: Action (15 acciones) y OrderType (6 tipos)
// - Tabla de esquema: campos requeridos por cada acción
// - Modelos de respuesta: Position y PendingOrder
// - Sistema de errores del dominio de trading
//
// # Discriminadores
//
// Action y OrderType son enteros con código fijo. El código es lo que viaja en el
// registro; el nombre simbólico se usa en mensajes y logs:
//
//	domain.ActionPosClose.Code()   // 3
//	domain.ActionPosClose.String() // "POS_CLOSE"
//	domain.OrderTypeBuyLimit.IsPending() // true
//
// # Esquema
//
// FieldsFor retorna los campos que el terminal lee para cada acción, en orden:
//
//	set, _ := domain.FieldsFor(domain.ActionPosClosePartial)
//	set.Fields() // [action lots ticket]
//
// GET_DATA y GET_TICK_DATA retornan un FieldSet no implementado:
//
//	set, _ := domain.FieldsFor(domain.ActionGetData)
//	set.IsImplemented() // false
//
// # Sistema de Errores
//
// Errores tipados con contexto:
//
//	err := domain.NewError(domain.ErrMissingRequiredField, "Missing required key 'ticket' for action POS_CLOSE")
//	err.WithDetail("field", "ticket")
//	err.WithDetail("action", "POS_CLOSE")
//
// La comparación con errors.Is se hace por código:
//
//	if domain.HasCode(err, domain.ErrUnexpectedField) {
//	    // campo sobrante
//	}
//
// Los códigos de error del terminal se traducen con ErrorFromMT4Code:
//
//	code := domain.ErrorFromMT4Code(134) // ErrNoMoney
package domain
