// Package command codifica comandos DWX en el registro posicional de 10 slots.
//
// # Registro
//
// El terminal lee un registro separado por ";" con los slots, en este orden:
//
//	_action;_type;_symbol;_price;_SL;_TP;_comment;_lots;_magic;_ticket
//
// Un slot que la acción no usa viaja vacío. Vacío no es lo mismo que "0".
//
// # Encoder
//
// El Encoder recibe un Discriminator (acción o tipo de orden) y los campos con nombre:
//
//	enc := command.NewEncoder()
//	rec, err := enc.Encode(command.ForAction(domain.ActionPosModify), command.Fields{
//	    domain.FieldTicket: 42,
//	})
//	// rec.String() == "2;;;;-1;-1;;;;42"
//
// Un tipo de orden a mercado resuelve POS_OPEN; limit y stop resuelven ORD_OPEN.
// En aperturas, SL/TP ausentes valen 0 (sin stop) y generan un aviso; en
// modificaciones valen -1 (no modificar) y no avisan.
//
// # Dispatch
//
// Dispatch expone un método por acción y tipo de orden sobre una DoFunc.
// NewGenerator sólo codifica; el conector del agent además envía:
//
//	gen := command.NewGenerator(enc)
//	rec, err := gen.PosClose(ctx, command.Fields{domain.FieldTicket: 42})
package command
