package command

import (
	"fmt"
	"sort"

	"github.com/xKoRx/echo-dwx/sdk/domain"
)

// DefaultMagic es el MagicNumber que se usa cuando el comando no trae uno.
const DefaultMagic int64 = 123456

// Valores por defecto de SL/TP según la familia de la acción.
var (
	openStopDefault   = float64(0)  // sin stop
	modifyStopDefault = float64(-1) // no modificar
)

// Defaults son los valores que el Encoder inyecta cuando faltan comment o magic.
type Defaults struct {
	Comment string
	Magic   int64
}

// DefaultDefaults retorna los valores por defecto del conector DWX.
func DefaultDefaults() Defaults {
	return Defaults{
		Comment: "",
		Magic:   DefaultMagic,
	}
}

// Option configura un Encoder.
type Option func(*Encoder)

// WithDefaults reemplaza comment/magic por defecto.
func WithDefaults(d Defaults) Option {
	return func(e *Encoder) {
		e.defaults = d
	}
}

// WithAdvisoryHandler configura el receptor de avisos.
func WithAdvisoryHandler(h AdvisoryHandler) Option {
	return func(e *Encoder) {
		if h != nil {
			e.advise = h
		}
	}
}

// Encoder valida un discriminador más campos contra la tabla de esquema y
// produce el Record.
//
// No tiene estado mutable: es seguro para uso concurrente.
type Encoder struct {
	defaults Defaults
	advise   AdvisoryHandler
}

// NewEncoder crea un Encoder con DefaultDefaults y avisos descartados.
//
// Example:
//
//	collector := &command.AdvisoryCollector{}
//	enc := command.NewEncoder(command.WithAdvisoryHandler(collector.Handle))
//	rec, err := enc.Encode(command.ForOrderType(domain.OrderTypeBuy), command.Fields{
//	    domain.FieldSymbol: "EURUSD",
//	    domain.FieldLots:   1,
//	})
//	// rec.String() == "1;0;EURUSD;0;0;0;;1;123456;"
func NewEncoder(opts ...Option) *Encoder {
	e := &Encoder{
		defaults: DefaultDefaults(),
		advise:   DiscardAdvisories,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Defaults retorna los valores por defecto configurados.
func (e *Encoder) Defaults() Defaults {
	return e.defaults
}

// Encode produce el registro del comando.
//
// Orden de validación:
//  1. action/type dentro de fields: ErrReservedField
//  2. resolución del discriminador: ErrInvalidDiscriminator, ErrNotImplemented
//  3. precio de mercado (solo POS_OPEN) y valores por defecto del esquema
//  4. campos requeridos faltantes: ErrMissingRequiredField
//  5. campos sobrantes: ErrUnexpectedField
//  6. valores no representables: ErrInvalidFieldValue
//
// Los avisos se entregan al handler sólo si el registro se genera.
// El mapa del llamador nunca se modifica.
func (e *Encoder) Encode(d Discriminator, f Fields) (Record, error) {
	for _, reserved := range []domain.Field{domain.FieldAction, domain.FieldType} {
		if _, ok := f[reserved]; ok {
			return Record{}, domain.NewError(domain.ErrReservedField,
				fmt.Sprintf("Field '%s' must be given as the discriminator, not as a keyword argument", reserved)).
				WithDetail("field", string(reserved))
		}
	}

	res, err := resolve(d)
	if err != nil {
		return Record{}, err
	}

	working := f.Clone()
	working[domain.FieldAction] = res.action
	if res.hasType {
		working[domain.FieldType] = res.orderType
	}

	advisories := e.applyDefaults(res, working)

	// Completitud y exclusividad en orden de cable.
	for _, field := range res.schema.Fields() {
		if _, ok := working[field]; !ok {
			return Record{}, missingField(field, res.action)
		}
	}
	if extra, ok := firstUnexpected(working, res.schema); ok {
		return Record{}, unexpectedField(extra, res.action)
	}

	rec := Record{
		action:    res.action,
		orderType: res.orderType,
	}
	for i, field := range domain.WireFields() {
		value, ok := working[field]
		if !ok {
			continue
		}
		text, err := formatValue(value)
		if err != nil {
			return Record{}, domain.WrapError(domain.ErrInvalidFieldValue,
				fmt.Sprintf("Invalid value for key '%s' for action %s", field, res.action), err).
				WithDetail("field", string(field)).
				WithDetail("action", res.action.String())
		}
		rec.values[i] = value
		rec.present[i] = true
		rec.slots[i] = text
	}
	rec.advisories = advisories

	for _, a := range advisories {
		e.advise(a)
	}
	return rec, nil
}

// applyDefaults completa price/sl/tp/comment/magic según la acción y retorna los avisos.
func (e *Encoder) applyDefaults(res resolution, working Fields) []Advisory {
	var advisories []Advisory

	if res.action == domain.ActionPosOpen {
		price, ok := working[domain.FieldPrice]
		if !ok {
			working[domain.FieldPrice] = openStopDefault
		} else if n, numeric := numericValue(price); numeric && !n.IsZero() {
			advisories = append(advisories, Advisory{
				Code:    AdvisoryMarketPrice,
				Field:   domain.FieldPrice,
				Action:  res.action,
				Message: msgMarketPrice,
			})
		}
	}

	stops := []struct {
		field domain.Field
		code  AdvisoryCode
		msg   string
	}{
		{domain.FieldSL, AdvisoryNoStopLoss, msgNoStopLoss},
		{domain.FieldTP, AdvisoryNoTakeProfit, msgNoTakeProfit},
	}
	for _, s := range stops {
		if !res.schema.Contains(s.field) {
			continue
		}
		if _, ok := working[s.field]; ok {
			continue
		}
		switch {
		case res.action.IsOpen():
			working[s.field] = openStopDefault
			advisories = append(advisories, Advisory{
				Code:    s.code,
				Field:   s.field,
				Action:  res.action,
				Message: s.msg,
			})
		case res.action.IsModify():
			working[s.field] = modifyStopDefault
		}
	}

	if res.schema.Contains(domain.FieldComment) {
		if _, ok := working[domain.FieldComment]; !ok {
			working[domain.FieldComment] = e.defaults.Comment
		}
	}
	if res.schema.Contains(domain.FieldMagic) {
		if _, ok := working[domain.FieldMagic]; !ok {
			working[domain.FieldMagic] = e.defaults.Magic
		}
	}

	return advisories
}

// firstUnexpected retorna el primer campo no requerido: primero los del
// universo en orden de cable, luego los desconocidos en orden alfabético.
func firstUnexpected(working Fields, schema domain.FieldSet) (domain.Field, bool) {
	for _, field := range domain.WireFields() {
		if _, ok := working[field]; ok && !schema.Contains(field) {
			return field, true
		}
	}

	var unknown []string
	for field := range working {
		if !field.Valid() {
			unknown = append(unknown, string(field))
		}
	}
	if len(unknown) == 0 {
		return "", false
	}
	sort.Strings(unknown)
	return domain.Field(unknown[0]), true
}

func missingField(field domain.Field, action domain.Action) error {
	return domain.NewError(domain.ErrMissingRequiredField,
		fmt.Sprintf("Missing required key '%s' for action %s", field, action)).
		WithDetail("field", string(field)).
		WithDetail("action", action.String())
}

func unexpectedField(field domain.Field, action domain.Action) error {
	return domain.NewError(domain.ErrUnexpectedField,
		fmt.Sprintf("Got unexpected keyword argument '%s' for action %s", field, action)).
		WithDetail("field", string(field)).
		WithDetail("action", action.String())
}
