package command

import (
	"fmt"

	"github.com/xKoRx/echo-dwx/sdk/domain"
)

// Discriminator selecciona la acción del comando. Tiene exactamente dos casos:
// ActionCase y OrderTypeCase.
type Discriminator interface {
	// Name retorna el nombre simbólico del discriminador.
	Name() string
	isDiscriminator()
}

// ActionCase discrimina por acción explícita.
type ActionCase struct {
	Action domain.Action
}

// OrderTypeCase discrimina por tipo de orden; la acción se deriva.
type OrderTypeCase struct {
	OrderType domain.OrderType
}

func (ActionCase) isDiscriminator()    {}
func (OrderTypeCase) isDiscriminator() {}

// Name implementa Discriminator.
func (c ActionCase) Name() string { return c.Action.String() }

// Name implementa Discriminator.
func (c OrderTypeCase) Name() string { return c.OrderType.String() }

// ForAction construye un discriminador por acción.
func ForAction(a domain.Action) Discriminator {
	return ActionCase{Action: a}
}

// ForOrderType construye un discriminador por tipo de orden.
func ForOrderType(t domain.OrderType) Discriminator {
	return OrderTypeCase{OrderType: t}
}

// ParseDiscriminator interpreta un nombre como acción o, si no lo es, como tipo de orden.
func ParseDiscriminator(name string) (Discriminator, error) {
	if a, err := domain.ParseAction(name); err == nil {
		return ForAction(a), nil
	}
	if t, err := domain.ParseOrderType(name); err == nil {
		return ForOrderType(t), nil
	}
	return nil, domain.NewError(domain.ErrInvalidDiscriminator,
		fmt.Sprintf("'%s' is neither an action nor an order type", name)).
		WithDetail("discriminator", name)
}

// resolution es el resultado de resolver un discriminador.
type resolution struct {
	action    domain.Action
	orderType domain.OrderType
	hasType   bool
	schema    domain.FieldSet
}

// resolve deriva la acción y su esquema. Las acciones no implementadas fallan
// aquí, antes de mirar ningún campo.
func resolve(d Discriminator) (resolution, error) {
	var res resolution

	switch c := d.(type) {
	case ActionCase:
		if !c.Action.Valid() {
			return res, domain.NewError(domain.ErrInvalidDiscriminator,
				fmt.Sprintf("Unknown action %s", c.Action)).
				WithDetail("action", c.Action.String())
		}
		res.action = c.Action
		res.orderType = domain.OrderTypeUnset
	case OrderTypeCase:
		switch {
		case c.OrderType.IsMarket():
			res.action = domain.ActionPosOpen
		case c.OrderType.IsPending():
			res.action = domain.ActionOrdOpen
		default:
			return res, domain.NewError(domain.ErrInvalidDiscriminator,
				fmt.Sprintf("Order type %s maps to no action", c.OrderType)).
				WithDetail("order_type", c.OrderType.String())
		}
		res.orderType = c.OrderType
		res.hasType = true
	default:
		return res, domain.NewError(domain.ErrInvalidDiscriminator, "Missing discriminator")
	}

	schema, err := domain.FieldsFor(res.action)
	if err != nil {
		return res, err
	}
	if !schema.IsImplemented() {
		return res, domain.NewError(domain.ErrNotImplemented,
			fmt.Sprintf("Action %s is not implemented", res.action)).
			WithDetail("action", res.action.String())
	}
	res.schema = schema
	return res, nil
}
