package command

import (
	"context"
	"errors"

	"github.com/xKoRx/echo-dwx/sdk/domain"
)

// DoFunc ejecuta un comando: codifica y, según quién lo provea, envía.
type DoFunc func(ctx context.Context, d Discriminator, f Fields) (Record, error)

// errNoDo indica una Dispatch sin DoFunc.
var errNoDo = errors.New("dispatch: Do is nil")

// Dispatch expone un método por cada acción y cada tipo de orden.
//
// Cada método es exactamente Do(ctx, discriminador, fields); no agrega validaciones.
type Dispatch struct {
	Do DoFunc
}

// NewGenerator retorna una Dispatch que sólo codifica, sin transporte.
func NewGenerator(enc *Encoder) Dispatch {
	return Dispatch{
		Do: func(_ context.Context, d Discriminator, f Fields) (Record, error) {
			return enc.Encode(d, f)
		},
	}
}

func (x Dispatch) action(ctx context.Context, a domain.Action, f Fields) (Record, error) {
	if x.Do == nil {
		return Record{}, errNoDo
	}
	return x.Do(ctx, ForAction(a), f)
}

func (x Dispatch) orderType(ctx context.Context, t domain.OrderType, f Fields) (Record, error) {
	if x.Do == nil {
		return Record{}, errNoDo
	}
	return x.Do(ctx, ForOrderType(t), f)
}

// Heartbeat envía HEARTBEAT.
func (x Dispatch) Heartbeat(ctx context.Context, f Fields) (Record, error) {
	return x.action(ctx, domain.ActionHeartbeat, f)
}

// PosOpen envía POS_OPEN. Requiere type, que no puede pasarse como campo: usar Buy/Sell.
func (x Dispatch) PosOpen(ctx context.Context, f Fields) (Record, error) {
	return x.action(ctx, domain.ActionPosOpen, f)
}

// PosModify envía POS_MODIFY.
func (x Dispatch) PosModify(ctx context.Context, f Fields) (Record, error) {
	return x.action(ctx, domain.ActionPosModify, f)
}

// PosClose envía POS_CLOSE.
func (x Dispatch) PosClose(ctx context.Context, f Fields) (Record, error) {
	return x.action(ctx, domain.ActionPosClose, f)
}

// PosClosePartial envía POS_CLOSE_PARTIAL.
func (x Dispatch) PosClosePartial(ctx context.Context, f Fields) (Record, error) {
	return x.action(ctx, domain.ActionPosClosePartial, f)
}

// PosCloseMagic envía POS_CLOSE_MAGIC.
func (x Dispatch) PosCloseMagic(ctx context.Context, f Fields) (Record, error) {
	return x.action(ctx, domain.ActionPosCloseMagic, f)
}

// PosCloseAll envía POS_CLOSE_ALL.
func (x Dispatch) PosCloseAll(ctx context.Context, f Fields) (Record, error) {
	return x.action(ctx, domain.ActionPosCloseAll, f)
}

// OrdOpen envía ORD_OPEN.
func (x Dispatch) OrdOpen(ctx context.Context, f Fields) (Record, error) {
	return x.action(ctx, domain.ActionOrdOpen, f)
}

// OrdModify envía ORD_MODIFY.
func (x Dispatch) OrdModify(ctx context.Context, f Fields) (Record, error) {
	return x.action(ctx, domain.ActionOrdModify, f)
}

// OrdDelete envía ORD_DELETE.
func (x Dispatch) OrdDelete(ctx context.Context, f Fields) (Record, error) {
	return x.action(ctx, domain.ActionOrdDelete, f)
}

// OrdDeleteAll envía ORD_DELETE_ALL.
func (x Dispatch) OrdDeleteAll(ctx context.Context, f Fields) (Record, error) {
	return x.action(ctx, domain.ActionOrdDeleteAll, f)
}

// GetPositions envía GET_POSITIONS.
func (x Dispatch) GetPositions(ctx context.Context, f Fields) (Record, error) {
	return x.action(ctx, domain.ActionGetPositions, f)
}

// GetPendingOrders envía GET_PENDING_ORDERS.
func (x Dispatch) GetPendingOrders(ctx context.Context, f Fields) (Record, error) {
	return x.action(ctx, domain.ActionGetPendingOrders, f)
}

// GetData siempre falla con ErrNotImplemented.
func (x Dispatch) GetData(ctx context.Context, f Fields) (Record, error) {
	return x.action(ctx, domain.ActionGetData, f)
}

// GetTickData siempre falla con ErrNotImplemented.
func (x Dispatch) GetTickData(ctx context.Context, f Fields) (Record, error) {
	return x.action(ctx, domain.ActionGetTickData, f)
}

// Buy abre una posición de compra a mercado.
func (x Dispatch) Buy(ctx context.Context, f Fields) (Record, error) {
	return x.orderType(ctx, domain.OrderTypeBuy, f)
}

// Sell abre una posición de venta a mercado.
func (x Dispatch) Sell(ctx context.Context, f Fields) (Record, error) {
	return x.orderType(ctx, domain.OrderTypeSell, f)
}

// BuyLimit coloca una orden pendiente BUY_LIMIT.
func (x Dispatch) BuyLimit(ctx context.Context, f Fields) (Record, error) {
	return x.orderType(ctx, domain.OrderTypeBuyLimit, f)
}

// SellLimit coloca una orden pendiente SELL_LIMIT.
func (x Dispatch) SellLimit(ctx context.Context, f Fields) (Record, error) {
	return x.orderType(ctx, domain.OrderTypeSellLimit, f)
}

// BuyStop coloca una orden pendiente BUY_STOP.
func (x Dispatch) BuyStop(ctx context.Context, f Fields) (Record, error) {
	return x.orderType(ctx, domain.OrderTypeBuyStop, f)
}

// SellStop coloca una orden pendiente SELL_STOP.
func (x Dispatch) SellStop(ctx context.Context, f Fields) (Record, error) {
	return x.orderType(ctx, domain.OrderTypeSellStop, f)
}
