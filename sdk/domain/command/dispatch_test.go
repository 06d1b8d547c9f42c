package command

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xKoRx/echo-dwx/sdk/domain"
)

type recordingDo struct {
	calls []Discriminator
}

func (r *recordingDo) do(_ context.Context, d Discriminator, _ Fields) (Record, error) {
	r.calls = append(r.calls, d)
	return Record{}, nil
}

func TestDispatchRoutesEveryMethod(t *testing.T) {
	rec := &recordingDo{}
	x := Dispatch{Do: rec.do}
	ctx := context.Background()

	methods := []struct {
		call func(context.Context, Fields) (Record, error)
		want Discriminator
	}{
		{x.Heartbeat, ForAction(domain.ActionHeartbeat)},
		{x.PosOpen, ForAction(domain.ActionPosOpen)},
		{x.PosModify, ForAction(domain.ActionPosModify)},
		{x.PosClose, ForAction(domain.ActionPosClose)},
		{x.PosClosePartial, ForAction(domain.ActionPosClosePartial)},
		{x.PosCloseMagic, ForAction(domain.ActionPosCloseMagic)},
		{x.PosCloseAll, ForAction(domain.ActionPosCloseAll)},
		{x.OrdOpen, ForAction(domain.ActionOrdOpen)},
		{x.OrdModify, ForAction(domain.ActionOrdModify)},
		{x.OrdDelete, ForAction(domain.ActionOrdDelete)},
		{x.OrdDeleteAll, ForAction(domain.ActionOrdDeleteAll)},
		{x.GetPositions, ForAction(domain.ActionGetPositions)},
		{x.GetPendingOrders, ForAction(domain.ActionGetPendingOrders)},
		{x.GetData, ForAction(domain.ActionGetData)},
		{x.GetTickData, ForAction(domain.ActionGetTickData)},
		{x.Buy, ForOrderType(domain.OrderTypeBuy)},
		{x.Sell, ForOrderType(domain.OrderTypeSell)},
		{x.BuyLimit, ForOrderType(domain.OrderTypeBuyLimit)},
		{x.SellLimit, ForOrderType(domain.OrderTypeSellLimit)},
		{x.BuyStop, ForOrderType(domain.OrderTypeBuyStop)},
		{x.SellStop, ForOrderType(domain.OrderTypeSellStop)},
	}

	for _, m := range methods {
		_, err := m.call(ctx, nil)
		require.NoError(t, err)
	}

	require.Len(t, rec.calls, len(methods))
	for i, m := range methods {
		assert.Equal(t, m.want, rec.calls[i])
	}
}

func TestDispatchWithoutDo(t *testing.T) {
	_, err := Dispatch{}.Heartbeat(context.Background(), nil)
	assert.ErrorIs(t, err, errNoDo)
}

func TestParseDiscriminator(t *testing.T) {
	d, err := ParseDiscriminator("pos_close")
	require.NoError(t, err)
	assert.Equal(t, ForAction(domain.ActionPosClose), d)

	d, err = ParseDiscriminator("SELL_LIMIT")
	require.NoError(t, err)
	assert.Equal(t, ForOrderType(domain.OrderTypeSellLimit), d)
	assert.Equal(t, "SELL_LIMIT", d.Name())

	_, err = ParseDiscriminator("HOLD")
	assert.True(t, domain.HasCode(err, domain.ErrInvalidDiscriminator))
}

func TestParseFields(t *testing.T) {
	f, err := ParseFields([]string{"symbol=EURUSD", "lots=0.10", "comment=123", "ticket= 42 "})
	require.NoError(t, err)

	assert.Equal(t, "EURUSD", f[domain.FieldSymbol])
	assert.Equal(t, json.Number("0.10"), f[domain.FieldLots])
	assert.Equal(t, "123", f[domain.FieldComment])
	assert.Equal(t, json.Number("42"), f[domain.FieldTicket])

	_, err = ParseFields([]string{"lots"})
	assert.Error(t, err)
}
