package internal

import (
	"context"
	"errors"
	"sync"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xKoRx/echo-dwx/sdk/domain"
	"github.com/xKoRx/echo-dwx/sdk/domain/command"
	"github.com/xKoRx/echo-dwx/sdk/ipc"
	"github.com/xKoRx/echo-dwx/sdk/telemetry"
	"github.com/xKoRx/echo-dwx/sdk/telemetry/metricbundle"
	"github.com/xKoRx/echo-dwx/sdk/telemetry/semconv"
	"github.com/xKoRx/echo-dwx/sdk/tracker"
	"github.com/xKoRx/echo-dwx/sdk/utils"
)

// Connector une encoder, pipe de comandos y tracker de respuestas.
//
// Los métodos directos (Buy, PosClose, OrdModify, ...) vienen de
// command.Dispatch y terminan en Send.
type Connector struct {
	command.Dispatch

	encoder *command.Encoder
	writer  *ipc.CommandWriter
	tracker *tracker.Tracker

	telemetry *telemetry.Client
	metrics   *metricbundle.BridgeMetrics

	mu        sync.RWMutex
	snapshots *SnapshotStore
	saveMu    sync.Mutex
}

// NewConnector crea un Connector. tr nil crea un tracker vacío.
func NewConnector(defaults command.Defaults, writer *ipc.CommandWriter, tr *tracker.Tracker, tel *telemetry.Client) *Connector {
	if tr == nil {
		tr = tracker.New()
	}
	c := &Connector{
		encoder:   command.NewEncoder(command.WithDefaults(defaults)),
		writer:    writer,
		tracker:   tr,
		telemetry: tel,
		metrics:   tel.BridgeMetrics(),
	}
	c.Dispatch = command.Dispatch{Do: c.Send}
	return c
}

// SetSnapshotStore habilita la persistencia del último estado.
func (c *Connector) SetSnapshotStore(s *SnapshotStore) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshots = s
}

func (c *Connector) snapshotStore() *SnapshotStore {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshots
}

// Encoder expone el encoder configurado.
func (c *Connector) Encoder() *command.Encoder {
	return c.encoder
}

// Send codifica el comando y lo escribe en el pipe de comandos.
//
// Un error de codificación no escribe nada. Los advisories se registran
// como WARN y se cuentan en dwx.command.advisories.
func (c *Connector) Send(ctx context.Context, d command.Discriminator, f command.Fields) (command.Record, error) {
	commandID := utils.GenerateUUIDv7()
	name := "<nil>"
	if d != nil {
		name = d.Name()
	}

	ctx = telemetry.AppendCommonAttrs(ctx, semconv.DWX.Component.String("connector"))
	ctx = telemetry.AppendEventAttrs(ctx,
		semconv.DWX.CommandID.String(commandID),
		semconv.DWX.Action.String(name),
	)
	ctx = telemetry.AppendMetricAttrs(ctx, semconv.DWX.Action.String(name))
	ctx, span := c.telemetry.StartSpan(ctx, "dwx.command.send")
	defer span.End()

	done := c.metrics.Command.StartDurationTimer(ctx)
	defer done()

	rec, err := c.encoder.Encode(d, f)
	if err != nil {
		c.fail(ctx, "Command rejected", err)
		return command.Record{}, err
	}
	c.telemetry.SetSpanAttributes(ctx, recordAttrs(rec)...)

	for _, adv := range rec.Advisories() {
		c.telemetry.Warn(ctx, adv.Message,
			semconv.DWX.AdvisoryCode.String(string(adv.Code)),
			semconv.DWX.Field.String(adv.Field.String()),
		)
		c.metrics.RecordAdvisory(ctx, semconv.DWX.AdvisoryCode.String(string(adv.Code)))
	}

	if c.writer == nil {
		err := domain.NewError(domain.ErrTransport, "command pipe not connected")
		c.fail(ctx, "Command not sent", err)
		return rec, err
	}
	if err := c.writer.WriteCommand(rec); err != nil {
		wrapped := domain.WrapError(domain.ErrTransport, "failed to write command", err)
		c.fail(ctx, "Command not sent", wrapped)
		return rec, wrapped
	}

	c.metrics.Command.RecordResult(ctx, semconv.DWX.Status.String(semconv.StatusSuccess))
	c.telemetry.Debug(ctx, "Command sent",
		attribute.String("record", c.writer.FormatCommand(rec)),
	)
	return rec, nil
}

// recordAttrs describe el registro codificado para el span del envío.
func recordAttrs(rec command.Record) []attribute.KeyValue {
	attrs := []attribute.KeyValue{semconv.DWX.Action.String(rec.Action().String())}
	if t, ok := rec.Type(); ok {
		attrs = append(attrs, semconv.DWX.OrderType.String(t.String()))
	}
	if rec.Has(domain.FieldSymbol) {
		attrs = append(attrs, semconv.DWX.Symbol.String(rec.Slot(domain.FieldSymbol)))
	}
	return attrs
}

func (c *Connector) fail(ctx context.Context, msg string, err error) {
	code := domain.CodeOf(err)
	c.telemetry.RecordError(ctx, err)
	c.metrics.Command.RecordResult(ctx,
		semconv.DWX.Status.String(semconv.StatusError),
		semconv.DWX.ErrorCode.String(string(code)),
	)

	var te *domain.TradingError
	if errors.As(err, &te) && !domain.HasCode(err, domain.ErrTransport) {
		c.telemetry.Warn(ctx, msg,
			semconv.DWX.ErrorCode.String(string(code)),
			attribute.String("error", te.Error()),
			attribute.Bool("fatal", domain.IsFatal(code)),
		)
		return
	}
	c.telemetry.Error(ctx, msg, err, semconv.DWX.ErrorCode.String(string(code)))
}

// ApplyResponse aplica un payload del terminal al tracker.
//
// Las claves mal formadas se registran como WARN y no tocan el estado.
// Si hay SnapshotStore y algo cambió, se persiste el snapshot completo.
func (c *Connector) ApplyResponse(ctx context.Context, p tracker.Payload) tracker.ApplyResult {
	ctx = telemetry.AppendCommonAttrs(ctx, semconv.DWX.Component.String("tracker"))

	res := c.tracker.Apply(p)

	for _, key := range res.Updated {
		c.metrics.RecordKeysApplied(ctx, 1, semconv.DWX.ResponseKey.String(string(key)))
	}
	for _, skipped := range res.Skipped {
		c.metrics.RecordKeysSkipped(ctx, 1, semconv.DWX.ResponseKey.String(string(skipped.Key)))
		c.telemetry.Warn(ctx, "Malformed response key ignored",
			semconv.DWX.ResponseKey.String(string(skipped.Key)),
			attribute.String("reason", skipped.Reason),
		)
	}

	if res.Changed() {
		c.persist(ctx)
	}
	return res
}

// persist toma el snapshot bajo saveMu: el último Save siempre contiene el
// estado más reciente.
func (c *Connector) persist(ctx context.Context) {
	store := c.snapshotStore()
	if store == nil {
		return
	}

	c.saveMu.Lock()
	defer c.saveMu.Unlock()

	if err := store.Save(c.tracker.Snapshot()); err != nil {
		c.telemetry.Error(ctx, "Failed to persist tracker snapshot", err)
	}
}

// Tracker expone el tracker de respuestas.
func (c *Connector) Tracker() *tracker.Tracker {
	return c.tracker
}

// Ticket retorna el último ticket reportado.
func (c *Connector) Ticket() (int64, bool) {
	return c.tracker.Ticket()
}

// Positions retorna las últimas posiciones abiertas reportadas.
func (c *Connector) Positions() (map[string]domain.Position, bool) {
	return c.tracker.Positions()
}

// Orders retorna las últimas órdenes pendientes reportadas.
func (c *Connector) Orders() (map[string]domain.PendingOrder, bool) {
	return c.tracker.Orders()
}
