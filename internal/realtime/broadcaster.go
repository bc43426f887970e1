package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/francisquitu91/retiro-escolar/internal/metrics"
	"github.com/francisquitu91/retiro-escolar/internal/observability"
)

// Callback recibe el valor nuevo completo de la colección.
type Callback func(data json.RawMessage)

type subscription struct {
	col Collection
	fn  Callback
}

// Broadcaster propaga cambios de colecciones entre suscriptores locales y
// otras instancias del servidor que compartan el mismo Store.
//
// Se construye explícitamente y se pasa por referencia; no hay singleton de
// paquete. Los suscriptores locales se notifican en orden de registro dentro
// de la misma llamada a Broadcast. Los cambios remotos llegan por los avisos
// del store y, como respaldo, por un poll de intervalo fijo que compara el
// timestamp del envelope contra el último poll de esta instancia.
//
// Garantías: última escritura gana por clave, sin orden entre claves, sin
// deduplicación. Un envelope ilegible se registra y se trata como ausente.
type Broadcaster struct {
	id       string
	store    Store
	log      *zap.Logger
	interval time.Duration

	mu   sync.Mutex
	subs map[Collection][]*subscription

	lastPoll int64 // ms

	cancel  context.CancelFunc
	stopped sync.Once
	wg      sync.WaitGroup
}

func NewBroadcaster(store Store, interval time.Duration, log *zap.Logger) *Broadcaster {
	ctx, cancel := context.WithCancel(context.Background())
	b := &Broadcaster{
		id:       uuid.NewString(),
		store:    store,
		log:      log,
		interval: interval,
		subs:     make(map[Collection][]*subscription),
		cancel:   cancel,
	}

	b.wg.Add(1)
	go b.pollLoop(ctx)

	events, err := store.Watch(ctx)
	if err != nil {
		// sin canal de avisos queda solo el poll; suficiente, pero lo anotamos
		log.Warn("realtime: watch no disponible, solo poll", zap.Error(err))
	} else {
		b.wg.Add(1)
		go b.watchLoop(ctx, events)
	}
	return b
}

// Subscribe registra un callback para una colección y devuelve la función que
// elimina exactamente esa suscripción.
func (b *Broadcaster) Subscribe(col Collection, fn Callback) func() {
	sub := &subscription{col: col, fn: fn}
	b.mu.Lock()
	b.subs[col] = append(b.subs[col], sub)
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		list := b.subs[col]
		for i, s := range list {
			if s == sub {
				b.subs[col] = append(list[:i:i], list[i+1:]...)
				break
			}
		}
	}
}

// Broadcast persiste el valor nuevo bajo la clave de la colección y notifica
// a los suscriptores locales de forma síncrona.
func (b *Broadcaster) Broadcast(ctx context.Context, col Collection, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("realtime: marshal %s: %w", col, err)
	}
	env := Envelope{
		Data:      raw,
		Timestamp: time.Now().UnixMilli(),
		Source:    b.id,
	}
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("realtime: marshal envelope %s: %w", col, err)
	}
	if err := b.store.Set(ctx, col.Key(), payload); err != nil {
		return fmt.Errorf("realtime: persist %s: %w", col, err)
	}
	metrics.SyncBroadcasts.WithLabelValues(string(col)).Inc()

	b.dispatch(col, raw)
	return nil
}

// Synced devuelve el último valor persistido de la colección, o nil si no hay
// nada o el envelope está corrupto.
func (b *Broadcaster) Synced(ctx context.Context, col Collection) json.RawMessage {
	payload, err := b.store.Get(ctx, col.Key())
	if err != nil {
		b.log.Error("realtime: leer snapshot", zap.String("collection", string(col)), zap.Error(err))
		return nil
	}
	if payload == nil {
		return nil
	}
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		b.log.Error("realtime: envelope corrupto", zap.String("collection", string(col)), zap.Error(err))
		return nil
	}
	return env.Data
}

// Destroy detiene el poller y el watcher y descarta las suscripciones.
func (b *Broadcaster) Destroy() {
	b.stopped.Do(func() {
		b.cancel()
		b.wg.Wait()
		b.mu.Lock()
		b.subs = make(map[Collection][]*subscription)
		b.mu.Unlock()
	})
}

func (b *Broadcaster) dispatch(col Collection, data json.RawMessage) {
	b.mu.Lock()
	list := make([]*subscription, len(b.subs[col]))
	copy(list, b.subs[col])
	b.mu.Unlock()

	for _, s := range list {
		b.invoke(col, s, data)
	}
}

// invoke aísla el recover: un callback que revienta no bloquea a los demás.
func (b *Broadcaster) invoke(col Collection, s *subscription, data json.RawMessage) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("realtime: callback %s: %v", col, r)
			b.log.Error("realtime: panic en callback", zap.Error(err))
			observability.CaptureErr(err)
		}
	}()
	s.fn(data)
}

func (b *Broadcaster) watchLoop(ctx context.Context, events <-chan Event) {
	defer b.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			b.handleRemote(ev)
		}
	}
}

func (b *Broadcaster) handleRemote(ev Event) {
	col, ok := collectionForKey(ev.Key)
	if !ok {
		return
	}
	var env Envelope
	if err := json.Unmarshal(ev.Payload, &env); err != nil {
		b.log.Error("realtime: aviso corrupto", zap.String("key", ev.Key), zap.Error(err))
		return
	}
	if env.Source == b.id {
		// escritura propia: los locales ya fueron notificados en Broadcast
		return
	}
	b.dispatch(col, env.Data)
}

// pollLoop relee todas las claves cada intervalo y reparte lo que tenga un
// timestamp posterior al poll anterior. Cubre avisos perdidos.
func (b *Broadcaster) pollLoop(ctx context.Context) {
	defer b.wg.Done()
	t := time.NewTicker(b.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			b.checkForUpdates(ctx)
		}
	}
}

func (b *Broadcaster) checkForUpdates(ctx context.Context) {
	last := b.lastPoll
	for _, col := range Collections() {
		payload, err := b.store.Get(ctx, col.Key())
		if err != nil || payload == nil {
			continue
		}
		var env Envelope
		if err := json.Unmarshal(payload, &env); err != nil {
			b.log.Error("realtime: envelope corrupto en poll", zap.String("collection", string(col)), zap.Error(err))
			continue
		}
		if env.Timestamp > last {
			b.dispatch(col, env.Data)
		}
	}
	b.lastPoll = time.Now().UnixMilli()
}

func collectionForKey(key string) (Collection, bool) {
	for _, col := range Collections() {
		if col.Key() == key {
			return col, true
		}
	}
	return "", false
}
