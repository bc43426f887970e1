package realtime_test

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/francisquitu91/retiro-escolar/internal/realtime"
)

// intervalo enorme: en estos tests solo importa el camino síncrono y el watch
const idlePoll = time.Hour

func newBroadcaster(t *testing.T, store realtime.Store) *realtime.Broadcaster {
	t.Helper()
	b := realtime.NewBroadcaster(store, idlePoll, zap.NewNop())
	t.Cleanup(b.Destroy)
	return b
}

func TestBroadcastOrdering(t *testing.T) {
	b := newBroadcaster(t, realtime.NewMemoryStore())

	var got []string
	b.Subscribe(realtime.Students, func(data json.RawMessage) {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			t.Errorf("unmarshal: %v", err)
			return
		}
		got = append(got, v)
	})

	ctx := context.Background()
	if err := b.Broadcast(ctx, realtime.Students, "v1"); err != nil {
		t.Fatal(err)
	}
	if err := b.Broadcast(ctx, realtime.Students, "v2"); err != nil {
		t.Fatal(err)
	}

	want := []string{"v1", "v2"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("esperaba %v, llegó %v", want, got)
	}
}

func TestBroadcastIsolationBetweenCollections(t *testing.T) {
	b := newBroadcaster(t, realtime.NewMemoryStore())

	calls := 0
	b.Subscribe(realtime.Students, func(json.RawMessage) { calls++ })

	if err := b.Broadcast(context.Background(), realtime.Courses, "cursos"); err != nil {
		t.Fatal(err)
	}
	if calls != 0 {
		t.Fatalf("el suscriptor de students recibió %d llamadas por un broadcast de courses", calls)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := newBroadcaster(t, realtime.NewMemoryStore())

	ctx := context.Background()
	first, second := 0, 0
	unsub := b.Subscribe(realtime.Students, func(json.RawMessage) { first++ })
	b.Subscribe(realtime.Students, func(json.RawMessage) { second++ })

	if err := b.Broadcast(ctx, realtime.Students, 1); err != nil {
		t.Fatal(err)
	}
	unsub()
	if err := b.Broadcast(ctx, realtime.Students, 2); err != nil {
		t.Fatal(err)
	}

	if first != 1 {
		t.Fatalf("suscripción cancelada recibió %d llamadas, esperaba 1", first)
	}
	if second != 2 {
		t.Fatalf("la otra suscripción recibió %d llamadas, esperaba 2", second)
	}
}

func TestSyncedRoundTrip(t *testing.T) {
	b := newBroadcaster(t, realtime.NewMemoryStore())
	ctx := context.Background()

	in := []map[string]any{
		{"id": "s1", "full_name": "Valentina Rojas", "status": "Presente"},
		{"id": "s2", "full_name": "Matías Soto", "status": "Retirado"},
	}
	if err := b.Broadcast(ctx, realtime.Students, in); err != nil {
		t.Fatal(err)
	}

	raw := b.Synced(ctx, realtime.Students)
	if raw == nil {
		t.Fatal("Synced devolvió nil tras un Broadcast")
	}
	var out []map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round-trip: esperaba %v, llegó %v", in, out)
	}
}

func TestSyncedAbsentAndCorrupt(t *testing.T) {
	store := realtime.NewMemoryStore()
	b := newBroadcaster(t, store)
	ctx := context.Background()

	if raw := b.Synced(ctx, realtime.Courses); raw != nil {
		t.Fatalf("clave ausente: esperaba nil, llegó %s", raw)
	}

	// envelope corrupto: se registra y se trata como ausente, sin pánico
	if err := store.Set(ctx, realtime.Courses.Key(), []byte("{no es json")); err != nil {
		t.Fatal(err)
	}
	if raw := b.Synced(ctx, realtime.Courses); raw != nil {
		t.Fatalf("envelope corrupto: esperaba nil, llegó %s", raw)
	}
}

func TestPanickingCallbackDoesNotBlockOthers(t *testing.T) {
	b := newBroadcaster(t, realtime.NewMemoryStore())

	calls := 0
	b.Subscribe(realtime.Students, func(json.RawMessage) { panic("callback roto") })
	b.Subscribe(realtime.Students, func(json.RawMessage) { calls++ })

	if err := b.Broadcast(context.Background(), realtime.Students, "x"); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Fatalf("el segundo suscriptor recibió %d llamadas, esperaba 1", calls)
	}
}

func TestCrossInstancePropagation(t *testing.T) {
	store := realtime.NewMemoryStore()
	writer := newBroadcaster(t, store)
	reader := newBroadcaster(t, store)

	got := make(chan string, 1)
	reader.Subscribe(realtime.PickupLogs, func(data json.RawMessage) {
		var v string
		_ = json.Unmarshal(data, &v)
		select {
		case got <- v:
		default:
		}
	})

	if err := writer.Broadcast(context.Background(), realtime.PickupLogs, "retiro-1"); err != nil {
		t.Fatal(err)
	}

	select {
	case v := <-got:
		if v != "retiro-1" {
			t.Fatalf("llegó %q, esperaba %q", v, "retiro-1")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("la otra instancia nunca recibió el aviso")
	}
}

func TestWriterDoesNotDoubleDeliverOwnWrites(t *testing.T) {
	store := realtime.NewMemoryStore()
	writer := newBroadcaster(t, store)

	calls := 0
	writer.Subscribe(realtime.Students, func(json.RawMessage) { calls++ })

	if err := writer.Broadcast(context.Background(), realtime.Students, "x"); err != nil {
		t.Fatal(err)
	}
	// margen para que el watch procese (y descarte) el aviso propio
	time.Sleep(100 * time.Millisecond)
	if calls != 1 {
		t.Fatalf("escritura propia entregada %d veces, esperaba 1", calls)
	}
}

// quietStore nunca emite avisos de watch: obliga a que trabaje el poll.
type quietStore struct {
	*realtime.MemoryStore
}

func (q quietStore) Watch(ctx context.Context) (<-chan realtime.Event, error) {
	ch := make(chan realtime.Event)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}

func TestPollDetectsMissedWrites(t *testing.T) {
	store := quietStore{realtime.NewMemoryStore()}
	reader := realtime.NewBroadcaster(store, 50*time.Millisecond, zap.NewNop())
	defer reader.Destroy()

	got := make(chan struct{}, 1)
	reader.Subscribe(realtime.Courses, func(json.RawMessage) {
		select {
		case got <- struct{}{}:
		default:
		}
	})

	// escritura directa al store: sin aviso de watch, la tiene que
	// recoger el poll por timestamp
	env := realtime.Envelope{
		Data:      json.RawMessage(`["curso"]`),
		Timestamp: time.Now().Add(time.Minute).UnixMilli(),
		Source:    "otra-instancia",
	}
	payload, err := json.Marshal(env)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Set(context.Background(), realtime.Courses.Key(), payload); err != nil {
		t.Fatal(err)
	}

	select {
	case <-got:
	case <-time.After(2 * time.Second):
		t.Fatal("el poll nunca repartió la escritura")
	}
}
