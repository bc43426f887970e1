package realtime

import (
	"context"
	"sync"
)

// MemoryStore — store en memoria para una sola instancia del servidor (y para
// tests). Varias Broadcaster pueden compartir el mismo MemoryStore; los avisos
// llegan a todos los watchers, incluido el del escritor, que los descarta por
// el campo Source del envelope.
type MemoryStore struct {
	mu       sync.Mutex
	data     map[string][]byte
	watchers map[chan Event]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:     make(map[string][]byte),
		watchers: make(map[chan Event]struct{}),
	}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(p))
	copy(out, p)
	return out, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, payload []byte) error {
	cp := make([]byte, len(payload))
	copy(cp, payload)

	m.mu.Lock()
	m.data[key] = cp
	chans := make([]chan Event, 0, len(m.watchers))
	for ch := range m.watchers {
		chans = append(chans, ch)
	}
	m.mu.Unlock()

	for _, ch := range chans {
		select {
		case ch <- Event{Key: key, Payload: cp}:
		default:
			// watcher saturado: el aviso se pierde, lo recoge el poller
		}
	}
	return nil
}

func (m *MemoryStore) Watch(ctx context.Context) (<-chan Event, error) {
	ch := make(chan Event, 16)
	m.mu.Lock()
	m.watchers[ch] = struct{}{}
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		delete(m.watchers, ch)
		m.mu.Unlock()
		close(ch)
	}()
	return ch, nil
}
