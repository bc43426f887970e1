package realtime

import (
	"context"
	"encoding/json"
)

// Envelope — lo que se persiste por clave: el valor completo, el instante de
// escritura en milisegundos y la instancia que escribió. Última escritura gana.
type Envelope struct {
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
	Source    string          `json:"source"`
}

// Event — aviso de que otra instancia escribió una clave.
type Event struct {
	Key     string
	Payload []byte
}

// Store — almacén compartido de snapshots con canal de avisos. Las
// implementaciones no garantizan entrega de avisos; el poller del
// Broadcaster cubre lo que se pierda.
type Store interface {
	// Get devuelve el payload crudo de la clave, o nil si no existe.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set persiste el payload y avisa al resto de instancias.
	Set(ctx context.Context, key string, payload []byte) error
	// Watch entrega avisos de escritura hasta que se cancele el contexto.
	Watch(ctx context.Context) (<-chan Event, error)
}
