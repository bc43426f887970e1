package realtime

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const notifyChannel = "retiros:sync"

// RedisStore — store compartido entre instancias del servidor: snapshots en
// claves normales y avisos por pub/sub. Redis no garantiza la entrega de
// mensajes pub/sub a suscriptores caídos; de eso se encarga el poller.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	p, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, payload []byte) error {
	if err := r.client.Set(ctx, key, payload, 0).Err(); err != nil {
		return err
	}
	return r.client.Publish(ctx, notifyChannel, key).Err()
}

func (r *RedisStore) Watch(ctx context.Context) (<-chan Event, error) {
	sub := r.client.Subscribe(ctx, notifyChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}

	out := make(chan Event, 16)
	go func() {
		defer close(out)
		defer func() { _ = sub.Close() }()
		in := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-in:
				if !ok {
					return
				}
				payload, err := r.Get(ctx, msg.Payload)
				if err != nil || payload == nil {
					continue
				}
				select {
				case out <- Event{Key: msg.Payload, Payload: payload}:
				default:
				}
			}
		}
	}()
	return out, nil
}
