package ctxutil

import (
	"context"
	"time"
)

// claves privadas para evitar colisiones
type key int

const (
	keyOperator key = iota
	keyOpName
)

// WithOperator — nombre del usuario que ejecuta la acción (para logs y auditoría).
func WithOperator(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, keyOperator, name)
}

func Operator(ctx context.Context) (string, bool) {
	v := ctx.Value(keyOperator)
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// WithOp — nombre de la operación (para logs/trazas).
func WithOp(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, keyOpName, name)
}

func Op(ctx context.Context) (string, bool) {
	v := ctx.Value(keyOpName)
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

var DefaultDBTimeout = 5 * time.Second

func WithTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, d)
}

// WithDBTimeout — timeout estándar para la BD; respeta el deadline del padre
// si queda menos que el timeout por defecto.
func WithDBTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if dl, ok := parent.Deadline(); ok {
		remain := time.Until(dl)
		if remain < DefaultDBTimeout {
			return context.WithTimeout(parent, remain)
		}
	}
	return context.WithTimeout(parent, DefaultDBTimeout)
}
