package translation

import (
	"context"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"codeberg.org/snonux/vjtalk/internal/breaker"
)

// BreakerBackend fails fast once its backend keeps failing.
type BreakerBackend struct {
	next Backend
	cb   *gobreaker.CircuitBreaker
}

// WithBreaker wraps b in a circuit breaker named after the backend. A missing
// credential is reported on every call and never opens the breaker.
func WithBreaker(b Backend, logger *zap.SugaredLogger) *BreakerBackend {
	return &BreakerBackend{
		next: b,
		cb:   breaker.New("translate-"+b.Name(), logger, ErrMissingAPIKey),
	}
}

// Name returns the wrapped backend's name.
func (b *BreakerBackend) Name() string { return b.next.Name() }

// Complete calls the wrapped backend through the breaker.
func (b *BreakerBackend) Complete(ctx context.Context, system, user string) (string, error) {
	return breaker.Do(b.cb, func() (string, error) {
		return b.next.Complete(ctx, system, user)
	})
}
