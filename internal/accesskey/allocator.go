// Package accesskey hands out the 4-digit numeric keys restaurant owners use to
// reach their dashboard.
//
// The allocator is advisory: it only checks that a key is free at the time of
// the draw. Two concurrent allocations can pick the same key; the unique index
// on restaurants.accessKey rejects the losing insert, and the caller allocates
// again.
package accesskey

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"

	"github.com/rs/zerolog/log"
)

const DefaultAttempts = 10

var ErrExhausted = errors.New("could not find an unused access key")

var keyPattern = regexp.MustCompile(`^\d{4}$`)

// Valid reports whether key is exactly four decimal digits.
func Valid(key string) bool {
	return keyPattern.MatchString(key)
}

// Checker answers whether a key is already held by a restaurant.
type Checker interface {
	AccessKeyExists(ctx context.Context, key string) (bool, error)
}

type CheckerFunc func(ctx context.Context, key string) (bool, error)

func (f CheckerFunc) AccessKeyExists(ctx context.Context, key string) (bool, error) {
	return f(ctx, key)
}

type Allocator struct {
	checker  Checker
	attempts int
	intn     func(n int) int
}

type Option func(*Allocator)

// WithRand draws keys from r instead of the process-wide source.
func WithRand(r *rand.Rand) Option {
	return func(a *Allocator) {
		a.intn = r.IntN
	}
}

func New(checker Checker, attempts int, opts ...Option) *Allocator {
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	a := &Allocator{
		checker:  checker,
		attempts: attempts,
		intn:     rand.IntN,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Allocator) Attempts() int {
	return a.attempts
}

// Allocate returns a key that was unused when it was drawn. It does not
// reserve the key.
func (a *Allocator) Allocate(ctx context.Context) (string, error) {
	for attempt := 1; attempt <= a.attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		key := fmt.Sprintf("%04d", a.intn(10000))
		taken, err := a.checker.AccessKeyExists(ctx, key)
		if err != nil {
			return "", fmt.Errorf("check access key: %w", err)
		}
		if !taken {
			return key, nil
		}
		log.Debug().Str("component", "accesskey").Int("attempt", attempt).Msg("access key collision")
	}

	log.Warn().Str("component", "accesskey").Int("attempts", a.attempts).Msg("access key allocation exhausted")
	return "", ErrExhausted
}
