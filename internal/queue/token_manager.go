package queue

import (
	"context"
	"errors"
)

// TokenManager bounds how many creation jobs may be admitted at once.
// A token is acquired when a job is accepted and released once its
// materialization finishes, whatever the outcome.
type TokenManager interface {
	AcquireToken(ctx context.Context) error

	ReleaseToken(ctx context.Context) error

	InitializeTokens(ctx context.Context, count int) error
}

var ErrNoTokenAvailable = errors.New("no queue token available")
