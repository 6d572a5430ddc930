// Package workerpool wraps ants pools behind a small interface the wallet
// service uses to dispatch prompt notifications off the caller's goroutine.
package workerpool

import (
	"context"
)

// WorkerPool defines the common methods for worker pool operations.
// This allows the Service to hold either a single ants.Pool or an ants.MultiPool.
type WorkerPool interface {
	Submit(ctx context.Context, task func()) error
	Shutdown()
}
