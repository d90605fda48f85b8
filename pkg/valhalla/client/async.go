package client

import (
	"context"

	"github.com/breatheroute/valhalla/pkg/valhalla/elevation"
	"github.com/breatheroute/valhalla/pkg/valhalla/matrix"
	"github.com/breatheroute/valhalla/pkg/valhalla/route"
	"github.com/breatheroute/valhalla/pkg/valhalla/status"
)

// Future holds the result of a call running on its own goroutine.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Go runs fn on a new goroutine and returns a Future for its result.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.value, f.err = fn(ctx)
	}()
	return f
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the result is available or ctx is done. Abandoning a wait
// does not cancel the call; cancel the context the call was started with for that.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Async exposes the Client operations as futures.
type Async struct {
	client *Client
}

// NewAsync wraps c.
func NewAsync(c *Client) *Async {
	return &Async{client: c}
}

// Route runs Client.Route on its own goroutine.
func (a *Async) Route(ctx context.Context, m route.Manifest) *Future[*route.Response] {
	return Go(ctx, func(ctx context.Context) (*route.Response, error) {
		return a.client.Route(ctx, m)
	})
}

// Matrix runs Client.Matrix on its own goroutine.
func (a *Async) Matrix(ctx context.Context, m matrix.Manifest) *Future[*matrix.Response] {
	return Go(ctx, func(ctx context.Context) (*matrix.Response, error) {
		return a.client.Matrix(ctx, m)
	})
}

// Elevation runs Client.Elevation on its own goroutine.
func (a *Async) Elevation(ctx context.Context, m elevation.Manifest) *Future[*elevation.Response] {
	return Go(ctx, func(ctx context.Context) (*elevation.Response, error) {
		return a.client.Elevation(ctx, m)
	})
}

// Status runs Client.Status on its own goroutine.
func (a *Async) Status(ctx context.Context, m status.Manifest) *Future[*status.Response] {
	return Go(ctx, func(ctx context.Context) (*status.Response, error) {
		return a.client.Status(ctx, m)
	})
}
