package host

import (
	"context"
	"errors"
	"sync"
)

// AsyncStatus is the status a host callback reports.
type AsyncStatus int

const (
	StatusSucceeded AsyncStatus = iota
	StatusFailed
)

// AsyncResult is what a host callback delivers.
type AsyncResult[T any] struct {
	Status AsyncStatus
	Value  T
	Err    error
}

// Succeeded wraps a successful value.
func Succeeded[T any](v T) AsyncResult[T] {
	return AsyncResult[T]{Status: StatusSucceeded, Value: v}
}

// Failed wraps a failure.
func Failed[T any](err error) AsyncResult[T] {
	return AsyncResult[T]{Status: StatusFailed, Err: err}
}

// FromPair turns a (value, error) return into an AsyncResult.
func FromPair[T any](v T, err error) AsyncResult[T] {
	if err != nil {
		return Failed[T](err)
	}
	return Succeeded(v)
}

// errFailedNoDetail stands in when a host reports failure without a cause.
var errFailedNoDetail = errors.New("operation failed")

// Await starts a callback-style host operation and blocks until the
// callback fires or ctx is done. A failed status becomes an *OpError
// unless the cause is ErrNoMessage, which is returned as is. Only the
// first callback invocation counts.
func Await[T any](
	ctx context.Context,
	op string,
	start func(done func(AsyncResult[T])),
) (T, error) {
	ch := make(chan AsyncResult[T], 1)
	var once sync.Once

	start(func(r AsyncResult[T]) {
		once.Do(func() { ch <- r })
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, &OpError{Op: op, Err: ctx.Err()}
	case r := <-ch:
		if r.Status == StatusSucceeded {
			return r.Value, nil
		}
		if r.Err == nil {
			r.Err = errFailedNoDetail
		}
		if errors.Is(r.Err, ErrNoMessage) {
			return zero, r.Err
		}
		return zero, &OpError{Op: op, Err: r.Err}
	}
}

// Go runs a blocking call on its own goroutine and awaits it with ctx.
// It is the common way adapters turn library calls that ignore context
// into awaitable ones.
func Go[T any](ctx context.Context, op string, call func() (T, error)) (T, error) {
	return Await(ctx, op, func(done func(AsyncResult[T])) {
		go func() { done(FromPair(call())) }()
	})
}
