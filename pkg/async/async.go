package async

import (
	"context"
	"errors"
	"time"
)

// Future holds the eventual result of a function started with Run.
type Future[T any] struct {
	value T
	err   error
	done  chan struct{}
}

// Run starts fn on its own goroutine and returns a Future for its result.
// If ctx is already canceled the function is never called and the future
// resolves to the context's error.
func Run[T any](ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}

	go func() {
		defer close(f.done)
		if err := ctx.Err(); err != nil {
			f.err = err
			return
		}
		f.value, f.err = fn(ctx)
	}()

	return f
}

// Resolved returns an already-completed future carrying v. Useful when a
// caller expects a Future but the value is known synchronously.
func Resolved[T any](v T) *Future[T] {
	f := &Future[T]{value: v, done: make(chan struct{})}
	close(f.done)
	return f
}

// Await blocks until the future resolves and returns its value and error.
// Await may be called any number of times; every call returns the same pair.
func (f *Future[T]) Await() (T, error) {
	<-f.done
	return f.value, f.err
}

// AwaitTimeout blocks until the future resolves or d elapses. On timeout it
// returns ErrTimeout; the underlying function keeps running and a later Await
// still yields its result.
func (f *Future[T]) AwaitTimeout(d time.Duration) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-time.After(d):
		var zero T
		return zero, ErrTimeout
	}
}

// Done reports whether the future has resolved, without blocking.
func (f *Future[T]) Done() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// All awaits every future and returns their values in argument order. If any
// futures failed, their errors are joined into the returned error and the
// corresponding slots hold the zero value.
func All[T any](futures ...*Future[T]) ([]T, error) {
	values := make([]T, len(futures))
	var errs []error
	for i, f := range futures {
		v, err := f.Await()
		values[i] = v
		if err != nil {
			errs = append(errs, err)
		}
	}
	return values, errors.Join(errs...)
}
