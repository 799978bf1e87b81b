// Package chflow wraps channel operations in context-aware helpers so that
// blocking sends and receives honor cancellation and deadlines.
package chflow

import "context"

// Receive blocks until a value arrives on ch or ctx is canceled. The boolean
// is false when the context ended first or the channel was closed; the value
// is T's zero value on cancellation.
func Receive[T any](ctx context.Context, ch <-chan T) (T, bool) {
	var zero T
	select {
	case <-ctx.Done():
		return zero, false
	case v, ok := <-ch:
		return v, ok
	}
}

// Send blocks until v is accepted by ch or ctx is canceled, reporting whether
// the send happened.
func Send[T any](ctx context.Context, ch chan<- T, v T) bool {
	select {
	case <-ctx.Done():
		return false
	case ch <- v:
		return true
	}
}
