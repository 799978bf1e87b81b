package chflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReceive(t *testing.T) {
	t.Run("successful receive", func(t *testing.T) {
		ch := make(chan int, 1)
		ch <- 42

		value, ok := Receive(t.Context(), ch)

		assert.True(t, ok)
		assert.Equal(t, 42, value)
	})

	t.Run("context canceled before receive", func(t *testing.T) {
		ch := make(chan int)
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		value, ok := Receive(ctx, ch)

		assert.False(t, ok)
		assert.Equal(t, 0, value)
	})

	t.Run("channel closed", func(t *testing.T) {
		ch := make(chan string)
		close(ch)

		value, ok := Receive(t.Context(), ch)

		assert.False(t, ok)
		assert.Equal(t, "", value)
	})
}

func TestSend(t *testing.T) {
	t.Run("successful send", func(t *testing.T) {
		ch := make(chan int, 1)

		ok := Send(t.Context(), ch, 7)

		assert.True(t, ok)
		assert.Equal(t, 7, <-ch)
	})

	t.Run("context canceled before send", func(t *testing.T) {
		ch := make(chan int) // unbuffered, no receiver
		ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
		defer cancel()

		ok := Send(ctx, ch, 7)

		assert.False(t, ok)
	})
}
