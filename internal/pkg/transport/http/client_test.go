package http

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewClient(t *testing.T) {
	t.Run("uses default configuration when no options are provided", func(t *testing.T) {
		client := NewClient()

		assert.NotNil(t, client)
		assert.Equal(t, 5*time.Second, client.HTTPClient.Timeout)
		assert.Equal(t, 1*time.Second, client.RetryWaitMin)
		assert.Equal(t, 5*time.Second, client.RetryWaitMax)
		assert.Equal(t, 2, client.RetryMax)
	})

	t.Run("applies provided options correctly", func(t *testing.T) {
		client := NewClient(
			WithTimeout(10*time.Second),
			WithRetryWaitMin(200*time.Millisecond),
			WithRetryWaitMax(10*time.Second),
			WithRetryMax(5),
		)

		assert.Equal(t, 10*time.Second, client.HTTPClient.Timeout)
		assert.Equal(t, 200*time.Millisecond, client.RetryWaitMin)
		assert.Equal(t, 10*time.Second, client.RetryWaitMax)
		assert.Equal(t, 5, client.RetryMax)
	})

	t.Run("disables the default retryablehttp logger", func(t *testing.T) {
		client := NewClient()
		assert.Nil(t, client.Logger)
	})
}
