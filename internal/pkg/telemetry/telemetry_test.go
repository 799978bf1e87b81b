package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
)

func TestNewResource(t *testing.T) {
	t.Run("carries the service name attribute", func(t *testing.T) {
		res, err := newResource("shieldwatch-test")
		require.NoError(t, err)
		require.NotNil(t, res)

		found := false
		for _, attr := range res.Attributes() {
			if attr.Key == semconv.ServiceNameKey {
				assert.Equal(t, "shieldwatch-test", attr.Value.AsString())
				found = true
			}
		}
		assert.True(t, found, "resource is missing the service name attribute")
	})

	t.Run("accepts an empty service name", func(t *testing.T) {
		res, err := newResource("")
		require.NoError(t, err)
		assert.NotNil(t, res)
	})
}

func TestLoggerProvider(t *testing.T) {
	t.Run("nil before Init", func(t *testing.T) {
		prev := loggerProvider
		defer func() { loggerProvider = prev }()

		loggerProvider = nil
		assert.Nil(t, LoggerProvider())
	})

	t.Run("returns the provider set by Init", func(t *testing.T) {
		prev := loggerProvider
		defer func() { loggerProvider = prev }()

		lp := sdklog.NewLoggerProvider()
		loggerProvider = lp
		assert.Equal(t, lp, LoggerProvider())
	})
}

func TestInit(t *testing.T) {
	originalMeterProvider := otel.GetMeterProvider()
	originalTracerProvider := otel.GetTracerProvider()
	defer func() {
		otel.SetMeterProvider(originalMeterProvider)
		otel.SetTracerProvider(originalTracerProvider)
	}()

	// Exporter construction does not dial eagerly, so Init succeeds even
	// without a collector; the shutdown flush is where delivery fails.
	t.Run("initializes all providers and returns a shutdown", func(t *testing.T) {
		shutdown, err := Init(t.Context(), "shieldwatch-test")
		if err != nil {
			t.Logf("Init failed without a collector: %v", err)
			return
		}

		require.NotNil(t, shutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		if err := shutdown(shutdownCtx); err != nil {
			t.Logf("shutdown flush failed without a collector: %v", err)
		}
	})
}

func TestShutdownFunc(t *testing.T) {
	// Mirrors the closure Init builds, with in-memory providers.
	newShutdown := func() (ShutdownFunc, *sdklog.LoggerProvider) {
		lp := sdklog.NewLoggerProvider()
		mp := sdkmetric.NewMeterProvider()
		tp := sdktrace.NewTracerProvider()

		return func(ctx context.Context) error {
			for _, shutdown := range []func(context.Context) error{lp.Shutdown, mp.Shutdown, tp.Shutdown} {
				if err := shutdown(ctx); err != nil {
					return err
				}
			}
			return nil
		}, lp
	}

	t.Run("flushes cleanly", func(t *testing.T) {
		shutdown, _ := newShutdown()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		assert.NoError(t, shutdown(ctx))
	})

	t.Run("tolerates an already-canceled context", func(t *testing.T) {
		shutdown, _ := newShutdown()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if err := shutdown(ctx); err != nil {
			t.Logf("shutdown with canceled context: %v", err)
		}
	})
}
