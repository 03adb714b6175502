package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/teemow/workspace-mcp/internal/instrumentation"
)

func metricsTestProvider(t *testing.T, enabled bool) *instrumentation.Provider {
	t.Helper()
	ctx := context.Background()
	provider, err := instrumentation.NewProvider(ctx, instrumentation.Config{
		ServiceName:     "workspace-mcp-test",
		ServiceVersion:  "0.0.0",
		Enabled:         enabled,
		MetricsExporter: "prometheus",
		TracingExporter: "none",
	})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	t.Cleanup(func() { _ = provider.Shutdown(ctx) })
	return provider
}

func TestNewMetricsServer(t *testing.T) {
	provider := metricsTestProvider(t, true)

	srv, err := NewMetricsServer(":9191", provider)
	if err != nil {
		t.Fatalf("NewMetricsServer() error = %v", err)
	}
	if srv.Addr() != ":9191" {
		t.Errorf("Addr() = %q, want %q", srv.Addr(), ":9191")
	}

	srv, err = NewMetricsServer("", provider)
	if err != nil {
		t.Fatalf("NewMetricsServer() with empty addr error = %v", err)
	}
	if srv.Addr() != DefaultMetricsAddr {
		t.Errorf("Addr() = %q, want default %q", srv.Addr(), DefaultMetricsAddr)
	}
}

func TestNewMetricsServerRequiresEnabledProvider(t *testing.T) {
	if _, err := NewMetricsServer(":9090", nil); err == nil {
		t.Error("expected error for nil provider")
	}
	if _, err := NewMetricsServer(":9090", metricsTestProvider(t, false)); err == nil {
		t.Error("expected error for disabled provider")
	}
}

func TestMetricsServerStartAndShutdown(t *testing.T) {
	srv, err := NewMetricsServer("localhost:0", metricsTestProvider(t, true))
	if err != nil {
		t.Fatalf("NewMetricsServer() error = %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
		close(serverErr)
	}()

	time.Sleep(100 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}

	select {
	case err := <-serverErr:
		if err != nil {
			t.Errorf("Start() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("server did not stop after Shutdown")
	}
}

func TestMetricsServerShutdownBeforeStart(t *testing.T) {
	srv, err := NewMetricsServer(":9090", metricsTestProvider(t, true))
	if err != nil {
		t.Fatalf("NewMetricsServer() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() before Start() error = %v", err)
	}
}
