package instrumentation

import (
	"context"
	"testing"
	"time"
)

func providerConfig(metricsExporter, tracingExporter string) Config {
	return Config{
		ServiceName:     "workspace-mcp-test",
		ServiceVersion:  "0.0.0",
		Enabled:         true,
		MetricsExporter: metricsExporter,
		TracingExporter: tracingExporter,
	}
}

func TestNewProviderDisabled(t *testing.T) {
	provider, err := NewProvider(context.Background(), Config{Enabled: false})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}

	if provider.Enabled() {
		t.Error("provider should be disabled")
	}
	if provider.Metrics() == nil {
		t.Error("disabled provider must still hand out a metrics recorder")
	}
	if provider.Tracer("test") == nil {
		t.Error("disabled provider must still hand out a tracer")
	}
	if err := provider.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNewProviderExporterSelection(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		wantErr     bool
		wantPromHdl bool
	}{
		{
			name:        "prometheus metrics",
			config:      providerConfig("prometheus", "none"),
			wantPromHdl: true,
		},
		{
			name:   "stdout metrics and traces",
			config: providerConfig("stdout", "stdout"),
		},
		{
			name:    "unknown metrics exporter",
			config:  providerConfig("invalid", "none"),
			wantErr: true,
		},
		{
			name:    "unknown tracing exporter",
			config:  providerConfig("prometheus", "invalid"),
			wantErr: true,
		},
		{
			name:    "otlp tracing without endpoint",
			config:  providerConfig("prometheus", "otlp"),
			wantErr: true,
		},
		{
			name:    "otlp metrics without endpoint",
			config:  providerConfig("otlp", "none"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			provider, err := NewProvider(ctx, tt.config)
			if tt.wantErr {
				if err == nil {
					_ = provider.Shutdown(ctx)
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewProvider() error = %v", err)
			}
			defer func() { _ = provider.Shutdown(ctx) }()

			if !provider.Enabled() {
				t.Error("provider should be enabled")
			}
			if provider.Metrics() == nil {
				t.Error("expected a metrics recorder")
			}
			if got := provider.PrometheusHandler() != nil; got != tt.wantPromHdl {
				t.Errorf("PrometheusHandler() present = %v, want %v", got, tt.wantPromHdl)
			}
		})
	}
}

func TestProviderShutdownFlushes(t *testing.T) {
	ctx := context.Background()
	provider, err := NewProvider(ctx, providerConfig("prometheus", "none"))
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}

	if err := provider.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}
