package instrumentation

import (
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	// Clear anything the environment may carry into the test.
	for _, key := range []string{
		"OTEL_SERVICE_NAME", "INSTRUMENTATION_ENABLED", "METRICS_EXPORTER",
		"TRACING_EXPORTER", "OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_TRACES_SAMPLER_ARG",
		"METRICS_DETAILED_LABELS", "AUDIT_LOGGING_ENABLED", "AUDIT_LOGGING_INCLUDE_PII",
	} {
		t.Setenv(key, "")
	}

	config := DefaultConfig()

	if config.ServiceName != "workspace-mcp" {
		t.Errorf("ServiceName = %q", config.ServiceName)
	}
	if !config.Enabled {
		t.Error("instrumentation should default to enabled")
	}
	if config.MetricsExporter != ExporterPrometheus {
		t.Errorf("MetricsExporter = %q, want prometheus", config.MetricsExporter)
	}
	if config.TracingExporter != ExporterNone {
		t.Errorf("TracingExporter = %q, want none", config.TracingExporter)
	}
	if config.TraceSamplingRate != 0.1 {
		t.Errorf("TraceSamplingRate = %f, want 0.1", config.TraceSamplingRate)
	}
	if config.DetailedLabels {
		t.Error("detailed labels should default to off")
	}
	if !config.AuditLogging.Enabled || config.AuditLogging.IncludePII {
		t.Errorf("AuditLogging = %+v, want enabled without PII", config.AuditLogging)
	}
}

func TestDefaultConfigFromEnv(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "workspace-mcp-staging")
	t.Setenv("INSTRUMENTATION_ENABLED", "false")
	t.Setenv("TRACING_EXPORTER", "otlp")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4318")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.5")
	t.Setenv("AUDIT_LOGGING_INCLUDE_PII", "true")
	t.Setenv("METRICS_DETAILED_LABELS", "not-a-bool")

	config := DefaultConfig()

	if config.ServiceName != "workspace-mcp-staging" {
		t.Errorf("ServiceName = %q", config.ServiceName)
	}
	if config.Enabled {
		t.Error("INSTRUMENTATION_ENABLED=false should disable")
	}
	if config.TracingExporter != ExporterOTLP {
		t.Errorf("TracingExporter = %q", config.TracingExporter)
	}
	if config.OTLPEndpoint != "collector:4318" {
		t.Errorf("OTLPEndpoint = %q", config.OTLPEndpoint)
	}
	if config.TraceSamplingRate != 0.5 {
		t.Errorf("TraceSamplingRate = %f", config.TraceSamplingRate)
	}
	if !config.AuditLogging.IncludePII {
		t.Error("AUDIT_LOGGING_INCLUDE_PII=true should be honored")
	}
	if config.DetailedLabels {
		t.Error("unparseable bool should fall back to the default")
	}
}

func TestConfigValidate(t *testing.T) {
	valid := Config{
		MetricsExporter:   ExporterPrometheus,
		TracingExporter:   ExporterNone,
		TraceSamplingRate: 0.1,
	}

	tests := []struct {
		name        string
		mutate      func(c *Config)
		errContains string
	}{
		{"valid", func(*Config) {}, ""},
		{"empty exporters pass", func(c *Config) { c.MetricsExporter = ""; c.TracingExporter = "" }, ""},
		{"sampling rate too high", func(c *Config) { c.TraceSamplingRate = 1.5 }, "sampling rate"},
		{"sampling rate negative", func(c *Config) { c.TraceSamplingRate = -0.1 }, "sampling rate"},
		{"unknown metrics exporter", func(c *Config) { c.MetricsExporter = "statsd" }, "invalid metrics exporter"},
		{"unknown tracing exporter", func(c *Config) { c.TracingExporter = "jaeger" }, "invalid tracing exporter"},
		{"otlp metrics without endpoint", func(c *Config) { c.MetricsExporter = ExporterOTLP }, "OTLP endpoint is required"},
		{"otlp tracing without endpoint", func(c *Config) { c.TracingExporter = ExporterOTLP }, "OTLP endpoint is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid
			tt.mutate(&config)

			err := config.Validate()
			if tt.errContains == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.errContains)
			}
		})
	}
}
