// Package instrumentation wires OpenTelemetry metrics, tracing, and
// audit logging for the workspace-mcp server.
//
// Provider owns the exporter setup. Metrics go to Prometheus by
// default (scraped from a dedicated listener), or to an OTLP collector
// or stdout. Tracing is off by default and can export over OTLP with
// head sampling.
//
// Exported metrics:
//
//   - http_requests_total, http_request_duration_seconds: requests on
//     the MCP endpoint
//   - active_sessions: live bearer token bindings
//   - google_api_operations_total, google_api_operation_duration_seconds:
//     Google API calls by service, operation, and status
//   - oauth_auth_total, oauth_token_refresh_total: authorization and
//     refresh outcomes
//   - client_cache_events_total: service client cache hits, misses,
//     and evictions
//   - mcp_tool_invocations_total, mcp_tool_duration_seconds: tool
//     calls by name and status
//
// Tool calls additionally get a tool.<name> span and a ToolInvocation
// audit record. Account identities are anonymized everywhere except
// audit records explicitly configured with IncludePII.
//
// Configuration comes from DefaultConfig, which reads
// INSTRUMENTATION_ENABLED, METRICS_EXPORTER, TRACING_EXPORTER,
// OTEL_EXPORTER_OTLP_ENDPOINT, OTEL_TRACES_SAMPLER_ARG, and related
// environment variables.
package instrumentation
