package instrumentation

import "github.com/teemow/workspace-mcp/internal/logging"

// Metric label values must stay low-cardinality: per-user labels would
// grow the series count with every authorized account. User identity is
// therefore reduced to its domain before it reaches a label, and full
// emails only ever appear on metrics as domains.

// ExtractUserDomain reduces an email address to its domain for use as a
// metric label. Addresses that do not parse collapse into "unknown".
func ExtractUserDomain(email string) string {
	if domain := logging.ExtractDomain(email); domain != "" {
		return domain
	}
	return "unknown"
}

// Operation names shared by tool metrics and audit events. Status,
// OAuth, and Service constants are defined in config.go.
const (
	OperationList   = "list"
	OperationGet    = "get"
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
	OperationSend   = "send"
	OperationSearch = "search"
)
