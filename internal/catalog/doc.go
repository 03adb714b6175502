// Package catalog defines the static tool catalog for the workspace-mcp
// server: OAuth scope constants for every supported Google service, the
// tool descriptors with their tier and scope requirements, and the gate
// that resolves which tools and scopes are active for a given startup
// configuration.
//
// Everything in this package is pure data and pure functions. The registry
// is built once at startup and treated as immutable; the gate performs no
// I/O.
package catalog
