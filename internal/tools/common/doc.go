// Package common holds the shared plumbing for tool handlers: account
// resolution, the authentication middleware that turns a tool's
// service requirements into ready API clients, result helpers, and
// instrumentation wrappers.
package common
