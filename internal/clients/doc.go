// Package clients builds and caches Google API service clients.
//
// A client is cached per (user, service, version, scope set) and
// reused until its TTL passes, so repeated tool calls do not pay the
// construction cost on every request. Entries expire lazily on lookup
// and a background sweeper reclaims the rest. Invalidation is explicit:
// the auth middleware evicts a user's clients when Google rejects
// their token.
package clients
