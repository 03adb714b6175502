// Package credentials persists Google OAuth credentials per user
// account across memory, file, and Valkey backends.
//
// All backends share the same contract: lookups for unknown users
// return ErrNotFound, and records that cannot be decoded (corrupted
// files, tampered ciphertext) are treated as missing rather than
// failing the request, so the caller falls back to re-authentication.
//
// When constructed with an encryption key, the file and Valkey
// backends seal each record with AES-256-GCM before it leaves memory.
package credentials
