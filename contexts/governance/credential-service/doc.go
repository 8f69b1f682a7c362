// Package credentialservice issues the non-fungible participation credentials
// minted to voters by the governance voting ledger.
//
// Tokens carry a monotonically increasing serial number starting from a
// configurable base. Minting is deliberately not idempotent: every successful
// mint produces a fresh serial.
package credentialservice
