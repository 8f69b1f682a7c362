// Package votingledger implements the reputation-weighted voting ledger
// inside the governance context.
//
// The module owns the voter registry, the per-account reputation ledger, the
// vote-power tier policy, and the cast-vote orchestration that coordinates a
// ledger mutation with the external credential-minting collaborator. It keeps
// business rules in application/domain layers and isolates infrastructure
// concerns behind ports and adapters.
package votingledger
