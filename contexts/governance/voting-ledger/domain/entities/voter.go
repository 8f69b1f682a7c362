package entities

import "time"

// Polarity is the direction of a cast vote.
type Polarity string

const (
	PolarityLike   Polarity = "like"
	PolarityUnlike Polarity = "unlike"
)

// Admin is the single privileged account. It is stamped once at module
// construction and never transferred.
type Admin struct {
	Address    string
	ModifiedAt time.Time
}

// VoteCast is the audit artifact emitted after a successful vote. It is an
// event payload, not queryable state.
type VoteCast struct {
	VoterID    string
	TotalVotes int64
	Polarity   Polarity
}

// LedgerEntry pairs an account with its signed accumulated score. Absence of
// an entry reads as score 0.
type LedgerEntry struct {
	AccountID string
	Score     int64
}
