package v1

import (
	"encoding/json"
	"time"
)

// Envelope is the canonical, versioned event envelope for cross-runtime use.
// This package is generated-contract-only and must stay backward compatible.
type Envelope struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	OccurredAt       time.Time       `json:"occurred_at"`
	SourceService    string          `json:"source_service"`
	TraceID          string          `json:"trace_id"`
	SchemaVersion    int             `json:"schema_version"`
	PartitionKeyPath string          `json:"partition_key_path"`
	PartitionKey     string          `json:"partition_key"`
	Data             json.RawMessage `json:"data"`
}

// VoterAddedData is the data payload of voter.added.
type VoterAddedData struct {
	VoterID string `json:"voter_id"`
}

// VoterRemovedData is the data payload of voter.removed.
type VoterRemovedData struct {
	VoterID string `json:"voter_id"`
}

// VoteCastData is the data payload of vote.cast. VoterID is the account the
// vote landed on, not the caster.
type VoteCastData struct {
	VoterID    string `json:"voter_id"`
	TotalVotes int64  `json:"total_votes"`
	VoteType   string `json:"vote_type"`
}
