package ports

import (
	"context"
	"encoding/json"
	"time"
)

// RegistryRepository backs the set of accounts eligible to vote and be voted
// on. Membership is a pure presence check with no payload.
type RegistryRepository interface {
	AddVoter(ctx context.Context, voterID string) error
	RemoveVoter(ctx context.Context, voterID string) error
	Contains(ctx context.Context, voterID string) (bool, error)
	ListVoters(ctx context.Context) ([]string, error)
}

// LedgerRepository holds per-account signed scores plus the running total of
// weight ever applied. Apply is the only mutator; precondition enforcement is
// entirely the caller's responsibility. Apply commits the score delta and the
// total-weight delta as one unit and returns the new running total.
type LedgerRepository interface {
	ScoreOf(ctx context.Context, accountID string) (int64, error)
	TotalWeight(ctx context.Context) (int64, error)
	Apply(ctx context.Context, targetID string, delta int64, totalDelta int64) (int64, error)
}

// CredentialMinter is the narrow two-operation contract of the external
// credential token collaborator. MintTo is not idempotent: repeated calls
// mint repeated tokens.
type CredentialMinter interface {
	MintTo(ctx context.Context, accountID string) error
	BalanceOf(ctx context.Context, accountID string) (int, error)
	TokensOf(ctx context.Context, accountID string) ([]uint64, error)
}

// EventEnvelope is the canonical event shape written to the outbox.
type EventEnvelope struct {
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

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

// OutboxWriter persists an event alongside the state change that produced it.
type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

// OutboxRepository is consumed by the relay worker.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

// EventPublisher delivers envelopes to the event bus.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
