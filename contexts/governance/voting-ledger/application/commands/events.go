package commands

import (
	"encoding/json"
	"time"

	"tally/contexts/governance/voting-ledger/ports"
)

func newLedgerEnvelope(
	eventID string,
	eventType string,
	accountID string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	// Command-side events are partitioned by account for stable ordering on
	// account-scoped consumers.
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "voting-ledger",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "voter_id",
		PartitionKey:     accountID,
		Data:             payload,
	}, nil
}
