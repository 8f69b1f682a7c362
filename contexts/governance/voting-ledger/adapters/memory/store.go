package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	domainerrors "tally/contexts/governance/voting-ledger/domain/errors"
	"tally/contexts/governance/voting-ledger/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

// Store is the in-memory aggregate behind the registry and ledger ports. A
// single lock serializes every operation, matching the one-call-at-a-time
// execution model of the engine.
type Store struct {
	mu sync.RWMutex

	voters map[string]struct{}
	scores map[string]int64
	total  int64
	outbox map[string]outboxRecord
}

func NewStore() *Store {
	return &Store{
		voters: make(map[string]struct{}),
		scores: make(map[string]int64),
		outbox: make(map[string]outboxRecord),
	}
}

// SetScore seeds a ledger entry directly. Test wiring only.
func (s *Store) SetScore(accountID string, score int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores[strings.TrimSpace(accountID)] = score
}

// SetTotalWeight seeds the running total directly. Test wiring only.
func (s *Store) SetTotalWeight(total int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.total = total
}

func (s *Store) AddVoter(_ context.Context, voterID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.voters[strings.TrimSpace(voterID)] = struct{}{}
	return nil
}

func (s *Store) RemoveVoter(_ context.Context, voterID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.voters, strings.TrimSpace(voterID))
	return nil
}

func (s *Store) Contains(_ context.Context, voterID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.voters[strings.TrimSpace(voterID)]
	return ok, nil
}

func (s *Store) ListVoters(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]string, 0, len(s.voters))
	for voterID := range s.voters {
		items = append(items, voterID)
	}
	sort.Strings(items)
	return items, nil
}

func (s *Store) ScoreOf(_ context.Context, accountID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scores[strings.TrimSpace(accountID)], nil
}

func (s *Store) TotalWeight(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total, nil
}

func (s *Store) Apply(_ context.Context, targetID string, delta int64, totalDelta int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores[strings.TrimSpace(targetID)] += delta
	s.total += totalDelta
	return s.total, nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		outboxID = uuid.NewString()
	}
	if existing, ok := s.outbox[outboxID]; ok {
		if !bytes.Equal(existing.message.Payload, payload) {
			return domainerrors.ErrInvalidInput
		}
		return nil
	}
	createdAt := envelope.OccurredAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	s.outbox[outboxID] = outboxRecord{
		message: ports.OutboxMessage{
			OutboxID:     outboxID,
			EventType:    strings.TrimSpace(envelope.EventType),
			PartitionKey: strings.TrimSpace(envelope.PartitionKey),
			Payload:      payload,
			CreatedAt:    createdAt,
		},
	}
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0, len(s.outbox))
	for _, row := range s.outbox {
		if row.published {
			continue
		}
		items = append(items, row.message)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrInvalidInput
	}
	row.published = true
	s.outbox[strings.TrimSpace(outboxID)] = row
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

var _ ports.RegistryRepository = (*Store)(nil)
var _ ports.LedgerRepository = (*Store)(nil)
var _ ports.OutboxWriter = (*Store)(nil)
var _ ports.OutboxRepository = (*Store)(nil)
