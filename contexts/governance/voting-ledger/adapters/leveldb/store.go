package leveldbadapter

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	domainerrors "tally/contexts/governance/voting-ledger/domain/errors"
	"tally/contexts/governance/voting-ledger/ports"
	"tally/internal/platform/kv"

	"github.com/google/uuid"
	"github.com/syndtr/goleveldb/leveldb"
)

const (
	voterPrefix  = "voter:"
	scorePrefix  = "score:"
	totalKey     = "ledger:total"
	outboxPrefix = "outbox:"
)

// Store persists the registry and ledger in an embedded LevelDB. A single
// mutex serializes read-modify-write cycles; the engine's execution model is
// one call to completion at a time, so the lock is held for the whole
// operation rather than per key.
type Store struct {
	mu sync.Mutex
	db *kv.LevelDB
}

func NewStore(db *kv.LevelDB) *Store {
	return &Store{db: db}
}

func (s *Store) AddVoter(_ context.Context, voterID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Put([]byte(voterPrefix+strings.TrimSpace(voterID)), []byte{1})
}

func (s *Store) RemoveVoter(_ context.Context, voterID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Delete([]byte(voterPrefix + strings.TrimSpace(voterID)))
}

func (s *Store) Contains(_ context.Context, voterID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Has([]byte(voterPrefix + strings.TrimSpace(voterID)))
}

func (s *Store) ListVoters(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	iter := s.db.NewPrefixIterator([]byte(voterPrefix))
	defer iter.Release()

	items := make([]string, 0)
	for iter.Next() {
		items = append(items, strings.TrimPrefix(string(iter.Key()), voterPrefix))
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}
	sort.Strings(items)
	return items, nil
}

func (s *Store) ScoreOf(_ context.Context, accountID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readInt64(scorePrefix + strings.TrimSpace(accountID))
}

func (s *Store) TotalWeight(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readInt64(totalKey)
}

func (s *Store) Apply(_ context.Context, targetID string, delta int64, totalDelta int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	scoreKey := scorePrefix + strings.TrimSpace(targetID)
	score, err := s.readInt64(scoreKey)
	if err != nil {
		return 0, err
	}
	total, err := s.readInt64(totalKey)
	if err != nil {
		return 0, err
	}

	if err := s.writeInt64(scoreKey, score+delta); err != nil {
		return 0, err
	}
	newTotal := total + totalDelta
	if err := s.writeInt64(totalKey, newTotal); err != nil {
		return 0, err
	}
	return newTotal, nil
}

type outboxRow struct {
	OutboxID     string    `json:"outbox_id"`
	EventType    string    `json:"event_type"`
	PartitionKey string    `json:"partition_key"`
	Payload      []byte    `json:"payload"`
	CreatedAt    time.Time `json:"created_at"`
	Published    bool      `json:"published"`
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
	createdAt := envelope.OccurredAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	row := outboxRow{
		OutboxID:     outboxID,
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		CreatedAt:    createdAt,
	}
	raw, err := json.Marshal(row)
	if err != nil {
		return err
	}
	return s.db.Put([]byte(outboxPrefix+outboxID), raw)
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 100
	}

	iter := s.db.NewPrefixIterator([]byte(outboxPrefix))
	defer iter.Release()

	items := make([]ports.OutboxMessage, 0)
	for iter.Next() {
		var row outboxRow
		if err := json.Unmarshal(iter.Value(), &row); err != nil {
			return nil, err
		}
		if row.Published {
			continue
		}
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      row.Payload,
			CreatedAt:    row.CreatedAt,
		})
	}
	if err := iter.Error(); err != nil {
		return nil, err
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

	key := []byte(outboxPrefix + strings.TrimSpace(outboxID))
	raw, err := s.db.Get(key)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return domainerrors.ErrInvalidInput
		}
		return err
	}
	var row outboxRow
	if err := json.Unmarshal(raw, &row); err != nil {
		return err
	}
	row.Published = true
	updated, err := json.Marshal(row)
	if err != nil {
		return err
	}
	return s.db.Put(key, updated)
}

func (s *Store) readInt64(key string) (int64, error) {
	raw, err := s.db.Get([]byte(key))
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return strconv.ParseInt(string(raw), 10, 64)
}

func (s *Store) writeInt64(key string, value int64) error {
	return s.db.Put([]byte(key), []byte(strconv.FormatInt(value, 10)))
}

var _ ports.RegistryRepository = (*Store)(nil)
var _ ports.LedgerRepository = (*Store)(nil)
var _ ports.OutboxWriter = (*Store)(nil)
var _ ports.OutboxRepository = (*Store)(nil)
