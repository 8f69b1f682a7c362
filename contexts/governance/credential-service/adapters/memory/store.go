package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"tally/contexts/governance/credential-service/ports"
)

// Store keeps issued tokens in memory. Serial numbering is monotonic from the
// configured base.
type Store struct {
	mu sync.Mutex

	next   uint64
	tokens []ports.Token
}

func NewStore(baseSerial uint64) *Store {
	return &Store{next: baseSerial}
}

func (s *Store) NextSerial(_ context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	serial := s.next
	s.next++
	return serial, nil
}

func (s *Store) SaveToken(_ context.Context, token ports.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	token.OwnerID = strings.TrimSpace(token.OwnerID)
	s.tokens = append(s.tokens, token)
	return nil
}

func (s *Store) CountByOwner(_ context.Context, ownerID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, token := range s.tokens {
		if token.OwnerID == strings.TrimSpace(ownerID) {
			count++
		}
	}
	return count, nil
}

func (s *Store) ListByOwner(_ context.Context, ownerID string) ([]ports.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]ports.Token, 0)
	for _, token := range s.tokens {
		if token.OwnerID == strings.TrimSpace(ownerID) {
			items = append(items, token)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Serial < items[j].Serial
	})
	return items, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

var _ ports.TokenRepository = (*Store)(nil)
