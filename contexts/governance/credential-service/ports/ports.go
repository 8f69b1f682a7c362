package ports

import (
	"context"
	"time"
)

// Token is one issued credential. Serials are unique across the whole
// service, not per owner.
type Token struct {
	Serial   uint64
	OwnerID  string
	IssuedAt time.Time
}

// TokenRepository persists issued credentials. NextSerial must hand out each
// serial exactly once, in increasing order, starting from the configured
// base.
type TokenRepository interface {
	NextSerial(ctx context.Context) (uint64, error)
	SaveToken(ctx context.Context, token Token) error
	CountByOwner(ctx context.Context, ownerID string) (int, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Token, error)
}

type Clock interface {
	Now() time.Time
}
