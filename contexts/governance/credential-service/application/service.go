package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	domainerrors "tally/contexts/governance/credential-service/domain/errors"
	"tally/contexts/governance/credential-service/ports"
)

// Service implements the two-operation credential token contract consumed by
// the voting ledger, plus a serial listing used by the read surface.
type Service struct {
	Repo   ports.TokenRepository
	Clock  ports.Clock
	Logger *slog.Logger
}

// MintTo issues one fresh credential to the account. Repeated calls mint
// repeated tokens; callers wanting idempotency must build it on top.
func (s Service) MintTo(ctx context.Context, accountID string) error {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return domainerrors.ErrInvalidInput
	}
	serial, err := s.Repo.NextSerial(ctx)
	if err != nil {
		return err
	}
	token := ports.Token{
		Serial:   serial,
		OwnerID:  accountID,
		IssuedAt: s.now(),
	}
	if err := s.Repo.SaveToken(ctx, token); err != nil {
		return err
	}
	resolveLogger(s.Logger).Info("credential minted",
		"event", "credential_minted",
		"module", "governance/credential-service",
		"layer", "application",
		"owner_id", accountID,
		"serial", serial,
	)
	return nil
}

// BalanceOf returns the count of credentials held by the account.
func (s Service) BalanceOf(ctx context.Context, accountID string) (int, error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return 0, domainerrors.ErrInvalidInput
	}
	return s.Repo.CountByOwner(ctx, accountID)
}

// TokensOf lists the serial numbers held by the account, oldest first.
func (s Service) TokensOf(ctx context.Context, accountID string) ([]uint64, error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return nil, domainerrors.ErrInvalidInput
	}
	tokens, err := s.Repo.ListByOwner(ctx, accountID)
	if err != nil {
		return nil, err
	}
	serials := make([]uint64, 0, len(tokens))
	for _, token := range tokens {
		serials = append(serials, token.Serial)
	}
	return serials, nil
}

func (s Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
