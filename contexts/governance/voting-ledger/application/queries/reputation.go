package queries

import (
	"context"
	"strings"

	domainerrors "tally/contexts/governance/voting-ledger/domain/errors"
	"tally/contexts/governance/voting-ledger/domain/services"
	"tally/contexts/governance/voting-ledger/ports"
)

// ReputationUseCase serves the self-only account reads. Every operation takes
// the caller identity explicitly; there is no ambient caller context.
type ReputationUseCase struct {
	Registry ports.RegistryRepository
	Ledger   ports.LedgerRepository
	Minter   ports.CredentialMinter
}

// ReputationOf returns the subject's accumulated score. Only the subject
// itself may read it; even the admin is refused.
func (uc ReputationUseCase) ReputationOf(ctx context.Context, callerID string, subjectID string) (int64, error) {
	if err := uc.requireSelfMember(ctx, callerID, subjectID); err != nil {
		return 0, err
	}
	return uc.Ledger.ScoreOf(ctx, strings.TrimSpace(subjectID))
}

// BalanceOf returns the subject's credential token count, delegated to the
// token collaborator. Same access rules as ReputationOf.
func (uc ReputationUseCase) BalanceOf(ctx context.Context, callerID string, subjectID string) (int, error) {
	if err := uc.requireSelfMember(ctx, callerID, subjectID); err != nil {
		return 0, err
	}
	return uc.Minter.BalanceOf(ctx, strings.TrimSpace(subjectID))
}

// CredentialsOf lists the subject's credential serial numbers.
func (uc ReputationUseCase) CredentialsOf(ctx context.Context, callerID string, subjectID string) ([]uint64, error) {
	if err := uc.requireSelfMember(ctx, callerID, subjectID); err != nil {
		return nil, err
	}
	return uc.Minter.TokensOf(ctx, strings.TrimSpace(subjectID))
}

func (uc ReputationUseCase) requireSelfMember(ctx context.Context, callerID string, subjectID string) error {
	if strings.TrimSpace(subjectID) == "" {
		return domainerrors.ErrInvalidInput
	}
	if err := services.RequireSelf(callerID, subjectID); err != nil {
		return err
	}
	registered, err := uc.Registry.Contains(ctx, strings.TrimSpace(subjectID))
	if err != nil {
		return err
	}
	return services.RequireRegistered(registered, domainerrors.ErrNotVoter)
}
