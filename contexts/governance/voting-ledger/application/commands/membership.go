package commands

import (
	"context"
	"log/slog"
	"strings"

	application "tally/contexts/governance/voting-ledger/application"
	"tally/contexts/governance/voting-ledger/domain/entities"
	domainerrors "tally/contexts/governance/voting-ledger/domain/errors"
	"tally/contexts/governance/voting-ledger/domain/services"
	"tally/contexts/governance/voting-ledger/ports"
)

// MembershipUseCase owns the admin-gated voter registry lifecycle. Removing a
// voter never touches the reputation ledger: a historical score entry stays
// in place, orphaned, until the account is registered again.
type MembershipUseCase struct {
	Admin    entities.Admin
	Registry ports.RegistryRepository
	Outbox   ports.OutboxWriter
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

// AddVoter registers a new eligible account. Only the admin may call it, and
// the admin account itself is never eligible.
func (uc MembershipUseCase) AddVoter(ctx context.Context, callerID string, voterID string) error {
	logger := application.ResolveLogger(uc.Logger)
	voterID = strings.TrimSpace(voterID)
	if voterID == "" {
		return domainerrors.ErrInvalidInput
	}
	if err := services.RequireAdmin(uc.Admin, callerID); err != nil {
		logger.Warn("add voter rejected",
			"event", "ledger_add_voter_rejected",
			"module", "governance/voting-ledger",
			"layer", "application",
			"caller_id", strings.TrimSpace(callerID),
			"voter_id", voterID,
		)
		return err
	}
	if voterID == uc.Admin.Address {
		return domainerrors.ErrAdminNotEligible
	}

	registered, err := uc.Registry.Contains(ctx, voterID)
	if err != nil {
		return err
	}
	if registered {
		return domainerrors.ErrVoterExists
	}
	if err := uc.Registry.AddVoter(ctx, voterID); err != nil {
		return err
	}
	if err := uc.appendMembershipEvent(ctx, "voter.added", voterID); err != nil {
		return err
	}

	logger.Info("voter added",
		"event", "ledger_voter_added",
		"module", "governance/voting-ledger",
		"layer", "application",
		"voter_id", voterID,
	)
	return nil
}

// RemoveVoter deletes a membership entry. The ledger entry, if any, is left
// untouched.
func (uc MembershipUseCase) RemoveVoter(ctx context.Context, callerID string, voterID string) error {
	logger := application.ResolveLogger(uc.Logger)
	voterID = strings.TrimSpace(voterID)
	if voterID == "" {
		return domainerrors.ErrInvalidInput
	}
	if err := services.RequireAdmin(uc.Admin, callerID); err != nil {
		logger.Warn("remove voter rejected",
			"event", "ledger_remove_voter_rejected",
			"module", "governance/voting-ledger",
			"layer", "application",
			"caller_id", strings.TrimSpace(callerID),
			"voter_id", voterID,
		)
		return err
	}
	if voterID == uc.Admin.Address {
		return domainerrors.ErrAdminNotEligible
	}

	registered, err := uc.Registry.Contains(ctx, voterID)
	if err != nil {
		return err
	}
	if err := services.RequireRegistered(registered, domainerrors.ErrVoterNotFound); err != nil {
		return err
	}
	if err := uc.Registry.RemoveVoter(ctx, voterID); err != nil {
		return err
	}
	if err := uc.appendMembershipEvent(ctx, "voter.removed", voterID); err != nil {
		return err
	}

	logger.Info("voter removed",
		"event", "ledger_voter_removed",
		"module", "governance/voting-ledger",
		"layer", "application",
		"voter_id", voterID,
	)
	return nil
}

func (uc MembershipUseCase) appendMembershipEvent(ctx context.Context, eventType string, voterID string) error {
	// Outbox is optional for pure read/test wiring, so nil is treated as no-op.
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	envelope, err := newLedgerEnvelope(eventID, eventType, voterID, uc.Clock.Now(), map[string]any{
		"voter_id": voterID,
	})
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, envelope)
}
