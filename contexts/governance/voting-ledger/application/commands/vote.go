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

// CastVoteCommand is the write-model input for a single vote.
type CastVoteCommand struct {
	CallerID string
	TargetID string
	Polarity entities.Polarity
}

// CastVoteResult reports the applied weighting so the transport layer can
// echo it back to the voter.
type CastVoteResult struct {
	TargetID   string
	Polarity   entities.Polarity
	Power      int64
	Delta      int64
	TotalVotes int64
}

// VoteUseCase orchestrates a single vote: registry validation, power tiering,
// credential mint, ledger commit, and event emission.
//
// The ledger write is two-phase with respect to the minting collaborator: the
// score delta and the total-weight delta are computed first, the mint is
// attempted, and the deltas are committed only after the mint succeeds. A
// mint failure therefore leaves the ledger exactly as it was.
type VoteUseCase struct {
	Admin    entities.Admin
	Registry ports.RegistryRepository
	Ledger   ports.LedgerRepository
	Minter   ports.CredentialMinter
	Outbox   ports.OutboxWriter
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

// CastVote applies one vote from the caller to the target account and mints a
// participation credential to the caller.
func (uc VoteUseCase) CastVote(ctx context.Context, cmd CastVoteCommand) (CastVoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	callerID := strings.TrimSpace(cmd.CallerID)
	targetID := strings.TrimSpace(cmd.TargetID)
	if callerID == "" || targetID == "" {
		return CastVoteResult{}, domainerrors.ErrInvalidInput
	}
	if cmd.Polarity != entities.PolarityLike && cmd.Polarity != entities.PolarityUnlike {
		return CastVoteResult{}, domainerrors.ErrInvalidInput
	}

	callerRegistered, err := uc.Registry.Contains(ctx, callerID)
	if err != nil {
		return CastVoteResult{}, err
	}
	if err := services.RequireRegistered(callerRegistered, domainerrors.ErrNotVoter); err != nil {
		logger.Warn("vote rejected, caller not registered",
			"event", "ledger_vote_caller_rejected",
			"module", "governance/voting-ledger",
			"layer", "application",
			"caller_id", callerID,
		)
		return CastVoteResult{}, err
	}
	targetRegistered, err := uc.Registry.Contains(ctx, targetID)
	if err != nil {
		return CastVoteResult{}, err
	}
	if err := services.RequireRegistered(targetRegistered, domainerrors.ErrVoterNotFound); err != nil {
		return CastVoteResult{}, err
	}
	if err := services.RequireOther(callerID, targetID); err != nil {
		return CastVoteResult{}, err
	}

	callerScore, err := uc.Ledger.ScoreOf(ctx, callerID)
	if err != nil {
		return CastVoteResult{}, err
	}
	total, err := uc.Ledger.TotalWeight(ctx)
	if err != nil {
		return CastVoteResult{}, err
	}
	power := services.PowerOf(callerScore, total)

	delta := power
	if cmd.Polarity == entities.PolarityUnlike {
		delta = -power
	}
	// Zero-power votes still bump the denominator by one. The asymmetry is
	// deliberate: it keeps the total moving and records the vote as activity
	// even when it carries no weight.
	totalDelta := power
	if power == 0 {
		totalDelta = 1
	}

	// Stage-then-commit: the mint happens before the ledger write so a
	// collaborator failure cannot strand a half-applied vote.
	if err := uc.Minter.MintTo(ctx, callerID); err != nil {
		logger.Error("credential mint failed, vote discarded",
			"event", "ledger_vote_mint_failed",
			"module", "governance/voting-ledger",
			"layer", "application",
			"caller_id", callerID,
			"target_id", targetID,
			"error", err.Error(),
		)
		return CastVoteResult{}, domainerrors.ErrCredentialMintFailed
	}

	newTotal, err := uc.Ledger.Apply(ctx, targetID, delta, totalDelta)
	if err != nil {
		return CastVoteResult{}, err
	}

	if err := uc.appendVoteEvent(ctx, entities.VoteCast{
		VoterID:    targetID,
		TotalVotes: newTotal,
		Polarity:   cmd.Polarity,
	}); err != nil {
		return CastVoteResult{}, err
	}

	logger.Info("vote cast",
		"event", "ledger_vote_cast",
		"module", "governance/voting-ledger",
		"layer", "application",
		"caller_id", callerID,
		"target_id", targetID,
		"polarity", string(cmd.Polarity),
		"power", power,
		"total_votes", newTotal,
	)
	return CastVoteResult{
		TargetID:   targetID,
		Polarity:   cmd.Polarity,
		Power:      power,
		Delta:      delta,
		TotalVotes: newTotal,
	}, nil
}

func (uc VoteUseCase) appendVoteEvent(ctx context.Context, vote entities.VoteCast) error {
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	envelope, err := newLedgerEnvelope(eventID, "vote.cast", vote.VoterID, uc.Clock.Now(), map[string]any{
		"voter_id":    vote.VoterID,
		"total_votes": vote.TotalVotes,
		"vote_type":   string(vote.Polarity),
	})
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, envelope)
}
