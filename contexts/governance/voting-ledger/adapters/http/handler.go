package httpadapter

import (
	"context"
	"log/slog"

	"tally/contexts/governance/voting-ledger/application/commands"
	"tally/contexts/governance/voting-ledger/application/queries"
	"tally/contexts/governance/voting-ledger/domain/entities"
	httptransport "tally/contexts/governance/voting-ledger/transport/http"
)

// Handler maps transport DTOs onto the application use cases. Caller identity
// always arrives as an explicit argument extracted by the server layer.
type Handler struct {
	Membership commands.MembershipUseCase
	Votes      commands.VoteUseCase
	Reputation queries.ReputationUseCase
	Registry   queries.RegistryUseCase
	Logger     *slog.Logger
}

func (h Handler) AddVoterHandler(ctx context.Context, callerID string, req httptransport.AddVoterRequest) error {
	return h.Membership.AddVoter(ctx, callerID, req.VoterID)
}

func (h Handler) RemoveVoterHandler(ctx context.Context, callerID string, voterID string) error {
	return h.Membership.RemoveVoter(ctx, callerID, voterID)
}

func (h Handler) ListVotersHandler(ctx context.Context, callerID string) (httptransport.VoterListResponse, error) {
	voters, err := h.Registry.ListVoters(ctx, callerID)
	if err != nil {
		return httptransport.VoterListResponse{}, err
	}
	return httptransport.VoterListResponse{Voters: voters}, nil
}

func (h Handler) CastVoteHandler(
	ctx context.Context,
	callerID string,
	req httptransport.CastVoteRequest,
) (httptransport.CastVoteResponse, error) {
	result, err := h.Votes.CastVote(ctx, commands.CastVoteCommand{
		CallerID: callerID,
		TargetID: req.VoterID,
		Polarity: entities.Polarity(req.VoteType),
	})
	if err != nil {
		return httptransport.CastVoteResponse{}, err
	}
	return httptransport.CastVoteResponse{
		VoterID:    result.TargetID,
		VoteType:   string(result.Polarity),
		Power:      result.Power,
		Delta:      result.Delta,
		TotalVotes: result.TotalVotes,
	}, nil
}

func (h Handler) ReputationHandler(ctx context.Context, callerID string, accountID string) (httptransport.ReputationResponse, error) {
	score, err := h.Reputation.ReputationOf(ctx, callerID, accountID)
	if err != nil {
		return httptransport.ReputationResponse{}, err
	}
	return httptransport.ReputationResponse{
		AccountID:  accountID,
		Reputation: score,
	}, nil
}

func (h Handler) BalanceHandler(ctx context.Context, callerID string, accountID string) (httptransport.BalanceResponse, error) {
	balance, err := h.Reputation.BalanceOf(ctx, callerID, accountID)
	if err != nil {
		return httptransport.BalanceResponse{}, err
	}
	return httptransport.BalanceResponse{
		AccountID: accountID,
		Balance:   balance,
	}, nil
}

func (h Handler) CredentialsHandler(ctx context.Context, callerID string, accountID string) (httptransport.CredentialsResponse, error) {
	serials, err := h.Reputation.CredentialsOf(ctx, callerID, accountID)
	if err != nil {
		return httptransport.CredentialsResponse{}, err
	}
	return httptransport.CredentialsResponse{
		AccountID: accountID,
		Serials:   serials,
	}, nil
}
