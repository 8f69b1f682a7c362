package unit

import (
	"context"
	"errors"
	"testing"

	credentialservice "tally/contexts/governance/credential-service"
	votingledger "tally/contexts/governance/voting-ledger"
	domainerrors "tally/contexts/governance/voting-ledger/domain/errors"
	httptransport "tally/contexts/governance/voting-ledger/transport/http"
)

const adminID = "admin-ledger-1"

func newLedgerModule(t *testing.T) votingledger.Module {
	t.Helper()
	credentials := credentialservice.NewInMemoryModule(1, nil)
	return votingledger.NewInMemoryModule(adminID, credentials.Service, nil)
}

func mustAddVoter(t *testing.T, module votingledger.Module, voterID string) {
	t.Helper()
	err := module.Handler.AddVoterHandler(context.Background(), adminID, httptransport.AddVoterRequest{VoterID: voterID})
	if err != nil {
		t.Fatalf("add voter %s failed: %v", voterID, err)
	}
}

func mustCastVote(t *testing.T, module votingledger.Module, callerID, targetID, voteType string) httptransport.CastVoteResponse {
	t.Helper()
	resp, err := module.Handler.CastVoteHandler(context.Background(), callerID, httptransport.CastVoteRequest{
		VoterID:  targetID,
		VoteType: voteType,
	})
	if err != nil {
		t.Fatalf("vote %s -> %s (%s) failed: %v", callerID, targetID, voteType, err)
	}
	return resp
}

func TestMutualLikesGrowScoresAndTotal(t *testing.T) {
	module := newLedgerModule(t)
	mustAddVoter(t, module, "voter-1")
	mustAddVoter(t, module, "voter-2")
	ctx := context.Background()

	first := mustCastVote(t, module, "voter-1", "voter-2", "like")
	if first.Power != 1 || first.TotalVotes != 1 {
		t.Fatalf("first vote: expected power 1 total 1, got power %d total %d", first.Power, first.TotalVotes)
	}

	// voter-2 now has score 1 against total 1, ratio 100: top tier.
	second := mustCastVote(t, module, "voter-2", "voter-1", "like")
	if second.Power != 3 {
		t.Fatalf("second vote: expected power 3 at full ratio, got %d", second.Power)
	}
	if second.TotalVotes != 4 {
		t.Fatalf("second vote: expected total 4, got %d", second.TotalVotes)
	}

	score, err := module.Handler.ReputationHandler(ctx, "voter-1", "voter-1")
	if err != nil {
		t.Fatalf("reputation read failed: %v", err)
	}
	if score.Reputation != 3 {
		t.Fatalf("expected voter-1 score 3, got %d", score.Reputation)
	}
}

func TestUnlikeDragsScoreNegative(t *testing.T) {
	module := newLedgerModule(t)
	mustAddVoter(t, module, "voter-1")
	mustAddVoter(t, module, "voter-2")

	resp := mustCastVote(t, module, "voter-1", "voter-2", "unlike")
	if resp.Delta != -1 {
		t.Fatalf("expected delta -1, got %d", resp.Delta)
	}

	score, err := module.Handler.ReputationHandler(context.Background(), "voter-2", "voter-2")
	if err != nil {
		t.Fatalf("reputation read failed: %v", err)
	}
	if score.Reputation != -1 {
		t.Fatalf("expected score -1, got %d", score.Reputation)
	}
}

func TestWeightlessVoteStillMovesTotal(t *testing.T) {
	module := newLedgerModule(t)
	mustAddVoter(t, module, "voter-1")
	mustAddVoter(t, module, "voter-2")
	module.Store.SetScore("voter-1", -80)
	module.Store.SetTotalWeight(100)

	resp := mustCastVote(t, module, "voter-1", "voter-2", "like")
	if resp.Power != 0 {
		t.Fatalf("expected power 0 for a deeply negative caller, got %d", resp.Power)
	}
	if resp.TotalVotes != 101 {
		t.Fatalf("expected total to advance to 101, got %d", resp.TotalVotes)
	}

	score, err := module.Handler.ReputationHandler(context.Background(), "voter-2", "voter-2")
	if err != nil {
		t.Fatalf("reputation read failed: %v", err)
	}
	if score.Reputation != 0 {
		t.Fatalf("expected target score untouched, got %d", score.Reputation)
	}
}

func TestEveryVoteMintsACredentialToTheCaller(t *testing.T) {
	module := newLedgerModule(t)
	mustAddVoter(t, module, "voter-1")
	mustAddVoter(t, module, "voter-2")
	ctx := context.Background()

	mustCastVote(t, module, "voter-1", "voter-2", "like")
	mustCastVote(t, module, "voter-1", "voter-2", "unlike")
	mustCastVote(t, module, "voter-2", "voter-1", "like")

	balance, err := module.Handler.BalanceHandler(ctx, "voter-1", "voter-1")
	if err != nil {
		t.Fatalf("balance read failed: %v", err)
	}
	if balance.Balance != 2 {
		t.Fatalf("expected voter-1 to hold 2 credentials, got %d", balance.Balance)
	}

	credentials, err := module.Handler.CredentialsHandler(ctx, "voter-2", "voter-2")
	if err != nil {
		t.Fatalf("credentials read failed: %v", err)
	}
	if len(credentials.Serials) != 1 || credentials.Serials[0] != 3 {
		t.Fatalf("expected voter-2 to hold serial 3, got %v", credentials.Serials)
	}
}

func TestAdminIsNeverARegistryMember(t *testing.T) {
	module := newLedgerModule(t)
	ctx := context.Background()

	err := module.Handler.AddVoterHandler(ctx, adminID, httptransport.AddVoterRequest{VoterID: adminID})
	if !errors.Is(err, domainerrors.ErrAdminNotEligible) {
		t.Fatalf("expected ErrAdminNotEligible, got %v", err)
	}

	mustAddVoter(t, module, "voter-1")
	_, err = module.Handler.CastVoteHandler(ctx, adminID, httptransport.CastVoteRequest{
		VoterID:  "voter-1",
		VoteType: "like",
	})
	if !errors.Is(err, domainerrors.ErrNotVoter) {
		t.Fatalf("expected the admin to be unable to vote, got %v", err)
	}
}

func TestRemovedVoterKeepsOrphanedScore(t *testing.T) {
	module := newLedgerModule(t)
	mustAddVoter(t, module, "voter-1")
	mustAddVoter(t, module, "voter-2")
	ctx := context.Background()

	mustCastVote(t, module, "voter-1", "voter-2", "like")

	if err := module.Handler.RemoveVoterHandler(ctx, adminID, "voter-2"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}

	// Removed accounts cannot read anything.
	if _, err := module.Handler.ReputationHandler(ctx, "voter-2", "voter-2"); !errors.Is(err, domainerrors.ErrNotVoter) {
		t.Fatalf("expected removed voter to be refused, got %v", err)
	}

	// Re-registering restores access to the untouched historical score.
	mustAddVoter(t, module, "voter-2")
	score, err := module.Handler.ReputationHandler(ctx, "voter-2", "voter-2")
	if err != nil {
		t.Fatalf("reputation read after re-register failed: %v", err)
	}
	if score.Reputation != 1 {
		t.Fatalf("expected restored score 1, got %d", score.Reputation)
	}
}

func TestListVotersReflectsMembershipChanges(t *testing.T) {
	module := newLedgerModule(t)
	mustAddVoter(t, module, "voter-2")
	mustAddVoter(t, module, "voter-1")
	ctx := context.Background()

	resp, err := module.Handler.ListVotersHandler(ctx, adminID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(resp.Voters) != 2 || resp.Voters[0] != "voter-1" || resp.Voters[1] != "voter-2" {
		t.Fatalf("expected sorted [voter-1 voter-2], got %v", resp.Voters)
	}

	if err := module.Handler.RemoveVoterHandler(ctx, adminID, "voter-1"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	resp, err = module.Handler.ListVotersHandler(ctx, adminID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(resp.Voters) != 1 || resp.Voters[0] != "voter-2" {
		t.Fatalf("expected [voter-2], got %v", resp.Voters)
	}
}

func TestVoteAgainstSelfAndRemovedAccounts(t *testing.T) {
	module := newLedgerModule(t)
	mustAddVoter(t, module, "voter-1")
	mustAddVoter(t, module, "voter-2")
	ctx := context.Background()

	if _, err := module.Handler.CastVoteHandler(ctx, "voter-1", httptransport.CastVoteRequest{
		VoterID:  "voter-1",
		VoteType: "like",
	}); !errors.Is(err, domainerrors.ErrSelfVoteForbidden) {
		t.Fatalf("expected ErrSelfVoteForbidden, got %v", err)
	}

	if err := module.Handler.RemoveVoterHandler(ctx, adminID, "voter-2"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if _, err := module.Handler.CastVoteHandler(ctx, "voter-1", httptransport.CastVoteRequest{
		VoterID:  "voter-2",
		VoteType: "like",
	}); !errors.Is(err, domainerrors.ErrVoterNotFound) {
		t.Fatalf("expected ErrVoterNotFound for a removed target, got %v", err)
	}
}
