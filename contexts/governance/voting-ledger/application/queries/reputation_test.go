package queries

import (
	"context"
	"errors"
	"testing"

	"tally/contexts/governance/voting-ledger/adapters/memory"
	"tally/contexts/governance/voting-ledger/domain/entities"
	domainerrors "tally/contexts/governance/voting-ledger/domain/errors"
)

type stubMinter struct {
	balances map[string]int
	tokens   map[string][]uint64
}

func (m stubMinter) MintTo(_ context.Context, _ string) error { return nil }

func (m stubMinter) BalanceOf(_ context.Context, accountID string) (int, error) {
	return m.balances[accountID], nil
}

func (m stubMinter) TokensOf(_ context.Context, accountID string) ([]uint64, error) {
	return m.tokens[accountID], nil
}

func TestReputationOfIsSelfOnly(t *testing.T) {
	store := memory.NewStore()
	if err := store.AddVoter(context.Background(), "voter-1"); err != nil {
		t.Fatalf("seed voter: %v", err)
	}
	store.SetScore("voter-1", 12)
	uc := ReputationUseCase{Registry: store, Ledger: store, Minter: stubMinter{}}

	if _, err := uc.ReputationOf(context.Background(), "voter-2", "voter-1"); !errors.Is(err, domainerrors.ErrMustBeSelf) {
		t.Fatalf("expected ErrMustBeSelf, got %v", err)
	}
	if _, err := uc.ReputationOf(context.Background(), "admin-1", "voter-1"); !errors.Is(err, domainerrors.ErrMustBeSelf) {
		t.Fatalf("expected admin to be refused too, got %v", err)
	}

	score, err := uc.ReputationOf(context.Background(), "voter-1", "voter-1")
	if err != nil {
		t.Fatalf("self read failed: %v", err)
	}
	if score != 12 {
		t.Fatalf("expected score 12, got %d", score)
	}
}

func TestReputationOfRequiresMembership(t *testing.T) {
	store := memory.NewStore()
	uc := ReputationUseCase{Registry: store, Ledger: store, Minter: stubMinter{}}

	if _, err := uc.ReputationOf(context.Background(), "stranger", "stranger"); !errors.Is(err, domainerrors.ErrNotVoter) {
		t.Fatalf("expected ErrNotVoter, got %v", err)
	}
	if _, err := uc.ReputationOf(context.Background(), "x", ""); !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank subject, got %v", err)
	}
}

func TestBalanceAndCredentialsDelegateToMinter(t *testing.T) {
	store := memory.NewStore()
	if err := store.AddVoter(context.Background(), "voter-1"); err != nil {
		t.Fatalf("seed voter: %v", err)
	}
	minter := stubMinter{
		balances: map[string]int{"voter-1": 3},
		tokens:   map[string][]uint64{"voter-1": {100, 101, 102}},
	}
	uc := ReputationUseCase{Registry: store, Ledger: store, Minter: minter}

	balance, err := uc.BalanceOf(context.Background(), "voter-1", "voter-1")
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}
	if balance != 3 {
		t.Fatalf("expected balance 3, got %d", balance)
	}

	serials, err := uc.CredentialsOf(context.Background(), "voter-1", "voter-1")
	if err != nil {
		t.Fatalf("credentials failed: %v", err)
	}
	if len(serials) != 3 || serials[0] != 100 {
		t.Fatalf("unexpected serials %v", serials)
	}
}

func TestListVotersIsAdminOnly(t *testing.T) {
	store := memory.NewStore()
	for _, id := range []string{"voter-1", "voter-2"} {
		if err := store.AddVoter(context.Background(), id); err != nil {
			t.Fatalf("seed voter: %v", err)
		}
	}
	uc := RegistryUseCase{Admin: entities.Admin{Address: "admin-1"}, Registry: store}

	if _, err := uc.ListVoters(context.Background(), "voter-1"); !errors.Is(err, domainerrors.ErrNotAdmin) {
		t.Fatalf("expected ErrNotAdmin, got %v", err)
	}

	voters, err := uc.ListVoters(context.Background(), "admin-1")
	if err != nil {
		t.Fatalf("admin list failed: %v", err)
	}
	if len(voters) != 2 {
		t.Fatalf("expected 2 voters, got %v", voters)
	}
}
