package services

import (
	"errors"
	"testing"

	"tally/contexts/governance/voting-ledger/domain/entities"
	domainerrors "tally/contexts/governance/voting-ledger/domain/errors"
)

func TestRequireAdmin(t *testing.T) {
	admin := entities.Admin{Address: "admin-1"}

	if err := RequireAdmin(admin, "admin-1"); err != nil {
		t.Fatalf("expected admin caller to pass, got %v", err)
	}
	if err := RequireAdmin(admin, "  admin-1  "); err != nil {
		t.Fatalf("expected padded admin caller to pass, got %v", err)
	}
	if err := RequireAdmin(admin, "voter-1"); !errors.Is(err, domainerrors.ErrNotAdmin) {
		t.Fatalf("expected ErrNotAdmin, got %v", err)
	}
	if err := RequireAdmin(admin, ""); !errors.Is(err, domainerrors.ErrNotAdmin) {
		t.Fatalf("expected ErrNotAdmin for blank caller, got %v", err)
	}
}

func TestRequireSelf(t *testing.T) {
	if err := RequireSelf("voter-1", "voter-1"); err != nil {
		t.Fatalf("expected self read to pass, got %v", err)
	}
	if err := RequireSelf("voter-1", "voter-2"); !errors.Is(err, domainerrors.ErrMustBeSelf) {
		t.Fatalf("expected ErrMustBeSelf, got %v", err)
	}
}

func TestRequireOther(t *testing.T) {
	if err := RequireOther("voter-1", "voter-2"); err != nil {
		t.Fatalf("expected distinct accounts to pass, got %v", err)
	}
	if err := RequireOther("voter-1", "voter-1"); !errors.Is(err, domainerrors.ErrSelfVoteForbidden) {
		t.Fatalf("expected ErrSelfVoteForbidden, got %v", err)
	}
}

func TestRequireRegistered(t *testing.T) {
	if err := RequireRegistered(true, domainerrors.ErrNotVoter); err != nil {
		t.Fatalf("expected registered account to pass, got %v", err)
	}
	if err := RequireRegistered(false, domainerrors.ErrVoterNotFound); !errors.Is(err, domainerrors.ErrVoterNotFound) {
		t.Fatalf("expected the supplied missing-account error, got %v", err)
	}
}
