package services

import (
	"strings"

	"tally/contexts/governance/voting-ledger/domain/entities"
	domainerrors "tally/contexts/governance/voting-ledger/domain/errors"
)

// Access rules are pure functions of their inputs. Registry membership is
// passed in as a fact so the guard itself never touches storage.

// RequireAdmin enforces the admin-only rule.
func RequireAdmin(admin entities.Admin, callerID string) error {
	if strings.TrimSpace(callerID) != admin.Address {
		return domainerrors.ErrNotAdmin
	}
	return nil
}

// RequireSelf enforces the self-only rule used by the reputation and balance
// reads.
func RequireSelf(callerID string, subjectID string) error {
	if strings.TrimSpace(callerID) != strings.TrimSpace(subjectID) {
		return domainerrors.ErrMustBeSelf
	}
	return nil
}

// RequireOther rejects a caller acting on itself.
func RequireOther(callerID string, targetID string) error {
	if strings.TrimSpace(callerID) == strings.TrimSpace(targetID) {
		return domainerrors.ErrSelfVoteForbidden
	}
	return nil
}

// RequireRegistered maps a membership fact to the named error the operation
// reports for a missing account.
func RequireRegistered(registered bool, onMissing error) error {
	if !registered {
		return onMissing
	}
	return nil
}
