package queries

import (
	"context"

	"tally/contexts/governance/voting-ledger/domain/entities"
	"tally/contexts/governance/voting-ledger/domain/services"
	"tally/contexts/governance/voting-ledger/ports"
)

// RegistryUseCase serves the admin's view of the voter set.
type RegistryUseCase struct {
	Admin    entities.Admin
	Registry ports.RegistryRepository
}

// ListVoters returns every registered voter ID. Admin-only.
func (uc RegistryUseCase) ListVoters(ctx context.Context, callerID string) ([]string, error) {
	if err := services.RequireAdmin(uc.Admin, callerID); err != nil {
		return nil, err
	}
	return uc.Registry.ListVoters(ctx)
}
