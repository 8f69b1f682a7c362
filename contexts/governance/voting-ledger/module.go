package votingledger

import (
	"log/slog"
	"time"

	httpadapter "tally/contexts/governance/voting-ledger/adapters/http"
	"tally/contexts/governance/voting-ledger/adapters/memory"
	"tally/contexts/governance/voting-ledger/application/commands"
	"tally/contexts/governance/voting-ledger/application/queries"
	"tally/contexts/governance/voting-ledger/domain/entities"
	"tally/contexts/governance/voting-ledger/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Admin   entities.Admin
	Store   *memory.Store
}

type Dependencies struct {
	AdminID  string
	Registry ports.RegistryRepository
	Ledger   ports.LedgerRepository
	Minter   ports.CredentialMinter
	Outbox   ports.OutboxWriter
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

// NewModule wires the use cases. The admin record is stamped exactly once,
// here, with the clock's current time; nothing in the module mutates it
// afterwards.
func NewModule(deps Dependencies) Module {
	now := time.Now().UTC()
	if deps.Clock != nil {
		now = deps.Clock.Now().UTC()
	}
	admin := entities.Admin{
		Address:    deps.AdminID,
		ModifiedAt: now,
	}

	membership := commands.MembershipUseCase{
		Admin:    admin,
		Registry: deps.Registry,
		Outbox:   deps.Outbox,
		Clock:    deps.Clock,
		IDGen:    deps.IDGen,
		Logger:   deps.Logger,
	}
	votes := commands.VoteUseCase{
		Admin:    admin,
		Registry: deps.Registry,
		Ledger:   deps.Ledger,
		Minter:   deps.Minter,
		Outbox:   deps.Outbox,
		Clock:    deps.Clock,
		IDGen:    deps.IDGen,
		Logger:   deps.Logger,
	}
	reputation := queries.ReputationUseCase{
		Registry: deps.Registry,
		Ledger:   deps.Ledger,
		Minter:   deps.Minter,
	}
	registry := queries.RegistryUseCase{
		Admin:    admin,
		Registry: deps.Registry,
	}
	return Module{
		Handler: httpadapter.Handler{
			Membership: membership,
			Votes:      votes,
			Reputation: reputation,
			Registry:   registry,
			Logger:     deps.Logger,
		},
		Admin: admin,
	}
}

// NewInMemoryModule builds a fully wired module on the in-memory store. Used
// by tests and local development.
func NewInMemoryModule(adminID string, minter ports.CredentialMinter, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		AdminID:  adminID,
		Registry: store,
		Ledger:   store,
		Minter:   minter,
		Outbox:   store,
		Clock:    store,
		IDGen:    store,
		Logger:   logger,
	})
	module.Store = store
	return module
}
