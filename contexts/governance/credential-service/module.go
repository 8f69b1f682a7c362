package credentialservice

import (
	"log/slog"

	"tally/contexts/governance/credential-service/adapters/memory"
	"tally/contexts/governance/credential-service/application"
	"tally/contexts/governance/credential-service/ports"
)

type Module struct {
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Repo   ports.TokenRepository
	Clock  ports.Clock
	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Service: application.Service{
			Repo:   deps.Repo,
			Clock:  deps.Clock,
			Logger: deps.Logger,
		},
	}
}

// NewInMemoryModule builds the service over the in-memory token store with
// serial numbering starting at baseSerial.
func NewInMemoryModule(baseSerial uint64, logger *slog.Logger) Module {
	store := memory.NewStore(baseSerial)
	module := NewModule(Dependencies{
		Repo:   store,
		Clock:  store,
		Logger: logger,
	})
	module.Store = store
	return module
}
