package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	votingledger "tally/contexts/governance/voting-ledger"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "tally/internal/platform/httpserver/docs"
)

type Server struct {
	mux    *http.ServeMux
	logger *slog.Logger
	addr   string
	ledger votingledger.Module
}

func New(ledger votingledger.Module, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:    http.NewServeMux(),
		logger: logger,
		addr:   addr,
		ledger: ledger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /v1/voters", s.handleAddVoter)
	s.mux.HandleFunc("DELETE /v1/voters/{voter_id}", s.handleRemoveVoter)
	s.mux.HandleFunc("GET /v1/voters", s.handleListVoters)
	s.mux.HandleFunc("POST /v1/votes", s.handleCastVote)
	s.mux.HandleFunc("GET /v1/accounts/{account_id}/reputation", s.handleReputation)
	s.mux.HandleFunc("GET /v1/accounts/{account_id}/balance", s.handleBalance)
	s.mux.HandleFunc("GET /v1/accounts/{account_id}/credentials", s.handleCredentials)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
