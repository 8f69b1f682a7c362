package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	domainerrors "tally/contexts/governance/voting-ledger/domain/errors"
	httptransport "tally/contexts/governance/voting-ledger/transport/http"
)

const callerHeader = "X-Caller-ID"

// AddVoter godoc
// @Summary      Register a voter
// @Description  Admin-only. Adds an account to the voter registry.
// @Tags         voters
// @Accept       json
// @Produce      json
// @Param        X-Caller-ID  header    string                          true  "Caller account ID"
// @Param        request      body      httptransport.AddVoterRequest   true  "Voter to register"
// @Success      204
// @Failure      400  {object}  httptransport.ErrorResponse
// @Failure      403  {object}  httptransport.ErrorResponse
// @Failure      409  {object}  httptransport.ErrorResponse
// @Failure      422  {object}  httptransport.ErrorResponse
// @Router       /v1/voters [post]
func (s *Server) handleAddVoter(w http.ResponseWriter, r *http.Request) {
	callerID := r.Header.Get(callerHeader)

	var req httptransport.AddVoterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, httptransport.ErrorResponse{
			Code:    "invalid_body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if err := s.ledger.Handler.AddVoterHandler(r.Context(), callerID, req); err != nil {
		s.writeLedgerError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveVoter godoc
// @Summary      Remove a voter
// @Description  Admin-only. Removes an account from the voter registry. The
// @Description  account's accumulated score is left in the ledger.
// @Tags         voters
// @Produce      json
// @Param        X-Caller-ID  header  string  true  "Caller account ID"
// @Param        voter_id     path    string  true  "Voter account ID"
// @Success      204
// @Failure      400  {object}  httptransport.ErrorResponse
// @Failure      403  {object}  httptransport.ErrorResponse
// @Failure      404  {object}  httptransport.ErrorResponse
// @Router       /v1/voters/{voter_id} [delete]
func (s *Server) handleRemoveVoter(w http.ResponseWriter, r *http.Request) {
	callerID := r.Header.Get(callerHeader)
	voterID := r.PathValue("voter_id")

	if err := s.ledger.Handler.RemoveVoterHandler(r.Context(), callerID, voterID); err != nil {
		s.writeLedgerError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListVoters godoc
// @Summary      List registered voters
// @Description  Admin-only. Returns every account currently in the registry.
// @Tags         voters
// @Produce      json
// @Param        X-Caller-ID  header  string  true  "Caller account ID"
// @Success      200  {object}  httptransport.VoterListResponse
// @Failure      403  {object}  httptransport.ErrorResponse
// @Router       /v1/voters [get]
func (s *Server) handleListVoters(w http.ResponseWriter, r *http.Request) {
	callerID := r.Header.Get(callerHeader)

	resp, err := s.ledger.Handler.ListVotersHandler(r.Context(), callerID)
	if err != nil {
		s.writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// CastVote godoc
// @Summary      Cast a vote
// @Description  Records a like or unlike against another registered voter. The
// @Description  caller earns a credential token for participating.
// @Tags         votes
// @Accept       json
// @Produce      json
// @Param        X-Caller-ID  header    string                          true  "Caller account ID"
// @Param        request      body      httptransport.CastVoteRequest   true  "Vote to cast"
// @Success      200  {object}  httptransport.CastVoteResponse
// @Failure      400  {object}  httptransport.ErrorResponse
// @Failure      403  {object}  httptransport.ErrorResponse
// @Failure      404  {object}  httptransport.ErrorResponse
// @Failure      422  {object}  httptransport.ErrorResponse
// @Failure      502  {object}  httptransport.ErrorResponse
// @Router       /v1/votes [post]
func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	callerID := r.Header.Get(callerHeader)

	var req httptransport.CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, httptransport.ErrorResponse{
			Code:    "invalid_body",
			Message: "request body must be valid JSON",
		})
		return
	}

	resp, err := s.ledger.Handler.CastVoteHandler(r.Context(), callerID, req)
	if err != nil {
		s.writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Reputation godoc
// @Summary      Read own reputation score
// @Description  Self-only. Returns the caller's accumulated reputation score.
// @Tags         accounts
// @Produce      json
// @Param        X-Caller-ID  header  string  true  "Caller account ID"
// @Param        account_id   path    string  true  "Account ID (must equal caller)"
// @Success      200  {object}  httptransport.ReputationResponse
// @Failure      400  {object}  httptransport.ErrorResponse
// @Failure      403  {object}  httptransport.ErrorResponse
// @Router       /v1/accounts/{account_id}/reputation [get]
func (s *Server) handleReputation(w http.ResponseWriter, r *http.Request) {
	callerID := r.Header.Get(callerHeader)
	accountID := r.PathValue("account_id")

	resp, err := s.ledger.Handler.ReputationHandler(r.Context(), callerID, accountID)
	if err != nil {
		s.writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Balance godoc
// @Summary      Read own credential balance
// @Description  Self-only. Returns how many credential tokens the caller holds.
// @Tags         accounts
// @Produce      json
// @Param        X-Caller-ID  header  string  true  "Caller account ID"
// @Param        account_id   path    string  true  "Account ID (must equal caller)"
// @Success      200  {object}  httptransport.BalanceResponse
// @Failure      400  {object}  httptransport.ErrorResponse
// @Failure      403  {object}  httptransport.ErrorResponse
// @Router       /v1/accounts/{account_id}/balance [get]
func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	callerID := r.Header.Get(callerHeader)
	accountID := r.PathValue("account_id")

	resp, err := s.ledger.Handler.BalanceHandler(r.Context(), callerID, accountID)
	if err != nil {
		s.writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Credentials godoc
// @Summary      List own credential serials
// @Description  Self-only. Returns the serial numbers of the caller's tokens.
// @Tags         accounts
// @Produce      json
// @Param        X-Caller-ID  header  string  true  "Caller account ID"
// @Param        account_id   path    string  true  "Account ID (must equal caller)"
// @Success      200  {object}  httptransport.CredentialsResponse
// @Failure      400  {object}  httptransport.ErrorResponse
// @Failure      403  {object}  httptransport.ErrorResponse
// @Router       /v1/accounts/{account_id}/credentials [get]
func (s *Server) handleCredentials(w http.ResponseWriter, r *http.Request) {
	callerID := r.Header.Get(callerHeader)
	accountID := r.PathValue("account_id")

	resp, err := s.ledger.Handler.CredentialsHandler(r.Context(), callerID, accountID)
	if err != nil {
		s.writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeLedgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domainerrors.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, httptransport.ErrorResponse{
			Code:    "invalid_input",
			Message: err.Error(),
		})
	case errors.Is(err, domainerrors.ErrNotAdmin):
		writeJSON(w, http.StatusForbidden, httptransport.ErrorResponse{
			Code:    "not_admin",
			Message: err.Error(),
		})
	case errors.Is(err, domainerrors.ErrMustBeSelf):
		writeJSON(w, http.StatusForbidden, httptransport.ErrorResponse{
			Code:    "must_be_self",
			Message: err.Error(),
		})
	case errors.Is(err, domainerrors.ErrNotVoter):
		writeJSON(w, http.StatusForbidden, httptransport.ErrorResponse{
			Code:    "not_voter",
			Message: err.Error(),
		})
	case errors.Is(err, domainerrors.ErrVoterNotFound):
		writeJSON(w, http.StatusNotFound, httptransport.ErrorResponse{
			Code:    "voter_not_found",
			Message: err.Error(),
		})
	case errors.Is(err, domainerrors.ErrVoterExists):
		writeJSON(w, http.StatusConflict, httptransport.ErrorResponse{
			Code:    "voter_exists",
			Message: err.Error(),
		})
	case errors.Is(err, domainerrors.ErrAdminNotEligible):
		writeJSON(w, http.StatusUnprocessableEntity, httptransport.ErrorResponse{
			Code:    "admin_not_eligible",
			Message: err.Error(),
		})
	case errors.Is(err, domainerrors.ErrSelfVoteForbidden):
		writeJSON(w, http.StatusUnprocessableEntity, httptransport.ErrorResponse{
			Code:    "self_vote_forbidden",
			Message: err.Error(),
		})
	case errors.Is(err, domainerrors.ErrCredentialMintFailed):
		writeJSON(w, http.StatusBadGateway, httptransport.ErrorResponse{
			Code:    "credential_mint_failed",
			Message: err.Error(),
		})
	default:
		s.logger.Error("unhandled ledger error",
			"event", "http_unhandled_error",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, httptransport.ErrorResponse{
			Code:    "internal_error",
			Message: "internal error",
		})
	}
}
