package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	credentialservice "tally/contexts/governance/credential-service"
	votingledger "tally/contexts/governance/voting-ledger"
)

const testAdminID = "admin-1"

func newTestServer() *Server {
	credentials := credentialservice.NewInMemoryModule(1, nil)
	ledger := votingledger.NewInMemoryModule(testAdminID, credentials.Service, nil)
	return New(ledger, nil, "")
}

func addVoter(t *testing.T, server *Server, callerID, voterID string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"voter_id": voterID})
	req := httptest.NewRequest(http.MethodPost, "/v1/voters", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Caller-ID", callerID)

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	return rr
}

func castVote(t *testing.T, server *Server, callerID, targetID, voteType string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"voter_id": targetID, "vote_type": voteType})
	req := httptest.NewRequest(http.MethodPost, "/v1/votes", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Caller-ID", callerID)

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	return rr
}

func TestAddVoterRequiresAdmin(t *testing.T) {
	server := newTestServer()

	rr := addVoter(t, server, "voter-1", "voter-2")
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestAddVoterRejectsAdminAsMember(t *testing.T) {
	server := newTestServer()

	rr := addVoter(t, server, testAdminID, testAdminID)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestAddVoterDuplicateConflicts(t *testing.T) {
	server := newTestServer()

	if rr := addVoter(t, server, testAdminID, "voter-1"); rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d body=%s", rr.Code, rr.Body.String())
	}
	if rr := addVoter(t, server, testAdminID, "voter-1"); rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestRemoveVoterNotFound(t *testing.T) {
	server := newTestServer()

	req := httptest.NewRequest(http.MethodDelete, "/v1/voters/voter-9", nil)
	req.Header.Set("X-Caller-ID", testAdminID)

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestListVotersRequiresAdmin(t *testing.T) {
	server := newTestServer()
	addVoter(t, server, testAdminID, "voter-1")

	req := httptest.NewRequest(http.MethodGet, "/v1/voters", nil)
	req.Header.Set("X-Caller-ID", "voter-1")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestCastVoteHappyPath(t *testing.T) {
	server := newTestServer()
	addVoter(t, server, testAdminID, "voter-1")
	addVoter(t, server, testAdminID, "voter-2")

	rr := castVote(t, server, "voter-1", "voter-2", "like")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	var resp struct {
		VoterID    string `json:"voter_id"`
		VoteType   string `json:"vote_type"`
		Power      int64  `json:"power"`
		TotalVotes int64  `json:"total_votes"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.VoterID != "voter-2" || resp.VoteType != "like" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Power != 1 {
		t.Fatalf("expected power 1 on an empty ledger, got %d", resp.Power)
	}
	if resp.TotalVotes != 1 {
		t.Fatalf("expected total 1, got %d", resp.TotalVotes)
	}
}

func TestCastVoteSelfRejected(t *testing.T) {
	server := newTestServer()
	addVoter(t, server, testAdminID, "voter-1")

	rr := castVote(t, server, "voter-1", "voter-1", "like")
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestCastVoteUnregisteredCallerForbidden(t *testing.T) {
	server := newTestServer()
	addVoter(t, server, testAdminID, "voter-2")

	rr := castVote(t, server, "stranger", "voter-2", "like")
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestCastVoteUnknownTargetNotFound(t *testing.T) {
	server := newTestServer()
	addVoter(t, server, testAdminID, "voter-1")

	rr := castVote(t, server, "voter-1", "ghost", "like")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestCastVoteBadPolarityRejected(t *testing.T) {
	server := newTestServer()
	addVoter(t, server, testAdminID, "voter-1")
	addVoter(t, server, testAdminID, "voter-2")

	rr := castVote(t, server, "voter-1", "voter-2", "meh")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestReputationIsSelfOnly(t *testing.T) {
	server := newTestServer()
	addVoter(t, server, testAdminID, "voter-1")
	addVoter(t, server, testAdminID, "voter-2")
	castVote(t, server, "voter-1", "voter-2", "like")

	req := httptest.NewRequest(http.MethodGet, "/v1/accounts/voter-2/reputation", nil)
	req.Header.Set("X-Caller-ID", "voter-1")
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 reading someone else's score, got %d body=%s", rr.Code, rr.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/accounts/voter-2/reputation", nil)
	req.Header.Set("X-Caller-ID", "voter-2")
	rr = httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	var resp struct {
		AccountID  string `json:"account_id"`
		Reputation int64  `json:"reputation"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Reputation != 1 {
		t.Fatalf("expected reputation 1 after one like, got %d", resp.Reputation)
	}
}

func TestReputationRefusesAdmin(t *testing.T) {
	server := newTestServer()
	addVoter(t, server, testAdminID, "voter-1")

	req := httptest.NewRequest(http.MethodGet, "/v1/accounts/voter-1/reputation", nil)
	req.Header.Set("X-Caller-ID", testAdminID)
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for admin impersonating a voter read, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestBalanceReflectsMintedCredentials(t *testing.T) {
	server := newTestServer()
	addVoter(t, server, testAdminID, "voter-1")
	addVoter(t, server, testAdminID, "voter-2")
	castVote(t, server, "voter-1", "voter-2", "like")
	castVote(t, server, "voter-1", "voter-2", "unlike")

	req := httptest.NewRequest(http.MethodGet, "/v1/accounts/voter-1/balance", nil)
	req.Header.Set("X-Caller-ID", "voter-1")
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Balance int `json:"balance"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Balance != 2 {
		t.Fatalf("expected 2 credentials after two votes, got %d", resp.Balance)
	}
}

func TestCredentialsListsSerials(t *testing.T) {
	server := newTestServer()
	addVoter(t, server, testAdminID, "voter-1")
	addVoter(t, server, testAdminID, "voter-2")
	castVote(t, server, "voter-1", "voter-2", "like")

	req := httptest.NewRequest(http.MethodGet, "/v1/accounts/voter-1/credentials", nil)
	req.Header.Set("X-Caller-ID", "voter-1")
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Serials []uint64 `json:"serials"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Serials) != 1 || resp.Serials[0] != 1 {
		t.Fatalf("expected serials [1], got %v", resp.Serials)
	}
}

func TestMissingCallerHeaderIsForbiddenOnReads(t *testing.T) {
	server := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/v1/accounts/voter-1/reputation", nil)
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without caller header, got %d body=%s", rr.Code, rr.Body.String())
	}
}
