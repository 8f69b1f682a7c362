package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type AddVoterRequest struct {
	VoterID string `json:"voter_id"`
}

type VoterListResponse struct {
	Voters []string `json:"voters"`
}

type CastVoteRequest struct {
	VoterID  string `json:"voter_id"`
	VoteType string `json:"vote_type"`
}

type CastVoteResponse struct {
	VoterID    string `json:"voter_id"`
	VoteType   string `json:"vote_type"`
	Power      int64  `json:"power"`
	Delta      int64  `json:"delta"`
	TotalVotes int64  `json:"total_votes"`
}

type ReputationResponse struct {
	AccountID  string `json:"account_id"`
	Reputation int64  `json:"reputation"`
}

type BalanceResponse struct {
	AccountID string `json:"account_id"`
	Balance   int    `json:"balance"`
}

type CredentialsResponse struct {
	AccountID string   `json:"account_id"`
	Serials   []uint64 `json:"serials"`
}
