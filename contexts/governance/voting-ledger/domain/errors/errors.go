package errors

import "errors"

var (
	ErrInvalidInput         = errors.New("voting input is invalid")
	ErrNotAdmin             = errors.New("caller is not the admin")
	ErrMustBeSelf           = errors.New("caller must be the subject account")
	ErrNotVoter             = errors.New("caller is not a registered voter")
	ErrVoterNotFound        = errors.New("voter is not registered")
	ErrVoterExists          = errors.New("voter is already registered")
	ErrAdminNotEligible     = errors.New("admin account cannot be a voter")
	ErrSelfVoteForbidden    = errors.New("voting for yourself is forbidden")
	ErrCredentialMintFailed = errors.New("credential token mint failed")
)
