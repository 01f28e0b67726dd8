package oauthing

import (
	"errors"
	"fmt"
)

var (
	ErrProviderDenied        = errors.New("authorization denied by provider")
	ErrUnsupportedPlatform   = errors.New("platform not supported")
	ErrPlatformNotConfigured = errors.New("platform not yet supported")
	ErrMissingParams         = errors.New("missing code or state")
	ErrInvalidState          = errors.New("invalid state")
	ErrExpiredState          = errors.New("state expired")
	ErrCallbackRejected      = errors.New("callback verification failed")
	ErrTokenExchange         = errors.New("token exchange failed")
	ErrIdentity              = errors.New("could not resolve platform account")
	ErrStateStore            = errors.New("could not persist oauth state")
	ErrConnectionStore       = errors.New("could not save connection")
)

// OAuthError carries the API error code of an OAuth failure.
type OAuthError struct {
	Err     error
	Code    string
	Details string
}

func (e *OAuthError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *OAuthError) Unwrap() error {
	return e.Err
}

func NewOAuthError(baseErr error, code string, details string) *OAuthError {
	return &OAuthError{
		Err:     baseErr,
		Code:    code,
		Details: details,
	}
}
