package auth

import "errors"

var (
	ErrTokensNotFound       = errors.New("tokens not found")
	ErrSaveAuth             = errors.New("failed to save auth")
	ErrLoadAuth             = errors.New("failed to load auth")
	ErrCleanAuth            = errors.New("failed to clean auth")
	ErrTokenExchange        = errors.New("failed to exchange code for tokens")
	ErrInvalidTokenResponse = errors.New("invalid token response from server")
	ErrUnknownState         = errors.New("no pending oauth state for this id")
	ErrInvalidCallback      = errors.New("invalid oauth callback url")
)
