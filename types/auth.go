package types

// AuthTokens is what auth.json stores after a successful OAuth code exchange.
type AuthTokens struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken *string `json:"refresh_token"`
	ExpiresAt    *uint32 `json:"expires_at"` // unix seconds
	TokenType    string  `json:"token_type"`
}

// TokenResponse is the body returned by the OAuth token endpoint.
type TokenResponse struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken *string `json:"refresh_token"`
	ExpiresIn    *uint64 `json:"expires_in"`
	TokenType    string  `json:"token_type"`
}
