// Package auth signs the user in with OAuth authorization code + PKCE and keeps the tokens on disk.
package auth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/moyoez/ganymede-go/tool"
	"github.com/moyoez/ganymede-go/types"
)

const (
	DefaultRedirectURI = "ganymede://oauth/callback"
	exchangeTimeout    = 30 * time.Second
)

// Notifier is told when a sign-in completed.
type Notifier interface {
	Broadcast(notification *types.Notification)
}

type FlowConfig struct {
	WebsiteURL  string
	ClientID    string
	RedirectURI string
}

// Flow drives one or more concurrent sign-in attempts.
type Flow struct {
	cfg      FlowConfig
	tokens   *TokenStore
	pending  *PendingStore
	http     *http.Client
	notifier Notifier
	now      func() time.Time
}

func NewFlow(cfg FlowConfig, tokens *TokenStore, pending *PendingStore, httpClient *http.Client, notifier Notifier) *Flow {
	if cfg.RedirectURI == "" {
		cfg.RedirectURI = DefaultRedirectURI
	}
	cfg.WebsiteURL = strings.TrimRight(cfg.WebsiteURL, "/")
	if httpClient == nil {
		httpClient = tool.NewHTTPClient(exchangeTimeout)
	}
	if pending == nil {
		pending = NewPendingStore(PendingTTL)
	}
	return &Flow{
		cfg:      cfg,
		tokens:   tokens,
		pending:  pending,
		http:     httpClient,
		notifier: notifier,
		now:      time.Now,
	}
}

// Start registers a new attempt and returns the authorization URL to open in the browser.
func (f *Flow) Start() (string, error) {
	verifier, challenge, err := GeneratePKCE()
	if err != nil {
		return "", fmt.Errorf("generate pkce: %w", err)
	}
	state := uuid.New().String()
	f.pending.Put(state, verifier)

	tool.DefaultLogger.Debugf("[OAuth] Saving OAuth state in memory with ID: %s", state)
	tool.DefaultLogger.Infof("[OAuth] OAuth flow started successfully with state ID: %s", state)
	return f.AuthorizationURL(challenge, state), nil
}

func (f *Flow) AuthorizationURL(challenge, state string) string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", f.cfg.ClientID)
	q.Set("code_challenge", challenge)
	q.Set("code_challenge_method", "S256")
	q.Set("state", state)
	q.Set("redirect_uri", f.cfg.RedirectURI)
	return f.cfg.WebsiteURL + "/oauth/authorize?" + q.Encode()
}

// HandleCallback exchanges code for tokens and stores them. The attempt identified by
// state is consumed whatever the outcome.
func (f *Flow) HandleCallback(ctx context.Context, code, state string) error {
	tool.DefaultLogger.Debugf("[OAuth] Handling OAuth callback with state ID: %s", state)

	verifier, ok := f.pending.Take(state)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownState, state)
	}

	tokens, err := f.exchange(ctx, code, verifier)
	if err != nil {
		return err
	}
	if err := f.tokens.Save(tokens); err != nil {
		return err
	}

	tool.DefaultLogger.Infof("[OAuth] OAuth authentication completed successfully")
	if f.notifier != nil {
		f.notifier.Broadcast(&types.Notification{
			Type:    types.NotifyTypeOAuthFlowEnd,
			Title:   "Signed in",
			Message: "OAuth authentication completed",
		})
	}
	return nil
}

func (f *Flow) exchange(ctx context.Context, code, verifier string) (*types.AuthTokens, error) {
	tool.DefaultLogger.Debugf("[OAuth] Exchanging authorization code for tokens")

	ctx, cancel := context.WithTimeout(ctx, exchangeTimeout)
	defer cancel()

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", f.cfg.ClientID)
	form.Set("code_verifier", verifier)
	form.Set("redirect_uri", f.cfg.RedirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.cfg.WebsiteURL+"/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenExchange, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", ErrTokenExchange, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrTokenExchange, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: HTTP %d: %s", ErrTokenExchange, resp.StatusCode, string(body))
	}

	var token types.TokenResponse
	if err := tool.Unmarshal(body, &token); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTokenResponse, err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("%w: empty access token", ErrInvalidTokenResponse)
	}

	tokens := &types.AuthTokens{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
	}
	if token.ExpiresIn != nil {
		expiresAt := uint32(uint64(f.now().Unix()) + *token.ExpiresIn)
		tokens.ExpiresAt = &expiresAt
	}
	return tokens, nil
}

// ParseCallbackURL extracts code and state from ganymede://oauth/callback?code=...&state=...
func ParseCallbackURL(raw string) (code, state string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidCallback, err)
	}
	if u.Host != "oauth" || strings.TrimRight(u.Path, "/") != "/callback" {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidCallback, raw)
	}
	q := u.Query()
	code, state = q.Get("code"), q.Get("state")
	if code == "" || state == "" {
		return "", "", fmt.Errorf("%w: missing code or state", ErrInvalidCallback)
	}
	return code, state, nil
}

// IsCallbackURL reports whether raw is an OAuth callback deep link.
func IsCallbackURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Host == "oauth" && strings.TrimRight(u.Path, "/") == "/callback"
}
