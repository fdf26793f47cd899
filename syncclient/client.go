// Package syncclient pushes local profiles and progress to the Ganymede server
// and merges the server's answer back into the local document.
package syncclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/moyoez/ganymede-go/conf"
	"github.com/moyoez/ganymede-go/tool"
	"github.com/moyoez/ganymede-go/types"
)

const (
	defaultRate  = 5
	defaultBurst = 10
)

// TokenProvider hands out the bearer token of the signed-in user.
type TokenProvider interface {
	AccessToken() (string, error)
}

// ConfStore is the part of conf.Store the client needs.
type ConfStore interface {
	Load() (*types.Conf, error)
	Update(fn func(doc *types.Conf) error) error
}

// Client talks to the remote profile API.
type Client struct {
	baseURL string
	tokens  TokenProvider
	store   ConfStore
	http    *http.Client
	limiter *rate.Limiter
	now     func() time.Time
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) { client.http = c }
}

// WithRateLimit paces outgoing requests with a token bucket.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(client *Client) { client.limiter = rate.NewLimiter(limit, burst) }
}

func WithClock(now func() time.Time) Option {
	return func(client *Client) { client.now = now }
}

func New(baseURL string, tokens TokenProvider, store ConfStore, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		store:   store,
		http:    tool.NewHTTPClient(tool.DefaultTimeout),
		limiter: rate.NewLimiter(rate.Limit(defaultRate), defaultBurst),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SyncProfiles pushes every local profile, then merges the server's view into the
// document under one store update. The returned profiles are informational.
func (c *Client) SyncProfiles(ctx context.Context) (*types.SyncResponse, error) {
	if token, err := c.tokens.AccessToken(); err != nil || token == "" {
		return nil, ErrTokensNotFound
	}

	doc, err := c.store.Load()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConf, err)
	}

	req := types.SyncRequest{Profiles: c.buildPayload(doc)}

	tool.DefaultLogger.Infof("[Sync] Sending profiles sync request to server")

	var server syncServerResponse
	if err := c.do(ctx, http.MethodPost, "/profiles/sync", req, &server); err != nil {
		var validation *ValidationError
		if errors.As(err, &validation) {
			tool.DefaultLogger.Warnf("[Sync] HTTP 422 from server: %s", validation.Body)
		}
		return nil, err
	}

	remote := server.toRemoteProfiles()

	var result MergeResult
	err = c.store.Update(func(doc *types.Conf) error {
		result = Merge(doc, remote)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConf, err)
	}

	tool.DefaultLogger.Infof("[Sync] sync completed: linked=%d created=%d updated=%d adopted=%d retained=%d skipped=%d",
		result.Linked, result.Created, result.Updated, result.Adopted, result.Retained, result.Skipped)

	return &types.SyncResponse{Profiles: remote}, nil
}

func (c *Client) buildPayload(doc *types.Conf) []types.SyncProfilePayload {
	fallback := c.now().UTC().Format(time.RFC3339)

	profiles := make([]types.SyncProfilePayload, 0, len(doc.Profiles))
	for _, p := range doc.Profiles {
		progresses := make([]types.SyncProgressPayload, 0, len(p.Progresses))
		for _, prog := range p.Progresses {
			updatedAt := fallback
			if prog.UpdatedAt != nil {
				updatedAt = *prog.UpdatedAt
			}
			steps := prog.Steps
			if steps == nil {
				steps = map[uint32]types.ConfStep{}
			}
			progresses = append(progresses, types.SyncProgressPayload{
				ID:          prog.ID,
				CurrentStep: prog.CurrentStep,
				Steps:       steps,
				UpdatedAt:   updatedAt,
			})
		}
		profiles = append(profiles, types.SyncProfilePayload{
			UUID:       p.ID,
			Name:       p.Name,
			Progresses: progresses,
		})
	}
	return profiles
}

// CreateProfile registers a local profile on the server and returns its server id.
func (c *Client) CreateProfile(ctx context.Context, name, uuid string) (uint32, error) {
	var resp createProfileResponse
	if err := c.do(ctx, http.MethodPost, "/profiles", createProfileRequest{Name: name, UUID: uuid}, &resp); err != nil {
		return 0, err
	}
	tool.DefaultLogger.Infof("[Sync] Created remote profile '%s' with id %d", name, resp.ID)
	return resp.ID, nil
}

func (c *Client) RenameProfile(ctx context.Context, serverID uint32, name string) error {
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/profiles/%d", serverID), renameProfileRequest{Name: name}, nil); err != nil {
		return err
	}
	tool.DefaultLogger.Infof("[Sync] Renamed remote profile %d to '%s'", serverID, name)
	return nil
}

func (c *Client) DeleteProfile(ctx context.Context, serverID uint32) error {
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/profiles/%d", serverID), nil, nil); err != nil {
		return err
	}
	tool.DefaultLogger.Infof("[Sync] Deleted remote profile %d", serverID)
	return nil
}

// SyncProgress replaces the server copy of one guide's progress.
func (c *Client) SyncProgress(ctx context.Context, serverID, guideID, currentStep uint32, steps map[uint32]types.ConfStep) error {
	tool.DefaultLogger.Debugf("[Sync] Syncing progress for profile %d guide %d - current_step: %d", serverID, guideID, currentStep)

	if steps == nil {
		steps = map[uint32]types.ConfStep{}
	}
	body := types.ProgressUpdateRequest{CurrentStep: currentStep, Steps: steps}
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/profiles/%d/progress/%d", serverID, guideID), body, nil)
	if err != nil {
		var status *StatusError
		if errors.As(err, &status) && status.StatusCode == http.StatusNotFound {
			return ErrProfileOrGuideNotFound
		}
		return err
	}
	tool.DefaultLogger.Debugf("[Sync] Synced progress for profile %d guide %d", serverID, guideID)
	return nil
}

// PushActiveProgress sends the progress of guideID for the profile in use.
func (c *Client) PushActiveProgress(ctx context.Context, guideID uint32) error {
	doc, err := c.store.Load()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConf, err)
	}
	profile, err := conf.ProfileInUse(doc)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConf, err)
	}
	if profile.ServerID == nil {
		return ErrProfileNotSynced
	}
	progress := conf.ProgressFor(profile, guideID)
	return c.SyncProgress(ctx, *profile.ServerID, guideID, progress.CurrentStep, progress.Steps)
}

// Me returns the signed-in user.
func (c *Client) Me(ctx context.Context) (*types.User, error) {
	var user types.User
	if err := c.do(ctx, http.MethodGet, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	token, err := c.tokens.AccessToken()
	if err != nil || token == "" {
		return ErrTokensNotFound
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := tool.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: marshal request: %v", ErrRequestFailed, err)
		}
		bodyReader = bytes.NewReader(data)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("%w: create request: %v", ErrRequestFailed, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	// an expired session is answered with a redirect to the login page
	if resp.Request != nil && strings.HasSuffix(resp.Request.URL.Path, "/login") {
		return ErrNotConnected
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrRequestFailed, err)
	}

	if resp.StatusCode == http.StatusUnprocessableEntity {
		return &ValidationError{Body: string(respBody)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if result != nil {
		if err := tool.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
	}
	return nil
}
