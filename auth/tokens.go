package auth

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/moyoez/ganymede-go/tool"
	"github.com/moyoez/ganymede-go/types"
)

// TokenStore persists the OAuth tokens in auth.json.
type TokenStore struct {
	path string
	mu   sync.RWMutex
}

func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// Load returns nil, nil when the user never signed in.
func (s *TokenStore) Load() (*types.AuthTokens, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrLoadAuth, err)
	}
	var tokens types.AuthTokens
	if err := tool.Unmarshal(data, &tokens); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadAuth, err)
	}
	return &tokens, nil
}

func (s *TokenStore) Save(tokens *types.AuthTokens) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := tool.MarshalPretty(tokens)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSaveAuth, err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrSaveAuth, err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("%w: %v", ErrSaveAuth, err)
	}
	return nil
}

// Clean signs the user out by removing auth.json.
func (s *TokenStore) Clean() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if err == nil {
		tool.DefaultLogger.Infof("[OAuth] Cleared authentication tokens")
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		tool.DefaultLogger.Debugf("[OAuth] No authentication tokens to clear")
		return nil
	}
	return fmt.Errorf("%w: %v", ErrCleanAuth, err)
}

func (s *TokenStore) AccessToken() (string, error) {
	tokens, err := s.Load()
	if err != nil {
		return "", err
	}
	if tokens == nil || tokens.AccessToken == "" {
		return "", ErrTokensNotFound
	}
	return tokens.AccessToken, nil
}
