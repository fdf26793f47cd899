package auth

import (
	"sync"
	"time"

	ttlworker "github.com/FloatTech/ttl"
)

// PendingTTL bounds how long a started sign-in waits for its callback.
const PendingTTL = 10 * time.Minute

// PendingStore keeps the code verifier of each sign-in attempt until its callback arrives.
type PendingStore struct {
	mu        sync.Mutex
	verifiers *ttlworker.Cache[string, string]
}

func NewPendingStore(ttl time.Duration) *PendingStore {
	if ttl <= 0 {
		ttl = PendingTTL
	}
	return &PendingStore{verifiers: ttlworker.NewCache[string, string](ttl)}
}

func (p *PendingStore) Put(state, verifier string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.verifiers.Set(state, verifier)
}

// Take returns the verifier of state and forgets it, so a state can be used once.
func (p *PendingStore) Take(state string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	verifier := p.verifiers.Get(state)
	if verifier == "" {
		return "", false
	}
	p.verifiers.Delete(state)
	return verifier, true
}
