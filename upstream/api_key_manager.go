package upstream

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/status-im/crypto-converter/config"
)

// KeyType defines the API key type
type KeyType int

const (
	// NoKey means no API key is available
	NoKey KeyType = iota
	// ProKey means using a Pro API key
	ProKey
	// DemoKey means using a demo API key
	DemoKey
)

func (k KeyType) String() string {
	switch k {
	case ProKey:
		return "pro"
	case DemoKey:
		return "demo"
	default:
		return "none"
	}
}

// APIKey represents an API key with its type
type APIKey struct {
	Key  string
	Type KeyType
}

// IAPIKeyManager defines the interface for API key management
type IAPIKeyManager interface {
	// GetAvailableKeys returns the keys to try, in order:
	// - Pro keys that are not in backoff (a lone Pro key is always included)
	// - Demo keys that are not in backoff
	// - the anonymous "no key" entry, always last
	GetAvailableKeys() []APIKey

	// MarkKeyAsFailed puts a key in backoff. Repeated failures lengthen it.
	MarkKeyAsFailed(key string)

	// MarkKeyAsHealthy clears the backoff state of a key after a success
	MarkKeyAsHealthy(key string)
}

const (
	defaultKeyBackoff = 5 * time.Minute
	maxKeyBackoff     = time.Hour
)

// keyBackoff tracks consecutive failures of one key
type keyBackoff struct {
	failures int
	until    time.Time
}

// APIKeyManager implements IAPIKeyManager. Each consecutive failure of a
// key doubles its backoff, from defaultKeyBackoff up to maxKeyBackoff.
type APIKeyManager struct {
	apiTokens *config.APITokens
	backoffs  map[string]*keyBackoff
	now       func() time.Time
	mu        sync.RWMutex
}

// NewAPIKeyManager creates a new API key manager
func NewAPIKeyManager(apiTokens *config.APITokens) *APIKeyManager {
	return &APIKeyManager{
		apiTokens: apiTokens,
		backoffs:  make(map[string]*keyBackoff),
		now:       time.Now,
	}
}

// candidates lists the configured keys of the requested type, in file order
func (m *APIKeyManager) candidates(keyType KeyType) []APIKey {
	if m.apiTokens == nil {
		return nil
	}

	var tokens []string
	switch keyType {
	case ProKey:
		tokens = m.apiTokens.Tokens
	case DemoKey:
		tokens = m.apiTokens.DemoTokens
	}

	keys := make([]APIKey, 0, len(tokens))
	for _, token := range tokens {
		if token != "" {
			keys = append(keys, APIKey{Key: token, Type: keyType})
		}
	}
	return keys
}

// backedOff reports whether key is still waiting out a failure.
// Callers hold at least the read lock.
func (m *APIKeyManager) backedOff(key string, now time.Time) bool {
	state, ok := m.backoffs[key]
	return ok && now.Before(state.until)
}

// GetAvailableKeys returns the keys to try, best first
func (m *APIKeyManager) GetAvailableKeys() []APIKey {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := m.now()
	pro := m.candidates(ProKey)

	var available []APIKey
	for _, key := range pro {
		// a lone Pro key beats any Demo key even while backed off
		if len(pro) == 1 || !m.backedOff(key.Key, now) {
			available = append(available, key)
		}
	}
	for _, key := range m.candidates(DemoKey) {
		if !m.backedOff(key.Key, now) {
			available = append(available, key)
		}
	}

	return append(available, APIKey{Key: "", Type: NoKey})
}

// MarkKeyAsFailed backs key off for a period that grows with each
// consecutive failure
func (m *APIKeyManager) MarkKeyAsFailed(key string) {
	if key == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.backoffs[key]
	if !ok {
		state = &keyBackoff{}
		m.backoffs[key] = state
	}
	state.failures++

	backoff := defaultKeyBackoff
	for i := 1; i < state.failures && backoff < maxKeyBackoff; i++ {
		backoff *= 2
	}
	if backoff > maxKeyBackoff {
		backoff = maxKeyBackoff
	}
	state.until = m.now().Add(backoff)
	log.Printf("APIKeyManager: key failed %d time(s) in a row, backing off for %v", state.failures, backoff)
}

// MarkKeyAsHealthy forgets previous failures of key
func (m *APIKeyManager) MarkKeyAsHealthy(key string) {
	if key == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.backoffs, key)
}

// TryWithKeys calls fn with each available key until one succeeds. A key
// failing with ErrRateLimited or ErrUnauthorized is put in backoff and the
// next key is tried. Any other error is returned immediately.
func TryWithKeys[T any](manager IAPIKeyManager, logPrefix string, fn func(APIKey) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for _, key := range manager.GetAvailableKeys() {
		result, err := fn(key)
		if err == nil {
			manager.MarkKeyAsHealthy(key.Key)
			return result, nil
		}

		lastErr = err
		if !errors.Is(err, ErrRateLimited) && !errors.Is(err, ErrUnauthorized) {
			return zero, err
		}

		log.Printf("%s: %s key rejected (%s), trying next key", logPrefix, key.Type, KindOf(err))
		manager.MarkKeyAsFailed(key.Key)
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("%w: no API keys available", ErrUnavailable)
	}
	return zero, lastErr
}
