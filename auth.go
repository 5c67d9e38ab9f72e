package ragchat

import (
	"fmt"
	"strings"
)

// Storage keys for the credential pair. CachePrefix namespaces any per-user
// cached UI state; logout removes everything under it by prefix scan.
const (
	KeyUserID   = "chatUserId"
	KeyAPIKey   = "chatApiKey"
	CachePrefix = "ragchat/"
)

// Auth holds the process-wide credential pair backed by a KV store.
// It is loaded once at startup and mutated only through Login and Logout.
type Auth struct {
	kv     KV
	userID string
	apiKey string
}

// NewAuth creates an Auth over kv, loading any stored credentials. A
// partially stored pair (one key present, the other missing) counts as not
// authenticated.
func NewAuth(kv KV) (*Auth, error) {
	a := &Auth{kv: kv}

	userID, err := kv.Get(KeyUserID)
	if err != nil {
		if err == ErrKeyNotFound {
			return a, nil
		}
		return nil, fmt.Errorf("load user id: %w", err)
	}
	apiKey, err := kv.Get(KeyAPIKey)
	if err != nil {
		if err == ErrKeyNotFound {
			return a, nil
		}
		return nil, fmt.Errorf("load api key: %w", err)
	}

	a.userID = userID
	a.apiKey = apiKey
	return a, nil
}

// Login validates and persists the credential pair, then makes it current.
func (a *Auth) Login(userID, apiKey string) error {
	if err := ValidateUserID(userID); err != nil {
		return err
	}
	if err := ValidateAPIKey(apiKey); err != nil {
		return err
	}
	if err := a.kv.Set(KeyUserID, userID); err != nil {
		return fmt.Errorf("store user id: %w", err)
	}
	if err := a.kv.Set(KeyAPIKey, apiKey); err != nil {
		return fmt.Errorf("store api key: %w", err)
	}
	a.userID = userID
	a.apiKey = apiKey
	return nil
}

// Logout clears the credential pair and every namespaced cache key. It is
// idempotent: logging out twice leaves the same end state.
func (a *Auth) Logout() error {
	for _, key := range []string{KeyUserID, KeyAPIKey} {
		if err := a.kv.Delete(key); err != nil && err != ErrKeyNotFound {
			return fmt.Errorf("delete %s: %w", key, err)
		}
	}

	cached, err := a.kv.Keys(CachePrefix)
	if err != nil {
		return fmt.Errorf("scan cache keys: %w", err)
	}
	for _, key := range cached {
		if !strings.HasPrefix(key, CachePrefix) {
			continue
		}
		if err := a.kv.Delete(key); err != nil && err != ErrKeyNotFound {
			return fmt.Errorf("delete %s: %w", key, err)
		}
	}

	a.userID = ""
	a.apiKey = ""
	return nil
}

// Authenticated reports whether a complete credential pair is loaded.
func (a *Auth) Authenticated() bool {
	return a.userID != "" && a.apiKey != ""
}

// UserID returns the current user ID, or "" when not authenticated.
func (a *Auth) UserID() string { return a.userID }

// APIKey returns the current API key, or "" when not authenticated.
func (a *Auth) APIKey() string { return a.apiKey }
