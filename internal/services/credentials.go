package services

import (
	"sync"
	"time"
)

// Credential is a bearer token for the Spotify Web API and the instant it stops being usable.
type Credential struct {
	Token     string
	ExpiresAt time.Time
}

// Expired reports whether the credential may no longer be used at now.
//
// A credential is usable only while now is strictly before ExpiresAt.
func (c Credential) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// CredentialCache is a single slot holding the current [Credential].
//
// It performs no eviction: callers check staleness with [Credential.Expired].
type CredentialCache interface {
	Get() (Credential, bool)
	Set(Credential)
}

// MemoryCredentialCache is the in-process [CredentialCache].
//
// The mutex only keeps reads and writes of the slot whole; it does not serialize refreshes.
type MemoryCredentialCache struct {
	mu   sync.RWMutex
	cred Credential
	ok   bool
}

// NewMemoryCredentialCache returns an empty cache.
func NewMemoryCredentialCache() *MemoryCredentialCache {
	return &MemoryCredentialCache{}
}

// Get returns the stored credential, or false if nothing has been stored yet.
func (c *MemoryCredentialCache) Get() (Credential, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cred, c.ok
}

// Set replaces the stored credential.
func (c *MemoryCredentialCache) Set(cred Credential) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cred = cred
	c.ok = true
}
