package auth

import (
	"sync"
	"time"
)

// RevocationList is an in-process denylist of token identifiers. Entries live
// until the token they belong to would have expired anyway, then eviction
// drops them. This is the only shared mutable state the API carries beyond
// process configuration, so it stays a small guarded map.
type RevocationList struct {
	mu sync.RWMutex
	m  map[string]time.Time
}

func NewRevocationList() *RevocationList {
	return &RevocationList{
		m: make(map[string]time.Time),
	}
}

func (l *RevocationList) Add(jti string, expiresAt time.Time) {
	if jti == "" {
		return
	}

	l.mu.Lock()
	l.m[jti] = expiresAt
	l.mu.Unlock()
}

func (l *RevocationList) Contains(jti string) bool {
	if jti == "" {
		return false
	}

	now := time.Now()

	l.mu.RLock()
	exp, ok := l.m[jti]
	l.mu.RUnlock()

	if !ok {
		return false
	}

	if now.After(exp) {
		l.mu.Lock()
		delete(l.m, jti)
		l.mu.Unlock()
		return false
	}

	return true
}

func (l *RevocationList) evictExpired() {
	now := time.Now()

	l.mu.Lock()
	for jti, exp := range l.m {
		if now.After(exp) {
			delete(l.m, jti)
		}
	}
	l.mu.Unlock()
}

// StartEviction sweeps expired entries until stop is closed.
func (l *RevocationList) StartEviction(interval time.Duration, stop <-chan struct{}) {
	if interval <= 0 {
		interval = time.Minute
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				l.evictExpired()
			}
		}
	}()
}
