// Package cache stores LLM completions so repeated collection runs do not
// pay for the same prompt twice.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// CacheKey derives a stable key from the parts identifying one completion
// (provider, model, prompt id, prompt text, run number)
func CacheKey(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return "biaslab:v1:" + hex.EncodeToString(hash[:])
}

// Noop is a Cache that stores nothing, used when caching is disabled
type Noop struct{}

func (Noop) Get(string) ([]byte, bool)                { return nil, false }
func (Noop) Set(string, []byte, time.Duration) error { return nil }
func (Noop) Delete(string) error                      { return nil }
func (Noop) Clear() error                             { return nil }
