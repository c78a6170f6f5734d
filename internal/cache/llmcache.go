package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LLMCache stores model responses on disk keyed by a digest of model and
// prompt. A nil *LLMCache is a valid, always-missing cache.
type LLMCache struct {
	Dir string
	// StrictPerms enforces 0700 on the directory and 0600 on files.
	StrictPerms bool
}

// Entry is the on-disk record for a cached response.
type Entry struct {
	Model    string    `json:"model"`
	Response string    `json:"response"`
	SavedAt  time.Time `json:"savedAt"`
}

func (c *LLMCache) ensureDir() error {
	if c == nil || c.Dir == "" {
		return errors.New("cache dir not configured")
	}
	perm := os.FileMode(0o755)
	if c.StrictPerms {
		perm = 0o700
	}
	if err := os.MkdirAll(c.Dir, perm); err != nil {
		return err
	}
	if c.StrictPerms {
		if info, err := os.Stat(c.Dir); err == nil && info.Mode()&0o777 != 0o700 {
			_ = os.Chmod(c.Dir, 0o700)
		}
	}
	return nil
}

// KeyFrom builds a cache key from model and prompt.
func KeyFrom(model, prompt string) string {
	h := sha256.Sum256([]byte(model + "\n\n" + prompt))
	return hex.EncodeToString(h[:])
}

func (c *LLMCache) pathFor(key string) string {
	return filepath.Join(c.Dir, key+".json")
}

// Get returns cached bytes if present. A hit refreshes the file mtime so
// EnforceLimits evicts least recently used entries first.
func (c *LLMCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	if err := c.ensureDir(); err != nil {
		return nil, false, err
	}
	p := c.pathFor(key)
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, false, nil
	}
	now := time.Now()
	_ = os.Chtimes(p, now, now)
	return b, true, nil
}

// Save writes bytes to the cache.
func (c *LLMCache) Save(_ context.Context, key string, data []byte) error {
	if err := c.ensureDir(); err != nil {
		return err
	}
	mode := os.FileMode(0o644)
	if c.StrictPerms {
		mode = 0o600
	}
	return os.WriteFile(c.pathFor(key), data, mode)
}

// Lookup returns the cached response for model and prompt. Disabled caches
// and malformed entries are misses.
func (c *LLMCache) Lookup(ctx context.Context, model, prompt string) (string, bool) {
	if c == nil || c.Dir == "" {
		return "", false
	}
	raw, ok, err := c.Get(ctx, KeyFrom(model, prompt))
	if err != nil || !ok {
		return "", false
	}
	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil || strings.TrimSpace(e.Response) == "" {
		return "", false
	}
	return e.Response, true
}

// Store records response for model and prompt. No-op on a disabled cache.
func (c *LLMCache) Store(ctx context.Context, model, prompt, response string) error {
	if c == nil || c.Dir == "" {
		return nil
	}
	payload, err := json.Marshal(Entry{Model: model, Response: response, SavedAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	return c.Save(ctx, KeyFrom(model, prompt), payload)
}
