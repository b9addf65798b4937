// Package cache holds translations already produced during the current
// session, keyed by language pair and normalized source text.
package cache

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"
)

// Cache is an in-memory translation cache. Entries persist until Clear is
// called; the owning controller clears it wholesale whenever the active
// language pair changes. There is no TTL and no size bound — a known
// limitation for very long sessions, kept to match observed behavior.
type Cache struct {
	mu      sync.Mutex
	entries map[string]string
}

func New() *Cache {
	return &Cache{entries: make(map[string]string)}
}

// Key builds the composite cache key for a language pair and source text.
// The text component is trimmed and NFC-normalized so recognizer output
// that differs only in Unicode composition hits the same entry.
func Key(sourceLang, targetLang, text string) string {
	return fmt.Sprintf("%s|%s|%s", sourceLang, targetLang, NormalizeText(text))
}

// NormalizeText trims whitespace and applies Unicode NFC normalization.
func NormalizeText(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}

func (c *Cache) Get(sourceLang, targetLang, text string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[Key(sourceLang, targetLang, text)]
	return v, ok
}

func (c *Cache) Put(sourceLang, targetLang, text, translated string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[Key(sourceLang, targetLang, text)] = translated
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]string)
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
