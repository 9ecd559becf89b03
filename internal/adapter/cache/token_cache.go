package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"textok/internal/domain"
	"textok/internal/port"
)

// TokenCache is an LRU cache of token sequences keyed by rule set hash and
// input text. Entries expire after ttl.
type TokenCache struct {
	lru *expirable.LRU[string, []string]

	hits   atomic.Uint64
	misses atomic.Uint64
}

func NewTokenCache(maxSize int, ttl time.Duration) *TokenCache {
	if maxSize <= 0 {
		maxSize = 1024
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &TokenCache{
		lru: expirable.NewLRU[string, []string](maxSize, nil, ttl),
	}
}

func cacheKey(ruleHash, text string) string {
	h := sha256.New()
	h.Write([]byte(ruleHash))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil)[:16])
}

// Get returns a copy of the cached tokens for text under the given rule set.
func (c *TokenCache) Get(ruleHash, text string) ([]string, bool) {
	tokens, ok := c.lru.Get(cacheKey(ruleHash, text))
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return copyTokens(tokens), true
}

func (c *TokenCache) Put(ruleHash, text string, tokens []string) {
	c.lru.Add(cacheKey(ruleHash, text), copyTokens(tokens))
}

func (c *TokenCache) Size() int {
	return c.lru.Len()
}

// Stats returns the hit and miss counters.
func (c *TokenCache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

func copyTokens(tokens []string) []string {
	out := make([]string, len(tokens))
	copy(out, tokens)
	return out
}

// CachedTokenizer memoizes a tokenizer's output. Callers always receive a
// slice they own.
type CachedTokenizer struct {
	tokenizer port.Tokenizer
	cache     *TokenCache
	ruleHash  string
}

func NewCachedTokenizer(tokenizer port.Tokenizer, cache *TokenCache) *CachedTokenizer {
	return &CachedTokenizer{
		tokenizer: tokenizer,
		cache:     cache,
		ruleHash:  tokenizer.RuleSet().Hash(),
	}
}

func (t *CachedTokenizer) Tokenize(text string) []string {
	if tokens, hit := t.cache.Get(t.ruleHash, text); hit {
		return tokens
	}

	tokens := t.tokenizer.Tokenize(text)
	t.cache.Put(t.ruleHash, text, tokens)
	return tokens
}

func (t *CachedTokenizer) CountTokens(text string) int {
	return len(t.Tokenize(text))
}

func (t *CachedTokenizer) RuleSet() domain.RuleSet {
	return t.tokenizer.RuleSet()
}

// Stats reports the underlying cache's hit and miss counters.
func (t *CachedTokenizer) Stats() (hits, misses uint64) {
	return t.cache.Stats()
}
