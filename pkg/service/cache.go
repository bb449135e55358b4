package service

import (
	"sync"
	"time"

	"github.com/brandops/automation/pkg/models"
)

// RuleCache caches enabled schedule rules in front of the store so a
// scheduler tick does not hit the database every time. Event-rule
// queries are name-filtered in SQL and stay uncached. Implementations
// must be safe for concurrent use.
type RuleCache interface {
	// GetScheduleRules returns cached rules, or nil on miss/expiry.
	GetScheduleRules() []models.Rule

	// SetScheduleRules stores the enabled schedule rules.
	SetScheduleRules(rules []models.Rule)

	// Invalidate clears the cache, forcing a refresh on next read.
	Invalidate()
}

// CacheConfig holds cache behavior settings.
type CacheConfig struct {
	// TTL is the time-to-live for cached entries. Zero disables
	// expiration (manual invalidation only).
	TTL time.Duration
}

func DefaultCacheConfig() CacheConfig {
	return CacheConfig{TTL: time.Minute}
}

// InMemoryRuleCache is the in-process RuleCache implementation.
type InMemoryRuleCache struct {
	rules    []models.Rule
	cachedAt time.Time
	config   CacheConfig
	isValid  bool
	mu       sync.RWMutex
}

func NewInMemoryRuleCache(config CacheConfig) *InMemoryRuleCache {
	return &InMemoryRuleCache{config: config}
}

func (c *InMemoryRuleCache) GetScheduleRules() []models.Rule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.isValid {
		return nil
	}
	if c.config.TTL > 0 && time.Since(c.cachedAt) > c.config.TTL {
		return nil
	}
	// Copy so callers cannot mutate the cached slice.
	out := make([]models.Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

func (c *InMemoryRuleCache) SetScheduleRules(rules []models.Rule) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rules = make([]models.Rule, len(rules))
	copy(c.rules, rules)
	c.cachedAt = time.Now()
	c.isValid = true
}

func (c *InMemoryRuleCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.isValid = false
	c.rules = nil
}
