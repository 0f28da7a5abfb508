package service

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mmynk/personas/internal/persona"
)

// cacheKey addresses a group analysis (userID empty) or a member's profile
// within a group.
type cacheKey struct {
	groupID string
	userID  string
}

type cacheEntry struct {
	group   *persona.GroupResult
	profile *persona.Profile
}

// AnalysisCache holds results computed from stored group records. A size of
// zero disables caching.
//
// Every group has a generation that invalidate bumps. Readers capture it
// before loading records and hand it back when storing the result, so a
// result computed from records that a concurrent write has since changed is
// dropped instead of cached.
type AnalysisCache struct {
	lru *lru.Cache[cacheKey, cacheEntry]

	mu          sync.Mutex
	generations map[string]uint64
}

// NewAnalysisCache creates a cache holding up to size analyses.
func NewAnalysisCache(size int) (*AnalysisCache, error) {
	if size <= 0 {
		return &AnalysisCache{}, nil
	}
	c, err := lru.New[cacheKey, cacheEntry](size)
	if err != nil {
		return nil, err
	}
	return &AnalysisCache{lru: c, generations: make(map[string]uint64)}, nil
}

// generation returns groupID's current generation. Capture it before
// reading the group's records.
func (c *AnalysisCache) generation(groupID string) uint64 {
	if c.lru == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[groupID]
}

func (c *AnalysisCache) group(groupID string) (persona.GroupResult, bool) {
	if c.lru == nil {
		return persona.GroupResult{}, false
	}
	e, ok := c.lru.Get(cacheKey{groupID: groupID})
	if !ok || e.group == nil {
		return persona.GroupResult{}, false
	}
	return *e.group, true
}

func (c *AnalysisCache) putGroup(gen uint64, r persona.GroupResult) bool {
	return c.put(gen, cacheKey{groupID: r.GroupID}, cacheEntry{group: &r})
}

func (c *AnalysisCache) profile(groupID, userID string) (persona.Profile, bool) {
	if c.lru == nil {
		return persona.Profile{}, false
	}
	e, ok := c.lru.Get(cacheKey{groupID: groupID, userID: userID})
	if !ok || e.profile == nil {
		return persona.Profile{}, false
	}
	return *e.profile, true
}

func (c *AnalysisCache) putProfile(gen uint64, groupID string, p persona.Profile) bool {
	return c.put(gen, cacheKey{groupID: groupID, userID: p.UserID}, cacheEntry{profile: &p})
}

// put stores e unless the group was invalidated after gen was captured.
func (c *AnalysisCache) put(gen uint64, k cacheKey, e cacheEntry) bool {
	if c.lru == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[k.groupID] != gen {
		return false
	}
	c.lru.Add(k, e)
	return true
}

// invalidate drops every entry computed from groupID's records and makes
// results still being computed from them uncacheable.
func (c *AnalysisCache) invalidate(groupID string) {
	if c.lru == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[groupID]++
	for _, k := range c.lru.Keys() {
		if k.groupID == groupID {
			c.lru.Remove(k)
		}
	}
}

func (c *AnalysisCache) len() int {
	if c.lru == nil {
		return 0
	}
	return c.lru.Len()
}
