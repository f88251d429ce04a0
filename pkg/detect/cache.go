// ProtoShade Core
// Copyright (c) 2026 The ProtoShade Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of ProtoShade Core.
//
// ProtoShade Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// ProtoShade Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with ProtoShade Core.  If not, see <http://www.gnu.org/licenses/>.

package detect

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// DefaultCacheTTL is how long a detection result stays valid without an
// explicit invalidation event.
const DefaultCacheTTL = time.Hour

type cacheEntry struct {
	storedAt    time.Time
	fingerprint string
	result      DetectionResult
}

// ResultCache memoizes detection outcomes per target ID with a fixed TTL
// and explicit invalidation. Entries are immutable once written and
// replacement is idempotent, so concurrent callers can never corrupt state;
// singleflight merely keeps them from duplicating the scan work.
type ResultCache struct {
	clock   clockwork.Clock
	entries map[string]cacheEntry
	group   singleflight.Group
	ttl     time.Duration
	mu      sync.RWMutex
}

// NewResultCache creates a cache. A nil clock uses the real one.
func NewResultCache(clock clockwork.Clock, ttl time.Duration) *ResultCache {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &ResultCache{
		clock:   clock,
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

// GetOrCompute returns the cached result for the target, or runs compute
// and stores its outcome. A cached entry is served only while it is inside
// the TTL window and the descriptor fingerprint still matches; a renamed or
// moved install recomputes under the same target ID.
func (c *ResultCache) GetOrCompute(t TargetDescriptor, compute func() DetectionResult) DetectionResult {
	key := t.ID()
	fingerprint := t.Fingerprint()

	if result, ok := c.lookup(key, fingerprint); ok {
		log.Debug().Str("target", key).Msg("detection cache hit")
		return result
	}

	v, _, _ := c.group.Do(key, func() (any, error) {
		// Re-check under the flight: another caller may have just stored it.
		if result, ok := c.lookup(key, fingerprint); ok {
			return result, nil
		}

		result := compute()
		c.mu.Lock()
		c.entries[key] = cacheEntry{
			result:      result,
			fingerprint: fingerprint,
			storedAt:    c.clock.Now(),
		}
		c.mu.Unlock()
		return result, nil
	})

	result, ok := v.(DetectionResult)
	if !ok {
		// Unreachable: the flight only ever returns DetectionResult.
		return compute()
	}
	return result
}

func (c *ResultCache) lookup(key, fingerprint string) (DetectionResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok {
		return DetectionResult{}, false
	}
	if entry.fingerprint != fingerprint {
		return DetectionResult{}, false
	}
	if c.clock.Since(entry.storedAt) >= c.ttl {
		return DetectionResult{}, false
	}
	return entry.result, true
}

// Invalidate drops the entry for one target ID. Called on install and
// uninstall events for that game.
func (c *ResultCache) Invalidate(targetID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[targetID]; ok {
		delete(c.entries, targetID)
		log.Debug().Str("target", targetID).Msg("detection cache entry invalidated")
	}
}

// InvalidateAll drops every entry. Used when a whole library moves or a
// store root changes.
func (c *ResultCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.entries)
	c.entries = make(map[string]cacheEntry)
	if n > 0 {
		log.Debug().Int("entries", n).Msg("detection cache cleared")
	}
}

// Len reports the number of live entries, expired or not.
func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
