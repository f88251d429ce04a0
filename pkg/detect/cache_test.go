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
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func foundResult(path string) DetectionResult {
	return DetectionResult{
		Status: StatusFound,
		Method: MethodHeuristic,
		Chosen: &ScoredCandidate{
			Candidate: CandidateExecutable{AbsolutePath: path},
			Score:     80,
		},
	}
}

func TestResultCache_SecondLookupSkipsCompute(t *testing.T) {
	t.Parallel()

	cache := NewResultCache(clockwork.NewFakeClock(), time.Hour)
	target := NewTarget("Arena", "/games/arena", "42")

	var calls atomic.Int32
	compute := func() DetectionResult {
		calls.Add(1)
		return foundResult("/games/arena/arena.exe")
	}

	first := cache.GetOrCompute(target, compute)
	second := cache.GetOrCompute(target, compute)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load())
}

func TestResultCache_TTLExpiry(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	cache := NewResultCache(clock, time.Hour)
	target := NewTarget("Arena", "/games/arena", "42")

	var calls atomic.Int32
	compute := func() DetectionResult {
		calls.Add(1)
		return foundResult("/games/arena/arena.exe")
	}

	cache.GetOrCompute(target, compute)
	clock.Advance(59 * time.Minute)
	cache.GetOrCompute(target, compute)
	assert.Equal(t, int32(1), calls.Load())

	clock.Advance(2 * time.Minute)
	cache.GetOrCompute(target, compute)
	assert.Equal(t, int32(2), calls.Load())
}

func TestResultCache_FingerprintChangeRecomputes(t *testing.T) {
	t.Parallel()

	cache := NewResultCache(clockwork.NewFakeClock(), time.Hour)

	var calls atomic.Int32
	compute := func() DetectionResult {
		calls.Add(1)
		return foundResult("/games/arena/arena.exe")
	}

	// Same app ID, renamed install directory: same cache key, different
	// fingerprint.
	cache.GetOrCompute(NewTarget("Arena", "/games/arena", "42"), compute)
	cache.GetOrCompute(NewTarget("Arena", "/mnt/library/arena", "42"), compute)

	assert.Equal(t, int32(2), calls.Load())
}

func TestResultCache_Invalidate(t *testing.T) {
	t.Parallel()

	cache := NewResultCache(clockwork.NewFakeClock(), time.Hour)
	target := NewTarget("Arena", "/games/arena", "42")
	other := NewTarget("Bastion", "/games/bastion", "7")

	var calls atomic.Int32
	compute := func() DetectionResult {
		calls.Add(1)
		return foundResult("/x.exe")
	}

	cache.GetOrCompute(target, compute)
	cache.GetOrCompute(other, compute)
	assert.Equal(t, 2, cache.Len())

	cache.Invalidate(target.ID())
	assert.Equal(t, 1, cache.Len())

	cache.GetOrCompute(target, compute)
	cache.GetOrCompute(other, compute)
	assert.Equal(t, int32(3), calls.Load())

	cache.InvalidateAll()
	assert.Zero(t, cache.Len())
}

func TestResultCache_ConcurrentComputeRunsOnce(t *testing.T) {
	t.Parallel()

	cache := NewResultCache(clockwork.NewFakeClock(), time.Hour)
	target := NewTarget("Arena", "/games/arena", "42")

	var calls atomic.Int32
	release := make(chan struct{})
	compute := func() DetectionResult {
		calls.Add(1)
		<-release
		return foundResult("/games/arena/arena.exe")
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cache.GetOrCompute(target, compute)
		}()
	}

	// Give the goroutines a moment to pile into the singleflight group.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}
