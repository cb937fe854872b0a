/*
 * Copyright 2025 Orchard IQ.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package core

import (
	"sync"

	"github.com/orchardiq/linewatch/pkg/models"
)

type intentKey struct {
	subsystem models.Subsystem
	direction models.Direction
}

// IntentTracker records pending command intents per (subsystem,
// direction) pair, plus a repeat counter used to suppress audit spam
// from echoed re-requests. Issue and Consume are atomic with respect
// to each other.
type IntentTracker struct {
	mu      sync.Mutex
	pending map[intentKey]bool
	repeats map[intentKey]int
}

func NewIntentTracker() *IntentTracker {
	return &IntentTracker{
		pending: make(map[intentKey]bool),
		repeats: make(map[intentKey]int),
	}
}

// Issue marks a command intent pending. Re-issuing while one is already
// pending is a no-op (last-write-wins).
func (t *IntentTracker) Issue(subsystem models.Subsystem, direction models.Direction) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.pending[intentKey{subsystem, direction}] = true
}

// Consume atomically reads and clears the pending flag, reporting
// whether an intent was pending.
func (t *IntentTracker) Consume(subsystem models.Subsystem, direction models.Direction) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := intentKey{subsystem, direction}
	was := t.pending[key]
	t.pending[key] = false

	return was
}

// ConsumeAll atomically clears every pending intent for a subsystem,
// reporting which directions were pending. Any status message settles
// whatever command was in flight, including error reports that imply
// no direction at all.
func (t *IntentTracker) ConsumeAll(subsystem models.Subsystem) (on, off bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	onKey := intentKey{subsystem, models.DirectionOn}
	offKey := intentKey{subsystem, models.DirectionOff}

	on, off = t.pending[onKey], t.pending[offKey]
	t.pending[onKey] = false
	t.pending[offKey] = false

	return on, off
}

// BumpRepeat increments the repeat counter and returns the new count.
func (t *IntentTracker) BumpRepeat(subsystem models.Subsystem, direction models.Direction) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := intentKey{subsystem, direction}
	t.repeats[key]++

	return t.repeats[key]
}

// RepeatCount returns the current repeat counter.
func (t *IntentTracker) RepeatCount(subsystem models.Subsystem, direction models.Direction) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.repeats[intentKey{subsystem, direction}]
}

// ResetRepeat zeroes the repeat counter.
func (t *IntentTracker) ResetRepeat(subsystem models.Subsystem, direction models.Direction) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.repeats[intentKey{subsystem, direction}] = 0
}
