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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/orchardiq/linewatch/pkg/models"
)

func TestIntentIssueConsume(t *testing.T) {
	tracker := NewIntentTracker()

	assert.False(t, tracker.Consume(models.SubsystemScript, models.DirectionOn))

	tracker.Issue(models.SubsystemScript, models.DirectionOn)
	assert.True(t, tracker.Consume(models.SubsystemScript, models.DirectionOn))

	// Consume clears the flag.
	assert.False(t, tracker.Consume(models.SubsystemScript, models.DirectionOn))
}

func TestIntentDoubleIssueIsIdempotent(t *testing.T) {
	tracker := NewIntentTracker()

	tracker.Issue(models.SubsystemSystem, models.DirectionOff)
	tracker.Issue(models.SubsystemSystem, models.DirectionOff)

	assert.True(t, tracker.Consume(models.SubsystemSystem, models.DirectionOff))
	assert.False(t, tracker.Consume(models.SubsystemSystem, models.DirectionOff))
}

func TestIntentPairsAreIndependent(t *testing.T) {
	tracker := NewIntentTracker()

	tracker.Issue(models.SubsystemScript, models.DirectionOn)

	assert.False(t, tracker.Consume(models.SubsystemScript, models.DirectionOff))
	assert.False(t, tracker.Consume(models.SubsystemSystem, models.DirectionOn))
	assert.True(t, tracker.Consume(models.SubsystemScript, models.DirectionOn))
}

func TestConsumeAllClearsBothDirections(t *testing.T) {
	tracker := NewIntentTracker()

	on, off := tracker.ConsumeAll(models.SubsystemScript)
	assert.False(t, on)
	assert.False(t, off)

	tracker.Issue(models.SubsystemScript, models.DirectionOn)
	tracker.Issue(models.SubsystemScript, models.DirectionOff)
	tracker.Issue(models.SubsystemSystem, models.DirectionOn)

	on, off = tracker.ConsumeAll(models.SubsystemScript)
	assert.True(t, on)
	assert.True(t, off)

	// Both cleared; the other subsystem is untouched.
	assert.False(t, tracker.Consume(models.SubsystemScript, models.DirectionOn))
	assert.False(t, tracker.Consume(models.SubsystemScript, models.DirectionOff))
	assert.True(t, tracker.Consume(models.SubsystemSystem, models.DirectionOn))
}

func TestRepeatCounter(t *testing.T) {
	tracker := NewIntentTracker()

	assert.Equal(t, 0, tracker.RepeatCount(models.SubsystemScript, models.DirectionOn))
	assert.Equal(t, 1, tracker.BumpRepeat(models.SubsystemScript, models.DirectionOn))
	assert.Equal(t, 2, tracker.BumpRepeat(models.SubsystemScript, models.DirectionOn))
	assert.Equal(t, 2, tracker.RepeatCount(models.SubsystemScript, models.DirectionOn))

	tracker.ResetRepeat(models.SubsystemScript, models.DirectionOn)
	assert.Equal(t, 0, tracker.RepeatCount(models.SubsystemScript, models.DirectionOn))
}

func TestIntentConcurrentIssueConsume(t *testing.T) {
	tracker := NewIntentTracker()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		consumed int
	)

	for i := 0; i < 50; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()
			tracker.Issue(models.SubsystemScript, models.DirectionOn)
		}()

		go func() {
			defer wg.Done()

			if tracker.Consume(models.SubsystemScript, models.DirectionOn) {
				mu.Lock()
				consumed++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	// Every consumed flag was set by exactly one issue; the final
	// pending state drains to at most one more.
	if tracker.Consume(models.SubsystemScript, models.DirectionOn) {
		consumed++
	}

	assert.LessOrEqual(t, consumed, 50)
	assert.False(t, tracker.Consume(models.SubsystemScript, models.DirectionOn))
}
