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

// Package core implements the state-reconciliation engine: it consumes
// field-device messages, maintains authoritative subsystem status,
// writes the audit trail, and raises notifications.
package core

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/orchardiq/linewatch/pkg/db"
	"github.com/orchardiq/linewatch/pkg/logger"
	"github.com/orchardiq/linewatch/pkg/models"
)

// repeatThreshold is how many identical command echoes are suppressed
// before one "same-state re-request" audit row is written.
const repeatThreshold = 2

//go:generate mockgen -destination=mock_core.go -package=core github.com/orchardiq/linewatch/pkg/core Notifier

// Notifier is the notification fan-out consumed by the reconciler.
// Implemented by notify.Hub.
type Notifier interface {
	Raise(ctx context.Context, typ models.NotificationType, title, message string)
}

// Reconciler owns the authoritative in-memory status of each monitored
// subsystem. Inbound messages must be delivered sequentially per
// subsystem; the engine routes all of them through one consumer
// goroutine.
type Reconciler struct {
	store    db.Service
	notifier Notifier
	intents  *IntentTracker
	logger   logger.Logger
	now      func() time.Time

	mu       sync.Mutex
	statuses map[models.Subsystem]string
}

// ReconcilerOption mutates Reconciler construction.
type ReconcilerOption func(*Reconciler)

// WithReconcilerClock injects the time source.
func WithReconcilerClock(now func() time.Time) ReconcilerOption {
	return func(r *Reconciler) {
		r.now = now
	}
}

func NewReconciler(store db.Service, notifier Notifier, log logger.Logger, opts ...ReconcilerOption) *Reconciler {
	r := &Reconciler{
		store:    store,
		notifier: notifier,
		intents:  NewIntentTracker(),
		logger:   log.WithComponent("reconciler"),
		now:      time.Now,
		statuses: map[models.Subsystem]string{
			models.SubsystemScript: models.StatusUninitialized,
			models.SubsystemSystem: models.StatusUninitialized,
		},
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Status returns the current status tag for a subsystem.
func (r *Reconciler) Status(subsystem models.Subsystem) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if status, ok := r.statuses[subsystem]; ok {
		return status
	}

	return models.StatusUninitialized
}

// NoteIntent records that a command was just issued, so the matching
// status echo is classified as user-requested rather than unsolicited.
func (r *Reconciler) NoteIntent(subsystem models.Subsystem, direction models.Direction) {
	r.intents.Issue(subsystem, direction)
}

// DropIntent clears a pending intent, used when the command publish
// failed after the intent was recorded.
func (r *Reconciler) DropIntent(subsystem models.Subsystem, direction models.Direction) {
	r.intents.Consume(subsystem, direction)
}

// HandleScriptStatus processes one message from the script-status subject.
func (r *Reconciler) HandleScriptStatus(ctx context.Context, data []byte) {
	var payload models.ScriptStatusPayload

	if err := json.Unmarshal(data, &payload); err != nil || payload.Status == "" {
		r.rejectPayload(ctx, models.SubsystemScript, data, err)
		return
	}

	r.reconcile(ctx, models.SubsystemScript, payload.Status, payload.Message)
	r.notifyScriptStatus(ctx, payload.Status, payload.Message)
}

// HandleSystemStatus processes one message from the system-status
// subject. Depending on the deployment the payload is either JSON or a
// bare status string.
func (r *Reconciler) HandleSystemStatus(ctx context.Context, data []byte) {
	observed := ""

	var payload models.SystemStatusPayload
	if err := json.Unmarshal(data, &payload); err == nil {
		observed = payload.Status
	} else {
		observed = strings.TrimSpace(string(data))
	}

	if observed == "" {
		r.rejectPayload(ctx, models.SubsystemSystem, data, nil)
		return
	}

	r.reconcile(ctx, models.SubsystemSystem, observed, "")
	r.notifySystemStatus(ctx, observed)
}

// HandleDetectResult processes one detection outcome. Detection results
// do not mutate subsystem state; they only raise notifications.
func (r *Reconciler) HandleDetectResult(ctx context.Context, data []byte) {
	var payload models.DetectResultPayload

	if err := json.Unmarshal(data, &payload); err != nil || payload.Status == "" {
		r.rejectPayload(ctx, models.SubsystemScript, data, err)
		return
	}

	switch payload.Status {
	case models.DetectionNormal:
		// Routine outcome, nothing to surface.
	case models.DetectionDefective:
		r.notifier.Raise(ctx, models.NotificationDefect, "Defect Detected",
			fmt.Sprintf("defective item detected (%d defects)", payload.DefectCount))
	case models.DetectionSubstandard:
		r.notifier.Raise(ctx, models.NotificationWarning, "Substandard Item",
			"substandard item detected")
	default:
		r.notifier.Raise(ctx, models.NotificationWarning, "Detection Result",
			fmt.Sprintf("unrecognized detection status %q", payload.Status))
	}
}

// HandleDetectDetails persists one full detection record. A storage
// failure is logged and the message is dropped; detection history is
// best-effort.
func (r *Reconciler) HandleDetectDetails(ctx context.Context, data []byte) {
	var payload models.DetectDetailsPayload

	if err := json.Unmarshal(data, &payload); err != nil || payload.Status == "" {
		r.rejectPayload(ctx, models.SubsystemScript, data, err)
		return
	}

	rec := &models.DetectionRecord{
		DetectionTime: r.parseEventTime(payload.DetectionTime),
		Status:        payload.Status,
		DefectCount:   payload.DefectCount,
		DefectSummary: payload.DefectSummary,
		ImageURL:      payload.ImageURL,
	}

	if err := r.store.InsertDetection(ctx, rec); err != nil {
		r.logger.Error().Err(err).
			Str("status", rec.Status).
			Msg("failed to persist detection record")
	}
}

// reconcile runs the transition function for one observed status.
func (r *Reconciler) reconcile(ctx context.Context, subsystem models.Subsystem, observed, memo string) {
	r.mu.Lock()
	current := r.statuses[subsystem]
	// Last-write-wins: out-of-order delivery is accepted.
	r.statuses[subsystem] = observed
	r.mu.Unlock()

	// Every status message settles the in-flight command, even one that
	// implies no direction; otherwise an intent issued before an error
	// report would survive it and misclassify the next change.
	pendingOn, pendingOff := r.intents.ConsumeAll(subsystem)

	direction, hasDirection := impliedDirection(subsystem, observed)

	wasPending := false
	if hasDirection {
		if direction == models.DirectionOn {
			wasPending = pendingOn
		} else {
			wasPending = pendingOff
		}
	}

	transition := models.TransitionDescriptor(current, observed)

	switch {
	case current == models.StatusUninitialized:
		// The first message ever is always an initialization, even
		// when an intent was pending for it.
		r.audit(ctx, models.CategoryStatusCheck, models.SubjectInitialized, transition, memo)
		r.notifier.Raise(ctx, deviceCategory(subsystem), subsystemTitle(subsystem),
			fmt.Sprintf("initialized with status %q", observed))

	case wasPending:
		if observed != current {
			r.audit(ctx, models.CategoryUserRequest, commandSubject(subsystem, direction), transition, memo)
			r.notifier.Raise(ctx, models.NotificationInfo, subsystemTitle(subsystem),
				fmt.Sprintf("status changed to %q on request", observed))
			r.intents.ResetRepeat(subsystem, direction)

			return
		}

		// Echo of a command that changed nothing. Suppress the first
		// few, then record one no-op row and start over.
		if r.intents.RepeatCount(subsystem, direction) < repeatThreshold {
			r.intents.BumpRepeat(subsystem, direction)
			return
		}

		r.audit(ctx, models.CategoryUserRequest, commandSubject(subsystem, direction), transition,
			"same-state re-request")
		r.notifier.Raise(ctx, models.NotificationInfo, subsystemTitle(subsystem),
			fmt.Sprintf("repeated request, already %q", observed))
		r.intents.ResetRepeat(subsystem, direction)

	case observed == models.StatusUnknown && current != models.StatusUnknown:
		r.audit(ctx, models.CategoryErrorDetected, models.SubjectErrorDetected, transition,
			"state unverifiable")
		r.notifier.Raise(ctx, models.NotificationError, subsystemTitle(subsystem),
			"state unverifiable")

	case observed != current:
		r.audit(ctx, models.CategoryStatusCheck, models.SubjectChangeDetected, transition, memo)
		r.notifier.Raise(ctx, changeSeverity(observed), subsystemTitle(subsystem),
			fmt.Sprintf("status changed outside linewatch: %s", transition))

	default:
		// Identical repeat with no pending intent. Nothing to record.
	}
}

// notifyScriptStatus raises the fixed per-status wording for the
// distinguished script tags. It runs on every script-status message,
// independent of how the transition was classified, so a device that
// keeps reporting the same condition keeps notifying operators.
func (r *Reconciler) notifyScriptStatus(ctx context.Context, status, message string) {
	switch status {
	case models.ScriptStatusAlreadyRun:
		r.notifier.Raise(ctx, models.NotificationDetector, "Detection Script",
			"detection script is already running")
	case models.ScriptStatusStoppedForced:
		r.notifier.Raise(ctx, models.NotificationDetector, "Detection Script",
			"detection script was force-stopped")
	case models.ScriptStatusNotRunning:
		r.notifier.Raise(ctx, models.NotificationDetector, "Detection Script",
			"detection script is not running or already stopped")
	case models.ScriptStatusError:
		r.notifier.Raise(ctx, models.NotificationError, "Detection Script Error",
			fmt.Sprintf("detection script error: %s", message))
	case models.ScriptStatusInitialized:
		r.notifier.Raise(ctx, models.NotificationInfo, "Detection Script",
			"detection script control channel connected")
	case models.ScriptStatusUnknownCmd:
		r.notifier.Raise(ctx, models.NotificationWarning, "Detection Script",
			fmt.Sprintf("unknown control command received: %s", message))
	case models.ScriptStatusWarning:
		r.notifier.Raise(ctx, models.NotificationWarning, "Detection Script Warning",
			fmt.Sprintf("detection script warning: %s", message))
	case models.ScriptStatusStarted, models.ScriptStatusRunning, models.ScriptStatusStopped,
		models.StatusUnknown:
		// Routine tags, and Unknown is already surfaced as Error Detected.
	default:
		r.logger.Warn().Str("status", status).Msg("unrecognized script status")
		r.notifier.Raise(ctx, models.NotificationWarning, "Detection Script",
			fmt.Sprintf("unrecognized detection script status %q (%s)", status, message))
	}
}

// notifySystemStatus warns on conveyor status tags outside the known set.
func (r *Reconciler) notifySystemStatus(ctx context.Context, status string) {
	switch status {
	case models.SystemStatusRunning, models.SystemStatusStopped, models.StatusUnknown:
	default:
		r.logger.Warn().Str("status", status).Msg("unrecognized conveyor status")
		r.notifier.Raise(ctx, models.NotificationWarning, "Conveyor System",
			fmt.Sprintf("unrecognized conveyor status %q", status))
	}
}

// audit appends one control log row. A storage failure is logged and
// reconciliation proceeds; an audit gap beats a stalled engine.
func (r *Reconciler) audit(ctx context.Context, category, subject, transition, memo string) {
	entry := models.NewControlLog(r.now(), category, subject, transition, memo)

	if err := r.store.AppendControlLog(ctx, entry); err != nil {
		r.logger.Error().Err(err).
			Str("category", category).
			Str("subject", subject).
			Msg("failed to append control log")
	}
}

// rejectPayload handles a structurally malformed message: log it, raise
// an error notification, and leave all state untouched.
func (r *Reconciler) rejectPayload(ctx context.Context, subsystem models.Subsystem, data []byte, err error) {
	r.logger.Warn().Err(err).
		Str("subsystem", string(subsystem)).
		Str("payload", string(data)).
		Msg("discarding malformed payload")

	r.notifier.Raise(ctx, models.NotificationError, subsystemTitle(subsystem),
		"received a malformed payload")
}

func (r *Reconciler) parseEventTime(value string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}

	return r.now()
}

// impliedDirection maps an observed status tag to the command direction
// that would produce it. Error and unknown tags imply no direction.
func impliedDirection(subsystem models.Subsystem, observed string) (models.Direction, bool) {
	switch subsystem {
	case models.SubsystemScript:
		switch observed {
		case models.ScriptStatusStarted, models.ScriptStatusRunning, models.ScriptStatusAlreadyRun:
			return models.DirectionOn, true
		case models.ScriptStatusStopped, models.ScriptStatusStoppedForced, models.ScriptStatusNotRunning:
			return models.DirectionOff, true
		}
	case models.SubsystemSystem:
		switch observed {
		case models.SystemStatusRunning:
			return models.DirectionOn, true
		case models.SystemStatusStopped:
			return models.DirectionOff, true
		}
	}

	return "", false
}

func commandSubject(subsystem models.Subsystem, direction models.Direction) string {
	switch {
	case subsystem == models.SubsystemScript && direction == models.DirectionOn:
		return models.SubjectScriptOn
	case subsystem == models.SubsystemScript && direction == models.DirectionOff:
		return models.SubjectScriptOff
	case subsystem == models.SubsystemSystem && direction == models.DirectionOn:
		return models.SubjectSystemOn
	default:
		return models.SubjectSystemOff
	}
}

// changeSeverity maps an unsolicited status tag to a notification
// severity. Devices report "Error" when a control action failed.
func changeSeverity(observed string) models.NotificationType {
	if observed == models.ScriptStatusError {
		return models.NotificationError
	}

	return models.NotificationWarning
}

func subsystemTitle(subsystem models.Subsystem) string {
	if subsystem == models.SubsystemScript {
		return "Detection Script"
	}

	return "Conveyor System"
}

func deviceCategory(subsystem models.Subsystem) models.NotificationType {
	if subsystem == models.SubsystemScript {
		return models.NotificationDetector
	}

	return models.NotificationConveyor
}
