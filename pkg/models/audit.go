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

package models

import "time"

// Audit categories. Closed set: the dashboard filters on these values.
const (
	CategoryUserRequest   = "User Request"
	CategoryStatusCheck   = "Status Check"
	CategoryErrorDetected = "Error Detected"
)

// Audit subjects produced by the reconciler.
const (
	SubjectScriptOn       = "Script On"
	SubjectScriptOff      = "Script Off"
	SubjectSystemOn       = "System On"
	SubjectSystemOff      = "System Off"
	SubjectInitialized    = "Initialized"
	SubjectChangeDetected = "Change Detected"
	SubjectErrorDetected  = "Error Detected"
)

// ControlLog is one immutable audit row describing a state transition
// or anomaly. Rows are appended by the reconciler and never updated.
type ControlLog struct {
	ID         int64     `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Category   string    `json:"category"`
	Subject    string    `json:"subject"`
	Transition string    `json:"transition"` // "old→new", or an explicit error code
	Memo       string    `json:"memo,omitempty"`
}

// NewControlLog stamps a control log row with the given wall-clock time.
func NewControlLog(now time.Time, category, subject, transition, memo string) *ControlLog {
	return &ControlLog{
		Timestamp:  now,
		Category:   category,
		Subject:    subject,
		Transition: transition,
		Memo:       memo,
	}
}

// TransitionDescriptor renders the audit transition field for a state change.
func TransitionDescriptor(oldStatus, newStatus string) string {
	return oldStatus + "→" + newStatus
}
