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

// NotificationType classifies a notification for icon/severity rendering.
// The set is closed: consumers switch exhaustively on it.
type NotificationType string

const (
	NotificationInfo     NotificationType = "INFO"
	NotificationWarning  NotificationType = "WARNING"
	NotificationError    NotificationType = "ERROR"
	NotificationSuccess  NotificationType = "SUCCESS"
	NotificationConveyor NotificationType = "CONVEYOR"
	NotificationDetector NotificationType = "DETECTOR"
	NotificationDefect   NotificationType = "DEFECT_DETECTED"
	NotificationBroker   NotificationType = "BROKER"
)

// Notification is one row pushed to live viewers and kept for the
// notification drawer. Rows are soft-deleted via Visible, never removed.
type Notification struct {
	ID        int64            `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	CreatedAt time.Time        `json:"created_at"`
	Read      bool             `json:"read"`
	Visible   bool             `json:"visible"`
}
