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

// Package models holds the shared domain and configuration types for linewatch.
package models

// Subsystem identifies a monitored external unit on the sorting line.
type Subsystem string

const (
	// SubsystemScript is the defect-detection script running on the camera node.
	SubsystemScript Subsystem = "script"
	// SubsystemSystem is the conveyor control system.
	SubsystemSystem Subsystem = "system"
)

// Direction is the commanded direction of a control request.
type Direction string

const (
	DirectionOn  Direction = "on"
	DirectionOff Direction = "off"
)

// Distinguished status tags. Subsystem status is otherwise free-form:
// the reconciler stores whatever tag the device reports.
const (
	// StatusUninitialized is the sentinel before the first message arrives.
	// It is never reported by a device.
	StatusUninitialized = "Uninitialized"

	// StatusUnknown is the error tag a device reports when it cannot
	// verify its own state.
	StatusUnknown = "Unknown"
)

// Known script status tags, as published by the detection script.
const (
	ScriptStatusStarted       = "Started"
	ScriptStatusRunning       = "Running"
	ScriptStatusAlreadyRun    = "Already Running"
	ScriptStatusStopped       = "Stopped"
	ScriptStatusStoppedForced = "Stopped (Forced)"
	ScriptStatusNotRunning    = "Not Running"
	ScriptStatusInitialized   = "Initialized"
	ScriptStatusError         = "Error"
	ScriptStatusWarning       = "Warning"
	ScriptStatusUnknownCmd    = "Unknown Command"
)

// Known conveyor status tags.
const (
	SystemStatusRunning = "running"
	SystemStatusStopped = "stopped"
)

// Command tokens published on the command subjects.
const (
	CommandStart         = "START"
	CommandStop          = "STOP"
	CommandStatusRequest = "status_request"
)
