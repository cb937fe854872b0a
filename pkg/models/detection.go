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

// Detection result statuses published by the detection script.
const (
	DetectionNormal      = "Normal"
	DetectionDefective   = "Defective"
	DetectionSubstandard = "Substandard"
)

// DetectionRecord is one persisted detection event. The statistics
// aggregator folds over these rows.
type DetectionRecord struct {
	ID            int64     `json:"id"`
	DetectionTime time.Time `json:"detection_time"`
	Status        string    `json:"status"`
	DefectCount   int       `json:"defect_count"`
	DefectSummary string    `json:"defect_summary,omitempty"`
	ImageURL      string    `json:"image_url,omitempty"`
}

// ScriptStatusPayload is the JSON body on the script-status subject.
type ScriptStatusPayload struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// SystemStatusPayload is the JSON body on the system-status subject.
type SystemStatusPayload struct {
	Status string `json:"status"`
}

// DetectResultPayload is the JSON body on the detect-result subject.
type DetectResultPayload struct {
	Status      string `json:"status"`
	DefectCount int    `json:"defectCount"`
	Timestamp   string `json:"timestamp"`
}

// DetectDetailsPayload is the JSON body on the detect-details subject.
type DetectDetailsPayload struct {
	DetectionTime string `json:"detectionTime"`
	Status        string `json:"status"`
	DefectCount   int    `json:"defectCount"`
	DefectSummary string `json:"defectSummary"`
	ImageURL      string `json:"imageUrl,omitempty"`
}
