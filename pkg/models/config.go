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

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/orchardiq/linewatch/pkg/logger"
)

var errInvalidDuration = errors.New("invalid duration value")

// Duration is a time.Duration that unmarshals from either a JSON number
// (nanoseconds) or a Go duration string such as "30s".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		dur, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}

		*d = Duration(dur)

		return nil
	default:
		return errInvalidDuration
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// BrokerConfig configures the channel client.
type BrokerConfig struct {
	URL           string   `json:"url"`            // e.g. nats://127.0.0.1:4222
	ClientName    string   `json:"client_name"`    // connection name reported to the broker
	ReconnectWait Duration `json:"reconnect_wait"` // base delay between reconnect attempts
	MaxReconnects int      `json:"max_reconnects"` // <0 retries forever
	PublishFlush  Duration `json:"publish_flush"`  // flush timeout after a command publish
}

// SubjectConfig names the broker subjects the engine subscribes to and
// publishes on.
type SubjectConfig struct {
	ScriptStatus  string `json:"script_status"`
	SystemStatus  string `json:"system_status"`
	DetectResult  string `json:"detect_result"`
	DetectDetails string `json:"detect_details"`
	ScriptCommand string `json:"script_command"`
	SystemCommand string `json:"system_command"`
}

// DefaultSubjects returns the subject layout used by the field devices.
func DefaultSubjects() SubjectConfig {
	return SubjectConfig{
		ScriptStatus:  "factory.script.status",
		SystemStatus:  "factory.system.status",
		DetectResult:  "factory.detect.result",
		DetectDetails: "factory.detect.details",
		ScriptCommand: "factory.script.command",
		SystemCommand: "factory.system.command",
	}
}

// DatabaseConfig configures the pgx pool for the durable store.
type DatabaseConfig struct {
	Host            string            `json:"host"`
	Port            int               `json:"port"`
	Database        string            `json:"database"`
	Username        string            `json:"username"`
	Password        string            `json:"password"`
	SSLMode         string            `json:"ssl_mode"`
	ApplicationName string            `json:"application_name"`
	MaxConnections  int32             `json:"max_connections"`
	MinConnections  int32             `json:"min_connections"`
	MaxConnLifetime Duration          `json:"max_conn_lifetime"`
	RuntimeParams   map[string]string `json:"runtime_params,omitempty"`
}

// CORSConfig controls the origins allowed to call the collaborator API.
type CORSConfig struct {
	AllowedOrigins   []string `json:"allowed_origins"`
	AllowCredentials bool     `json:"allow_credentials"`
}

// EngineConfig is the top-level configuration for the linewatch engine.
type EngineConfig struct {
	ListenAddr string         `json:"listen_addr"`
	Broker     BrokerConfig   `json:"broker"`
	Database   DatabaseConfig `json:"database"`
	Subjects   SubjectConfig  `json:"subjects"`
	CORS       CORSConfig     `json:"cors"`
	Logging    *logger.Config `json:"logging,omitempty"`
}

// SetDefaults fills in zero-valued fields after decoding.
func (c *EngineConfig) SetDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = ":8090"
	}

	if c.Broker.URL == "" {
		c.Broker.URL = "nats://127.0.0.1:4222"
	}

	if c.Broker.ClientName == "" {
		c.Broker.ClientName = "linewatch-engine"
	}

	if c.Broker.ReconnectWait == 0 {
		c.Broker.ReconnectWait = Duration(2 * time.Second)
	}

	if c.Broker.MaxReconnects == 0 {
		c.Broker.MaxReconnects = -1
	}

	if c.Broker.PublishFlush == 0 {
		c.Broker.PublishFlush = Duration(5 * time.Second)
	}

	if (c.Subjects == SubjectConfig{}) {
		c.Subjects = DefaultSubjects()
	}

	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}

	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	if c.Database.ApplicationName == "" {
		c.Database.ApplicationName = "linewatch"
	}

	if c.Database.MaxConnections == 0 {
		c.Database.MaxConnections = 10
	}

	if c.Logging == nil {
		c.Logging = logger.DefaultConfig()
	}
}
