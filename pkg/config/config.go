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

// Package config loads JSON service configuration from disk.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
)

var (
	errInvalidConfigPtr = errors.New("config must be a non-nil pointer")
	errLoadConfigFailed = errors.New("failed to load configuration")
)

// Defaulter is implemented by config structs that fill in zero-valued
// fields after decoding.
type Defaulter interface {
	SetDefaults()
}

// LoadFile reads the JSON file at path into cfg. cfg must be a non-nil
// pointer to a struct. If cfg implements Defaulter, SetDefaults runs
// after a successful decode.
func LoadFile(path string, cfg interface{}) error {
	v := reflect.ValueOf(cfg)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return errInvalidConfigPtr
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %w", errLoadConfigFailed, err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("%w: invalid JSON in %s: %w", errLoadConfigFailed, path, err)
	}

	if d, ok := cfg.(Defaulter); ok {
		d.SetDefaults()
	}

	return nil
}
