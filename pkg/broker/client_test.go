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

package broker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orchardiq/linewatch/pkg/logger"
	"github.com/orchardiq/linewatch/pkg/models"
)

func TestNewClientBadURL(t *testing.T) {
	cfg := &models.BrokerConfig{URL: "not a url", ClientName: "test"}

	client, err := NewClient(cfg, logger.NewTestLogger())
	require.Error(t, err)
	assert.Nil(t, client)
}

func TestConnectOptionsDefaults(t *testing.T) {
	client := &NatsClient{logger: logger.NewTestLogger()}

	// One option per handler plus name, reconnect wait, and max reconnects.
	opts := client.connectOptions(&models.BrokerConfig{ClientName: "test"})
	assert.Len(t, opts, 7)
}

func TestWithStateHandler(t *testing.T) {
	var got []bool

	client := &NatsClient{logger: logger.NewTestLogger()}
	WithStateHandler(func(connected bool) {
		got = append(got, connected)
	})(client)

	client.notifyState(false)
	client.notifyState(true)

	assert.Equal(t, []bool{false, true}, got)
}

func TestSetStateHandlerAfterDial(t *testing.T) {
	client := &NatsClient{logger: logger.NewTestLogger()}

	// Transitions before the handler is wired are dropped, not queued.
	client.notifyState(false)

	var got []bool

	client.SetStateHandler(func(connected bool) {
		got = append(got, connected)
	})

	client.notifyState(true)

	assert.Equal(t, []bool{true}, got)
}

func TestNotifyStateNilHandler(t *testing.T) {
	client := &NatsClient{logger: logger.NewTestLogger()}

	// No handler registered; transitions are simply dropped.
	client.notifyState(true)
}
