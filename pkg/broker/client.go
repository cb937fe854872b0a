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
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/orchardiq/linewatch/pkg/logger"
	"github.com/orchardiq/linewatch/pkg/models"
)

// ErrNotConnected is returned by Publish while the broker link is down.
// Commands are never queued for later delivery.
var ErrNotConnected = errors.New("broker not connected")

const defaultFlushTimeout = 5 * time.Second

// StateHandler is invoked on connectivity transitions. connected is the
// new link state.
type StateHandler func(connected bool)

// NatsClient is the nats.go-backed implementation of Client.
type NatsClient struct {
	nc           *nats.Conn
	logger       logger.Logger
	flushTimeout time.Duration

	stateMu sync.Mutex
	onState StateHandler
}

// Option mutates a NatsClient before it dials.
type Option func(*NatsClient)

// WithStateHandler registers a connectivity-transition callback. It runs
// on the NATS callback goroutine and must not block.
func WithStateHandler(h StateHandler) Option {
	return func(c *NatsClient) {
		c.onState = h
	}
}

// NewClient dials the broker. The connection retries forever in the
// background by default; the initial dial failing is still an error.
func NewClient(cfg *models.BrokerConfig, log logger.Logger, opts ...Option) (*NatsClient, error) {
	client := &NatsClient{
		logger:       log.WithComponent("broker"),
		flushTimeout: defaultFlushTimeout,
	}

	if cfg.PublishFlush > 0 {
		client.flushTimeout = time.Duration(cfg.PublishFlush)
	}

	for _, opt := range opts {
		opt(client)
	}

	nc, err := nats.Connect(cfg.URL, client.connectOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}

	client.nc = nc

	client.logger.Info().
		Str("url", nc.ConnectedUrl()).
		Str("client_name", cfg.ClientName).
		Msg("connected to broker")

	return client, nil
}

func (c *NatsClient) connectOptions(cfg *models.BrokerConfig) []nats.Option {
	reconnectWait := time.Duration(cfg.ReconnectWait)
	if reconnectWait <= 0 {
		reconnectWait = 2 * time.Second
	}

	return []nats.Option{
		nats.Name(cfg.ClientName),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ErrorHandler(func(_ *nats.Conn, sub *nats.Subscription, err error) {
			evt := c.logger.Error().Err(err)
			if sub != nil {
				evt = evt.Str("subject", sub.Subject)
			}

			evt.Msg("broker async error")
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			c.logger.Warn().Err(err).Msg("broker disconnected")
			c.notifyState(false)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			c.logger.Info().Str("url", nc.ConnectedUrl()).Msg("broker reconnected")
			c.notifyState(true)
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			c.logger.Info().Msg("broker connection closed")
		}),
	}
}

// SetStateHandler registers or replaces the connectivity-transition
// callback after the client is dialed. Use it when the handler's target
// is constructed after the client, so an early disconnect cannot race
// the wiring.
func (c *NatsClient) SetStateHandler(h StateHandler) {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()

	c.onState = h
}

func (c *NatsClient) notifyState(connected bool) {
	c.stateMu.Lock()
	h := c.onState
	c.stateMu.Unlock()

	if h != nil {
		h(connected)
	}
}

// Subscribe registers handler for subject.
func (c *NatsClient) Subscribe(subject string, handler MessageHandler) error {
	_, err := c.nc.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Subject, msg.Data)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}

	c.logger.Debug().Str("subject", subject).Msg("subscribed")

	return nil
}

// Publish sends data on subject and flushes so delivery failures surface
// to the caller instead of being silently buffered.
func (c *NatsClient) Publish(ctx context.Context, subject string, data []byte) error {
	if !c.nc.IsConnected() {
		return ErrNotConnected
	}

	if err := c.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}

	timeout := c.flushTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	if err := c.nc.FlushTimeout(timeout); err != nil {
		return fmt.Errorf("failed to flush publish to %s: %w", subject, err)
	}

	return nil
}

func (c *NatsClient) IsConnected() bool {
	return c.nc.IsConnected()
}

// Close drains pending messages and closes the connection.
func (c *NatsClient) Close() {
	if err := c.nc.Drain(); err != nil {
		c.logger.Warn().Err(err).Msg("broker drain failed, closing hard")
		c.nc.Close()
	}
}
