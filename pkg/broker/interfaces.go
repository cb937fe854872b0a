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

// Package broker wraps the NATS connection shared by the engine and the
// field devices.
package broker

import "context"

//go:generate mockgen -destination=mock_broker.go -package=broker github.com/orchardiq/linewatch/pkg/broker Client

// MessageHandler receives one inbound broker message.
type MessageHandler func(subject string, data []byte)

// Client is the pub/sub surface the engine uses.
type Client interface {
	// Subscribe registers handler for subject. Handlers run on the
	// broker client's delivery goroutine.
	Subscribe(subject string, handler MessageHandler) error

	// Publish sends data on subject and flushes. It fails fast with
	// ErrNotConnected while the broker link is down.
	Publish(ctx context.Context, subject string, data []byte) error

	IsConnected() bool
	Close()
}
