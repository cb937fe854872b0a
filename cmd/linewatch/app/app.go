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

// Package app boots the linewatch engine: storage, broker, reconciler,
// notification hub, and the HTTP API, with ordered shutdown.
package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/orchardiq/linewatch/pkg/broker"
	"github.com/orchardiq/linewatch/pkg/config"
	"github.com/orchardiq/linewatch/pkg/core"
	"github.com/orchardiq/linewatch/pkg/core/api"
	"github.com/orchardiq/linewatch/pkg/db"
	"github.com/orchardiq/linewatch/pkg/logger"
	"github.com/orchardiq/linewatch/pkg/models"
	"github.com/orchardiq/linewatch/pkg/notify"
)

// Options contains runtime configuration derived from CLI flags.
type Options struct {
	ConfigPath string
}

// Run boots the engine and blocks until the process is signaled or a
// component fails.
func Run(ctx context.Context, opts Options) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var cfg models.EngineConfig
	if err := config.LoadFile(opts.ConfigPath, &cfg); err != nil {
		return err
	}

	mainLogger, err := logger.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, &cfg.Database, mainLogger)
	if err != nil {
		return err
	}

	if err := db.RunMigrations(ctx, pool, mainLogger); err != nil {
		pool.Close()
		return err
	}

	store := db.NewStore(pool, mainLogger)
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			mainLogger.Warn().Err(closeErr).Msg("error closing store")
		}
	}()

	hub := notify.NewHub(store, mainLogger)

	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()

	go hub.Run(hubCtx)

	brk, err := broker.NewClient(&cfg.Broker, mainLogger)
	if err != nil {
		return err
	}
	defer brk.Close()

	srv := core.NewServer(cfg.Subjects, brk, store, hub, mainLogger)

	// Wired after construction so a disconnect during startup cannot
	// observe a half-built server.
	brk.SetStateHandler(srv.SetConnected)
	if err := srv.Start(ctx); err != nil {
		return err
	}

	apiServer := api.NewAPIServer(srv, hub, mainLogger, api.WithCORSConfig(cfg.CORS))

	errCh := make(chan error, 1)

	go func() {
		errCh <- apiServer.Start(cfg.ListenAddr)
	}()

	select {
	case <-ctx.Done():
		mainLogger.Info().Msg("shutdown signal received")
	case err = <-errCh:
		if err != nil {
			return fmt.Errorf("api server failed: %w", err)
		}

		return nil
	}

	if err := apiServer.Stop(context.Background()); err != nil {
		mainLogger.Error().Err(err).Msg("api server shutdown failed")
	}

	return nil
}
