// SPDX-FileCopyrightText: Copyright 2026 Wristband, Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/wristband/go-service-auth/pkg/auth"
	"github.com/wristband/go-service-auth/pkg/bridge"
	"github.com/wristband/go-service-auth/pkg/logger"
	"github.com/wristband/go-service-auth/pkg/service"
	"github.com/wristband/go-service-auth/pkg/session"
	"github.com/wristband/go-service-auth/pkg/wristband"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the auth HTTP server",
	RunE:  serveCmdFunc,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host to bind the server to")
	serveCmd.Flags().IntVar(&servePort, "port", 6001, "Port to bind the server to")
}

func serveCmdFunc(cmd *cobra.Command, _ []string) error {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	store, err := session.NewStore(cfg.Session)
	if err != nil {
		return err
	}

	authClient, err := wristband.NewAuthClient(cfg.Auth)
	if err != nil {
		return err
	}

	authService := auth.NewService(auth.Config{Wristband: &cfg.JWT})
	authService.Register(auth.NewWristbandStrategy())

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(bridge.Middleware(authClient, store))
	r.Mount("/auth/wristband", service.NewHandler(authService).Routes())

	addr := net.JoinHostPort(serveHost, fmt.Sprintf("%d", servePort))
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Infow("starting auth server", "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down auth server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
