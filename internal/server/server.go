// Package server wires the HTTP surface of the referral balance API: routes,
// middleware chain, and server lifecycle.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abczzz13/referral-balance-api/internal/config"
	"github.com/abczzz13/referral-balance-api/internal/ipallow"
	"github.com/abczzz13/referral-balance-api/internal/referral"
)

// BalanceLister is the referral query service consumed by the balances
// handler.
type BalanceLister interface {
	ListBalances(ctx context.Context) ([]referral.Balance, error)
}

// Server is the HTTP server for the referral balance API.
type Server struct {
	listen          config.Listen
	shutdownTimeout time.Duration
	filter          *ipallow.Filter
	store           BalanceLister
	httpServer      *http.Server
}

// New creates a Server. The filter and store are constructed at startup and
// injected; the server holds no other state.
func New(cfg *config.Config, filter *ipallow.Filter, store BalanceLister) *Server {
	return &Server{
		listen:          cfg.Listen,
		shutdownTimeout: cfg.ShutdownTimeout,
		filter:          filter,
		store:           store,
	}
}

// Start runs the HTTP server and blocks until the context is cancelled, a
// SIGINT/SIGTERM arrives, or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         s.listen.Addr(),
		Handler:      s.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting server", "address", s.listen.Addr())
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.shutdown()
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig.String())
		return s.shutdown()
	case err := <-errChan:
		return err
	}
}

func (s *Server) shutdown() error {
	slog.Info("initiating graceful shutdown", "timeout", s.shutdownTimeout.String())

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
