package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fastprodman/stakehouse/internal/api"
	"github.com/fastprodman/stakehouse/internal/engine"
	"github.com/fastprodman/stakehouse/internal/infra/logging"
	"github.com/fastprodman/stakehouse/internal/infra/pgutils"
	"github.com/fastprodman/stakehouse/internal/minter/token"
	"github.com/fastprodman/stakehouse/internal/registry/memory"
	"github.com/fastprodman/stakehouse/pkg/envconf"
	"github.com/fastprodman/stakehouse/pkg/shutdownqueue"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running api: %v", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

func run(ctx context.Context) (retErr error) {
	cfg := new(apiConfig)

	err := envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	logging.SetupJSON(cfg.LogLevel)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		serr := shutdownqueue.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	// --- Infra ---
	dbConns, err := pgutils.OpenDB(ctx, cfg.PGDSN, cfg.Postgres.pool())
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}

	shutdownqueue.Add(func(context.Context) error {
		return dbConns.Close()
	})

	// --- Engine + collaborators ---
	eng := engine.New(dbConns, cfg.Owner)

	// In-process pegged token and identity registry. A deployment with a
	// real issuer/registry would link those here instead.
	tok := token.New()

	// The custody counter survives restarts in the database; the token
	// does not. Re-issue the persisted custody so burns keep working.
	snap, err := eng.Stats(ctx)
	if err != nil {
		return fmt.Errorf("read platform stats: %w", err)
	}

	if snap.PeggedCustody > 0 {
		err = tok.Mint(ctx, engine.CustodyHolder, snap.PeggedCustody)
		if err != nil {
			return fmt.Errorf("restore custody: %w", err)
		}
	}

	err = eng.Link(ctx, cfg.Owner, tok, memory.New())
	if err != nil {
		return fmt.Errorf("link collaborators: %w", err)
	}

	if cfg.Treasury != "" {
		err = eng.SetTreasury(ctx, cfg.Owner, cfg.Treasury)
		if err != nil {
			return fmt.Errorf("set treasury: %w", err)
		}
	}

	// --- HTTP server ---
	srv := api.NewServer(cfg.Port, eng)

	// Register HTTP server graceful shutdown
	shutdownqueue.Add(func(c context.Context) error {
		slog.Info("Shut down server")

		err := srv.Shutdown(c)
		if err != nil {
			return fmt.Errorf("shutdown srv: %w", err)
		}

		return nil
	})

	// Run server
	errCh := make(chan error, 1)

	go func() {
		serr := srv.ListenAndServe()
		// http.ErrServerClosed is the normal path during Shutdown
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			errCh <- serr
			return
		}

		errCh <- nil
	}()

	slog.Info("API started", "port", cfg.Port, "owner", cfg.Owner)

	// --- Wait until either context cancels or server errors out ---
	select {
	case <-ctx.Done():
		// graceful path; deferred shutdownqueue.Shutdown will run
		return nil
	case serr := <-errCh:
		if serr != nil {
			return fmt.Errorf("server error: %w", serr)
		}

		return nil
	}
}
