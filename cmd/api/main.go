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
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/tally/internal/app"
	"github.com/MrJamesThe3rd/tally/internal/budget/autosave"
	"github.com/MrJamesThe3rd/tally/internal/config"
	tallyHttp "github.com/MrJamesThe3rd/tally/internal/http"
	budgetHandler "github.com/MrJamesThe3rd/tally/internal/http/budget"
	categoryHandler "github.com/MrJamesThe3rd/tally/internal/http/category"
	importHandler "github.com/MrJamesThe3rd/tally/internal/http/importcsv"
	txHandler "github.com/MrJamesThe3rd/tally/internal/http/transaction"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	clock := clockwork.NewRealClock()

	drafts := autosave.NewRegistry(a.Budgets, autosave.Config{
		Interval: cfg.Budget.Debounce,
		Timeout:  cfg.Server.Timeout,
		Clock:    clock,
	})
	defer drafts.CloseAll()

	var (
		categoryH    = categoryHandler.NewHandler(a.Categories)
		transactionH = txHandler.NewHandler(a.Transactions, a.Categories)
		budgetH      = budgetHandler.NewHandler(a.Budgets, drafts, clock)
		importH      = importHandler.NewHandler(a.Imports)
	)

	router := tallyHttp.New(tallyHttp.Options{
		AuthSecret:  cfg.Server.AuthSecret,
		CORSOrigins: cfg.Server.CORSOrigins,
		Timeout:     cfg.Server.Timeout,
	}, categoryH, transactionH, budgetH, importH)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		drafts.Run(gctx, cfg.Budget.DraftTTL)
		return nil
	})

	g.Go(func() error {
		slog.Info("starting server", "app", cfg.App.Name, "port", srv.Addr, "store", cfg.Store)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
		defer cancel()

		slog.Info("shutting down server")

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
