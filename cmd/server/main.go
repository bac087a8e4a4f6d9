package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"

	"hadees/internal/app"
	"hadees/internal/handlers"
	"hadees/internal/routing"
)

const shutdownTimeout = 10 * time.Second

// Bismillah
func main() {
	configPath := flag.String("config", "config.yaml", "path to the config file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, *configPath)
	if err != nil {
		panic(err)
	}
	defer a.Close()

	svc, err := a.Service(ctx)
	if err != nil {
		a.Logger.Fatal("failed to build query service", zap.Error(err))
	}
	if count, err := a.Store.Count(ctx); err != nil {
		a.Logger.Warn("could not count indexed hadiths", zap.Error(err))
	} else if count == 0 {
		a.Logger.Warn("vector store is empty, run the indexer first")
	}

	e := routing.NewEcho(handlers.NewHandler(svc, a.Logger), a.Config.Server.AllowedOrigins, a.Logger)
	addr := net.JoinHostPort(a.Config.Server.Host, strconv.Itoa(a.Config.Server.Port))

	go func() {
		a.Logger.Info("server listening", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	a.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		a.Logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
