package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"farmer-market-web/internal/auth"
	"farmer-market-web/internal/config"
	"farmer-market-web/internal/logger"
	"farmer-market-web/internal/storage"
	"farmer-market-web/internal/stubapi"
	"farmer-market-web/internal/user"

	"go.uber.org/zap"
)

// stubPrefix keeps the user directory apart from session data when both
// processes share one backend.
const stubPrefix = "stub"

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	log := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	issuer, err := auth.NewIssuer(cfg.JWTSecret, 24*time.Hour)
	if err != nil {
		log.Fatal("failed to build token issuer", zap.Error(err))
	}

	backend, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal("failed to open storage", zap.Error(err))
	}
	defer backend.Close()

	svc := user.NewService(user.NewRepository(storage.Namespace(backend, stubPrefix)), issuer)

	srv := &http.Server{
		Addr:              ":" + cfg.StubPort,
		Handler:           stubapi.NewEngine(svc),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()

	log.Info("stub api running", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("stub api exited", zap.Error(err))
	}
}
