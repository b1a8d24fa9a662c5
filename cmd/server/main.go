// The directory server: an encrypted user-directory service with
// role-based access control, plus an admin HTTP endpoint for probes
// and metrics.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/resign-hr/directory/internal/admin"
	"github.com/resign-hr/directory/internal/core/domain"
	"github.com/resign-hr/directory/internal/core/service"
	"github.com/resign-hr/directory/internal/hashing"
	"github.com/resign-hr/directory/internal/infrastructure/config"
	"github.com/resign-hr/directory/internal/infrastructure/store/badgerstore"
	"github.com/resign-hr/directory/internal/server"
	"github.com/resign-hr/directory/pkg/logger"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{})
		l := logger.Get()
		l.Fatal().Err(err).Msg("configuration")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	hasher := hashing.New(hashing.DefaultParams())

	store, err := badgerstore.Open(badgerstore.Options{
		Path:   cfg.DBPath,
		Hasher: hasher,
		Logger: log,
		Seed: []badgerstore.SeedAccount{
			{
				Username: cfg.Seed.User,
				Password: cfg.Seed.UserPassword,
				Phone:    cfg.Seed.UserPhone,
				Role:     domain.RoleStandardUser,
			},
			{
				Username: cfg.Seed.HR,
				Password: cfg.Seed.HRPassword,
				Phone:    cfg.Seed.HRPhone,
				Role:     domain.RoleHR,
			},
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("open user store")
	}
	defer store.Close()

	svc := service.NewDirectoryService(store, hasher, log)
	srv := server.New(svc, store, log)

	adminRouter := admin.NewRouter(store)
	go func() {
		log.Info().Str("addr", cfg.AdminAddr).Msg("admin endpoint listening")
		if err := adminRouter.Start(cfg.AdminAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("admin endpoint stopped")
		}
	}()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		log.Info().Msg("shutting down")
		_ = adminRouter.Shutdown(ctx)
		_ = srv.Close()
	}()

	if err := srv.ListenAndServeTLS(cfg.ListenAddr, cfg.CertPath, cfg.KeyPath); err != nil {
		log.Fatal().Err(err).Msg("directory server")
	}
	log.Info().Msg("bye")
}
