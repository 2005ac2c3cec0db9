package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/yasminebennouis/app-reclamations/internal/config"
	"github.com/yasminebennouis/app-reclamations/internal/database"
	"github.com/yasminebennouis/app-reclamations/internal/models"
	"github.com/yasminebennouis/app-reclamations/internal/repository"
	"github.com/yasminebennouis/app-reclamations/internal/repository/memory"
	"github.com/yasminebennouis/app-reclamations/internal/repository/postgres"
	"github.com/yasminebennouis/app-reclamations/internal/router"
	"github.com/yasminebennouis/app-reclamations/internal/service"
	"github.com/yasminebennouis/app-reclamations/internal/utils"
	"github.com/yasminebennouis/app-reclamations/pkg/logger"
)

func main() {
	cfg := config.Load()
	l := logger.New(cfg.Env)

	var (
		users repository.UserRepository
		recs  repository.ReclamationRepository
	)
	if cfg.DBURL != "" {
		pool, err := database.Open(context.Background(), cfg)
		if err != nil {
			l.Fatal().Err(err).Msg("db connect failed")
		}
		defer pool.Close()
		users = postgres.NewUserRepo(pool)
		recs = postgres.NewReclamationRepo(pool)
		l.Info().Msg("using postgres store")
	} else {
		store := memory.NewStore()
		users = store.Users()
		recs = store.Reclamations()
		seedDemoUsers(l, users)
		l.Info().Msg("no DB_DSN set, using in-memory store")
	}

	auth := service.NewAuthService(users, cfg.Secret)
	recSvc := service.NewReclamationService(recs, users, cfg.UploadDir, l)

	r := router.New(l, auth, recSvc, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		l.Info().Str("addr", srv.Addr).Msg("api listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Fatal().Err(err).Msg("server error")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	l.Info().Msg("shutdown complete")
}

// seedDemoUsers provisions the demo accounts the in-memory store starts
// with: one requester, one technician per service, one admin. Password is
// "1234" everywhere.
func seedDemoUsers(l zerolog.Logger, users repository.UserRepository) {
	hash, err := utils.HashPassword("1234")
	if err != nil {
		l.Fatal().Err(err).Msg("seed hash failed")
	}

	it := models.ServiceIT
	eq := models.ServiceEquipement
	infra := models.ServiceInfrastructure
	seed := []models.User{
		{Username: "dem1", Role: models.RoleDemandeur},
		{Username: "tech1", Role: models.RoleTechnicien, Service: &it},
		{Username: "tech2", Role: models.RoleTechnicien, Service: &eq},
		{Username: "tech3", Role: models.RoleTechnicien, Service: &infra},
		{Username: "admin1", Role: models.RoleAdmin},
	}
	for i := range seed {
		if err := users.Create(context.Background(), &seed[i], hash); err != nil {
			l.Fatal().Err(err).Str("username", seed[i].Username).Msg("seed user failed")
		}
	}
}
