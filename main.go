package main

import (
	"context"

	log "github.com/sirupsen/logrus"

	"go-monsoon/boundary"
	"go-monsoon/classify"
	"go-monsoon/config"
	"go-monsoon/cronjobs"
	"go-monsoon/db"
	"go-monsoon/dispatch"
	"go-monsoon/geocode"
	"go-monsoon/logger"
	"go-monsoon/resolver"
	"go-monsoon/routes"
)

func main() {
	cfg := config.Load()
	logger.Setup(cfg.LogLevel, cfg.LogFilename, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays)

	users, err := db.InitUserStore(cfg.UsersFile)
	if err != nil {
		log.Fatalf("Failed to open user store: %v", err)
	}
	log.Printf("User store ready (%d registered users)", users.Count())

	geo, err := geocode.New(cfg)
	if err != nil {
		log.Fatalf("Failed to build geocoder: %v", err)
	}

	bounds := boundary.NewStore(cfg.BoundaryURL)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), config.BoundaryTimeout)
		defer cancel()
		if err := bounds.Refresh(ctx); err != nil {
			log.Printf("Initial boundary overlay fetch failed: %v", err)
		}
	}()

	cronRunner := cronjobs.InitCronJobs(cfg, bounds)
	defer cronRunner.Stop()

	r := routes.SetupRouter(
		cfg,
		users,
		resolver.New(geo),
		classify.New(cfg),
		dispatch.New(cfg.GovernmentEndpoint),
		bounds,
	)
	log.Printf("Listening on %s", cfg.Addr)
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
