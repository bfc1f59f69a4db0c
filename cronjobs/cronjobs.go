package cronjobs

import (
	"context"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"go-monsoon/boundary"
	"go-monsoon/config"
)

// InitCronJobs starts the background schedule. Right now that is a single
// job keeping the district boundary overlay fresh.
func InitCronJobs(cfg *config.Config, boundaries *boundary.Store) *cron.Cron {
	log.Println("Starting Cron Jobs -------------------------------------------------------")
	c := cron.New()

	_, err := c.AddFunc(cfg.BoundaryRefreshSpec, func() {
		log.Println("CronJob: refreshing district boundary overlay")
		ctx, cancel := context.WithTimeout(context.Background(), config.BoundaryTimeout)
		defer cancel()
		if err := boundaries.Refresh(ctx); err != nil {
			log.Printf("Error refreshing boundary overlay: %v", err)
		}
	})
	if err != nil {
		log.Println("Error scheduling boundary refresh:", err)
	}

	c.Start()
	return c
}
