package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-monsoon/boundary"
	"go-monsoon/db"
)

// Health reports liveness plus a couple of cheap state probes.
func Health(c *gin.Context, users *db.UserStore, bounds *boundary.Store) {
	_, overlayLoaded := bounds.Current()
	status := gin.H{
		"status":           "ok",
		"registered_users": users.Count(),
		"boundary_loaded":  overlayLoaded,
	}
	if at := bounds.FetchedAt(); !at.IsZero() {
		status["boundary_fetched_at"] = at.UTC().Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, status)
}
