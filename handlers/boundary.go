package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"go-monsoon/boundary"
	"go-monsoon/config"
)

// GetBoundary serves the cached district overlay for the map. If the
// startup fetch never succeeded it tries once more inline before giving up.
func GetBoundary(c *gin.Context, store *boundary.Store) {
	data, ok := store.Current()
	if !ok {
		ctx, cancel := context.WithTimeout(c.Request.Context(), config.BoundaryTimeout)
		defer cancel()
		if err := store.Refresh(ctx); err != nil {
			log.Printf("Boundary overlay still unavailable: %v", err)
			c.JSON(http.StatusNotFound, gin.H{"error": "district boundaries unavailable"})
			return
		}
		data, _ = store.Current()
	}
	c.Data(http.StatusOK, "application/geo+json", data)
}
