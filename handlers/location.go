package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"go-monsoon/resolver"
	"go-monsoon/session"
	"go-monsoon/types"
)

// SaveBrowserFix stores the geolocation bridge's answer in the session:
// either a coordinate with its accuracy, or the reason there is none.
func SaveBrowserFix(c *gin.Context) {
	var req types.BrowserFixRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	fix := types.BrowserFix{ObtainedAt: time.Now().UTC()}
	if req.Latitude != nil && req.Longitude != nil {
		coord := types.Coordinate{Lat: *req.Latitude, Lon: *req.Longitude}
		if !coord.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "coordinates out of range"})
			return
		}
		fix.Coordinate = &coord
		fix.AccuracyM = req.AccuracyM
	} else {
		fix.Reason = parseFixReason(req.Error)
	}

	if err := session.SetBrowserFix(c, fix); err != nil {
		log.Printf("Could not store browser fix: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save position"})
		return
	}

	resp := gin.H{"saved": true, "has_fix": fix.OK()}
	if fix.OK() {
		resp["latitude"] = fix.Coordinate.Lat
		resp["longitude"] = fix.Coordinate.Lon
	} else {
		resp["reason"] = fix.Reason
	}
	c.JSON(http.StatusOK, resp)
}

// ClearBrowserFix discards the stored device position so the photos or the
// typed place decide again.
func ClearBrowserFix(c *gin.Context) {
	if err := session.ClearBrowserFix(c); err != nil {
		log.Printf("Could not clear browser fix: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not clear position"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"has_fix": false})
}

func parseFixReason(s string) types.FixReason {
	switch types.FixReason(s) {
	case types.FixNoSupport, types.FixPermissionDenied, types.FixTimeout:
		return types.FixReason(s)
	}
	return types.FixUnknown
}

// PreviewLocation runs location resolution on the form's current inputs so
// the page can draw the marker before anything is sent.
func PreviewLocation(c *gin.Context, res *resolver.Resolver) {
	camera, _, err := formFileBytes(c, "photo_camera")
	if err != nil {
		abortUpload(c, err)
		return
	}
	upload, _, err := formFileBytes(c, "photo_upload")
	if err != nil {
		abortUpload(c, err)
		return
	}

	var fix *types.BrowserFix
	if f, ok := session.BrowserFix(c); ok {
		fix = &f
	}

	loc := res.Resolve(c.Request.Context(), resolver.Input{
		Browser:   fix,
		Camera:    camera,
		Upload:    upload,
		PlaceText: c.PostForm("place"),
	})
	c.JSON(http.StatusOK, types.NewPreviewResponse(loc))
}
