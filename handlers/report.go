package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"go-monsoon/classify"
	"go-monsoon/dispatch"
	"go-monsoon/resolver"
	"go-monsoon/session"
	"go-monsoon/types"
)

// Attachments are held in memory only for the life of the request.
const maxUploadBytes = 16 << 20

// SubmitReport assembles one report from the form, resolves its location,
// classifies it when the user left severity on auto, and forwards it.
func SubmitReport(c *gin.Context, res *resolver.Resolver, cls classify.Classifier, disp *dispatch.Dispatcher) {
	user, ok := session.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
		return
	}

	message := strings.TrimSpace(c.PostForm("message"))
	if message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	camera, cameraName, err := formFileBytes(c, "photo_camera")
	if err != nil {
		abortUpload(c, err)
		return
	}
	photo, photoName, err := formFileBytes(c, "photo_upload")
	if err != nil {
		abortUpload(c, err)
		return
	}
	extra, extraName, err := formFileBytes(c, "file")
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
		Upload:    photo,
		PlaceText: c.PostForm("place"),
	})

	sev := types.ParseSeverity(c.PostForm("severity"))
	if sev == types.Auto {
		var names []string
		for _, n := range []string{cameraName, photoName, extraName} {
			if n != "" {
				names = append(names, n)
			}
		}
		classified, err := cls.Classify(c.Request.Context(), message, names)
		if err != nil {
			log.Printf("Severity classification failed: %v", err)
			classified = types.Yellow
		}
		sev = classified
	}

	// The camera capture claims the photo slot when both photos exist.
	var attachments []types.Attachment
	switch {
	case len(camera) > 0:
		attachments = append(attachments, types.Attachment{Filename: cameraName, Data: camera, Kind: types.PrimaryPhoto})
	case len(photo) > 0:
		attachments = append(attachments, types.Attachment{Filename: photoName, Data: photo, Kind: types.PrimaryPhoto})
	}
	if len(extra) > 0 {
		attachments = append(attachments, types.Attachment{Filename: extraName, Data: extra, Kind: types.SupplementaryFile})
	}

	report := dispatch.NewReport(user, message, sev, loc)
	log.Printf("Dispatching report %s from %s, severity %s (location source: %s)", report.ID, user, sev, locSource(loc))
	outcome := disp.Send(c.Request.Context(), report, attachments)

	resp := types.SubmitResponse{
		ReportID: report.ID,
		Severity: string(sev),
		Marker:   sev.MarkerColor(),
	}
	switch outcome.Kind {
	case types.SubmitSuccess:
		resp.Status = "sent"
		resp.StatusCode = outcome.StatusCode
		resp.Message = "Report sent to the government endpoint"
		c.JSON(http.StatusOK, resp)
	case types.SubmitNonFatalStatus:
		resp.Status = "warning"
		resp.StatusCode = outcome.StatusCode
		resp.Message = fmt.Sprintf("Report submitted but the endpoint answered status %d", outcome.StatusCode)
		c.JSON(http.StatusOK, resp)
	default:
		resp.Status = "error"
		resp.Message = "Could not reach the government endpoint"
		c.JSON(http.StatusBadGateway, resp)
	}
}

func locSource(loc types.LocationResult) string {
	if loc.Source == "" {
		return "unresolved"
	}
	return loc.Source
}

var errUploadTooLarge = errors.New("uploaded file is too large")

// formFileBytes reads one optional uploaded file fully into memory. A
// missing part is a nil slice, not an error; a part that fails to open or
// read is, so a half-transferred photo never silently loses its EXIF
// position or its slot.
func formFileBytes(c *gin.Context, field string) ([]byte, string, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("reading uploaded %s: %w", field, err)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, "", fmt.Errorf("opening uploaded %s: %w", field, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("reading uploaded %s: %w", field, err)
	}
	if len(data) > maxUploadBytes {
		return nil, "", errUploadTooLarge
	}
	return data, filepath.Base(fh.Filename), nil
}

// abortUpload answers a failed upload read: oversized parts get a 413,
// anything else a 400.
func abortUpload(c *gin.Context, err error) {
	status := http.StatusBadRequest
	if errors.Is(err, errUploadTooLarge) {
		status = http.StatusRequestEntityTooLarge
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
