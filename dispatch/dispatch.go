// Package dispatch assembles reports and forwards them to the government
// endpoint.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"go-monsoon/config"
	"go-monsoon/metrics"
	"go-monsoon/types"
)

// wirePayload is the JSON document the government endpoint expects in the
// "payload" form field. An unresolved location sends all three fields as
// null, never omitted.
type wirePayload struct {
	ReportID  string       `json:"report_id"`
	User      string       `json:"user"`
	Message   string       `json:"message"`
	Severity  string       `json:"severity"`
	Location  wireLocation `json:"location"`
	Timestamp string       `json:"timestamp"`
}

type wireLocation struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Place     *string  `json:"place"`
}

// Dispatcher posts assembled reports. One attempt per call, never retried.
type Dispatcher struct {
	endpoint string
	client   *http.Client
}

func New(endpoint string) *Dispatcher {
	return &Dispatcher{
		endpoint: endpoint,
		client:   &http.Client{Timeout: config.SubmitTimeout},
	}
}

// NewReport stamps a report with a fresh ID and the current UTC time.
func NewReport(user, message string, sev types.Severity, loc types.LocationResult) types.Report {
	return types.Report{
		ID:        uuid.NewString(),
		User:      user,
		Message:   message,
		Severity:  sev,
		Location:  loc,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Send posts one report with its attachments as multipart form data. The
// outcome is always usable: a non-2xx answer and an unreachable endpoint
// both come back as classified outcomes, not raised errors.
func (d *Dispatcher) Send(ctx context.Context, report types.Report, attachments []types.Attachment) types.SubmitOutcome {
	body, contentType, err := encode(report, attachments)
	if err != nil {
		metrics.ObserveDispatch("encode_error", string(report.Severity))
		return types.SubmitOutcome{Kind: types.SubmitTransportError, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, body)
	if err != nil {
		return types.SubmitOutcome{Kind: types.SubmitTransportError, Err: err}
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := d.client.Do(req)
	if err != nil {
		log.Warnf("Report delivery failed: %v", err)
		metrics.ObserveDispatch("transport_error", string(report.Severity))
		return types.SubmitOutcome{Kind: types.SubmitTransportError, Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
		metrics.ObserveDispatch("success", string(report.Severity))
		return types.SubmitOutcome{Kind: types.SubmitSuccess, StatusCode: resp.StatusCode}
	}

	log.Warnf("Government endpoint answered %s", resp.Status)
	metrics.ObserveDispatch("non_fatal_status", string(report.Severity))
	return types.SubmitOutcome{Kind: types.SubmitNonFatalStatus, StatusCode: resp.StatusCode}
}

// encode renders the multipart body: a "payload" JSON text field plus the
// optional "image" and "file" binary parts.
func encode(report types.Report, attachments []types.Attachment) (*bytes.Buffer, string, error) {
	payload := wirePayload{
		ReportID:  report.ID,
		User:      report.User,
		Message:   report.Message,
		Severity:  string(report.Severity),
		Timestamp: report.Timestamp,
	}
	if p := report.Location.Place; p != "" {
		payload.Location.Place = &p
	}
	if c := report.Location.Coordinate; c != nil {
		payload.Location.Latitude = &c.Lat
		payload.Location.Longitude = &c.Lon
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, "", fmt.Errorf("encoding report payload: %w", err)
	}

	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	if err := w.WriteField("payload", string(payloadJSON)); err != nil {
		return nil, "", err
	}
	for _, att := range attachments {
		field := "file"
		if att.Kind == types.PrimaryPhoto {
			field = "image"
		}
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, att.Filename))
		header.Set("Content-Type", http.DetectContentType(att.Data))
		part, err := w.CreatePart(header)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(att.Data); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return body, w.FormDataContentType(), nil
}
