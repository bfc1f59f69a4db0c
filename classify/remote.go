package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go-monsoon/types"
)

// Remote posts the report text to an external classification service and
// expects {"severity": "<word>"} back.
type Remote struct {
	url    string
	client *http.Client
}

func NewRemote(url string) *Remote {
	return &Remote{url: url, client: &http.Client{Timeout: 10 * time.Second}}
}

type remoteRequest struct {
	Message   string   `json:"message"`
	Filenames []string `json:"filenames"`
}

type remoteResponse struct {
	Severity string `json:"severity"`
}

func (r *Remote) Classify(ctx context.Context, message string, filenames []string) (types.Severity, error) {
	payloadBytes, err := json.Marshal(remoteRequest{Message: message, Filenames: filenames})
	if err != nil {
		return types.Auto, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return types.Auto, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return types.Auto, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.Auto, errors.New("classifier returned status: " + resp.Status)
	}

	var out remoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return types.Auto, err
	}

	sev := types.ParseSeverity(out.Severity)
	if sev == types.Auto {
		return types.Auto, fmt.Errorf("unrecognized severity %q from classifier", out.Severity)
	}
	return sev, nil
}
