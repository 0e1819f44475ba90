package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// problemDocument is the subset of a problem detail body this client reads.
type problemDocument struct {
	Detail string `json:"detail"`
}

// send performs the registration POST. 2xx and 3xx responses pass through.
// 400 and 401 carry a structured problem body the registry wants us to
// relay, so they come back as ErrIntegration rather than a transport
// failure. Everything else is ErrRemoteIntegrationFailed.
func (r *Registrar) send(ctx context.Context, registerURL string, headers http.Header, payload *Payload) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, NewProblem(ErrRemoteIntegrationFailed,
			fmt.Sprintf("could not encode registration payload: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, "POST", registerURL, bytes.NewReader(encoded))
	if err != nil {
		return nil, NewProblem(ErrRemoteIntegrationFailed,
			fmt.Sprintf("could not build request for %s: %v", registerURL, err))
	}
	req.Header.Set("Content-Type", "application/json")
	for name, values := range headers {
		for _, v := range values {
			req.Header.Set(name, v)
		}
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, NewProblem(ErrRemoteIntegrationFailed,
			fmt.Sprintf("registration request to %s failed: %v", registerURL, err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewProblem(ErrRemoteIntegrationFailed,
			fmt.Sprintf("could not read response from %s: %v", registerURL, err))
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 400:
		return body, nil

	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized:
		if strings.HasPrefix(resp.Header.Get("Content-Type"), ProblemMediaType) {
			var doc problemDocument
			if err := json.Unmarshal(body, &doc); err == nil && doc.Detail != "" {
				return nil, NewProblem(ErrIntegration, doc.Detail)
			}
		}
		return nil, NewProblem(ErrIntegration, string(body))

	default:
		return nil, NewProblem(ErrRemoteIntegrationFailed,
			fmt.Sprintf("unexpected status %d from %s", resp.StatusCode, registerURL))
	}
}
