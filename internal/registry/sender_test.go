package registry

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"circstack/internal/db"
)

func sendTo(t *testing.T, handler http.HandlerFunc, headers http.Header) ([]byte, error) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	payload := &Payload{URL: "http://circ/lib/authentication_document", Stage: db.StageTesting}
	return NewRegistrar(&fakeStore{}, nil).send(context.Background(), server.URL, headers, payload)
}

func TestSend(t *testing.T) {
	t.Run("posts JSON payload with headers", func(t *testing.T) {
		var gotBody Payload
		var gotAuth, gotContentType string
		headers := http.Header{}
		headers.Set("Authorization", "Bearer existing-secret")

		body, err := sendTo(t, func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotContentType = r.Header.Get("Content-Type")
			json.NewDecoder(r.Body).Decode(&gotBody)
			w.Write([]byte(`{"ok":true}`))
		}, headers)
		if err != nil {
			t.Fatalf("send() error = %v", err)
		}

		if gotAuth != "Bearer existing-secret" {
			t.Errorf("Authorization = %q", gotAuth)
		}
		if gotContentType != "application/json" {
			t.Errorf("Content-Type = %q", gotContentType)
		}
		if gotBody.URL != "http://circ/lib/authentication_document" || gotBody.Stage != db.StageTesting {
			t.Errorf("payload = %+v", gotBody)
		}
		if string(body) != `{"ok":true}` {
			t.Errorf("body = %q", body)
		}
	})

	t.Run("3xx passes through", func(t *testing.T) {
		_, err := sendTo(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotModified)
		}, nil)
		if err != nil {
			t.Errorf("send() error = %v, want nil", err)
		}
	})

	t.Run("401 with problem body", func(t *testing.T) {
		_, err := sendTo(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", ProblemMediaType)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"type":"http://reg/problem","detail":"bad key"}`))
		}, nil)
		if !errors.Is(err, ErrIntegration) {
			t.Fatalf("error = %v, want ErrIntegration", err)
		}
		if !strings.Contains(err.Error(), "bad key") {
			t.Errorf("error should carry the problem detail: %v", err)
		}
	})

	t.Run("400 without problem body", func(t *testing.T) {
		_, err := sendTo(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("malformed registration"))
		}, nil)
		if !errors.Is(err, ErrIntegration) {
			t.Fatalf("error = %v, want ErrIntegration", err)
		}
		if !strings.Contains(err.Error(), "malformed registration") {
			t.Errorf("error should carry the raw body: %v", err)
		}
	})

	t.Run("500 is a transport failure", func(t *testing.T) {
		_, err := sendTo(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}, nil)
		if !errors.Is(err, ErrRemoteIntegrationFailed) {
			t.Errorf("error = %v, want ErrRemoteIntegrationFailed", err)
		}
	})

	t.Run("network failure", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		payload := &Payload{URL: "http://circ/cb", Stage: db.StageTesting}
		_, err := NewRegistrar(&fakeStore{}, nil).send(context.Background(), url, nil, payload)
		if !errors.Is(err, ErrRemoteIntegrationFailed) {
			t.Errorf("error = %v, want ErrRemoteIntegrationFailed", err)
		}
	})
}
