// Package registry implements the client side of the OPDS Directory
// Registration Protocol: registering a library with a remote library
// registry or shared license source, and reading back registration
// documents for listing UIs.
package registry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"circstack/internal/db"
)

// registrationTimeout bounds every HTTP call in the flow. There is no
// overall deadline spanning a whole push.
const registrationTimeout = 60 * time.Second

// Store persists registration state. Implemented by internal/db; the
// registrar never issues SQL of its own.
type Store interface {
	SaveRegistration(reg *db.Registration) error
	SetVendorID(ref *db.RegistryReference, vendorID string) error
}

// CallbackURLBuilder builds the absolute URL of a library's authentication
// document, the callback a registry fetches to verify a registration.
type CallbackURLBuilder interface {
	AuthDocumentURL(shortName string) (string, error)
}

// BaseURLBuilder builds callback URLs from a fixed public base URL.
type BaseURLBuilder struct {
	Base string
}

// AuthDocumentURL implements CallbackURLBuilder.
func (b BaseURLBuilder) AuthDocumentURL(shortName string) (string, error) {
	if b.Base == "" {
		return "", fmt.Errorf("no public base URL configured")
	}
	u, err := url.Parse(strings.TrimRight(b.Base, "/") + "/" + url.PathEscape(shortName) + "/authentication_document")
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", b.Base, err)
	}
	return u.String(), nil
}

// Registrar performs registration pushes and reads against remote
// registries on behalf of this circulation manager's libraries.
type Registrar struct {
	store      Store
	httpClient *http.Client
}

// NewRegistrar creates a registrar. A nil client gets the default bounded
// timeout.
func NewRegistrar(store Store, client *http.Client) *Registrar {
	if client == nil {
		client = &http.Client{Timeout: registrationTimeout}
	}
	return &Registrar{
		store:      store,
		httpClient: client,
	}
}

// get performs one GET against a registry URL. Network failures surface as
// ErrRemoteIntegrationFailed.
func (r *Registrar) get(ctx context.Context, rawURL string) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return nil, nil, NewProblem(ErrRemoteIntegrationFailed,
			fmt.Sprintf("could not build request for %s: %v", rawURL, err))
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, nil, NewProblem(ErrRemoteIntegrationFailed,
			fmt.Sprintf("request to %s failed: %v", rawURL, err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, NewProblem(ErrRemoteIntegrationFailed,
			fmt.Sprintf("could not read response from %s: %v", rawURL, err))
	}

	return resp, body, nil
}
