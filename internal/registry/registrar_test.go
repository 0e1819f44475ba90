package registry

import (
	"net/http"
	"testing"

	"circstack/internal/db"
)

// fakeStore records every save so tests can inspect the status written at
// each point in a push.
type fakeStore struct {
	savedStatuses []db.RegistrationStatus
	vendorIDs     []string
	saveErr       error
}

func (s *fakeStore) SaveRegistration(reg *db.Registration) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.savedStatuses = append(s.savedStatuses, reg.Status)
	return nil
}

func (s *fakeStore) SetVendorID(ref *db.RegistryReference, vendorID string) error {
	s.vendorIDs = append(s.vendorIDs, vendorID)
	ref.VendorID = &vendorID
	return nil
}

// countingTransport counts round trips; used to prove a code path performs
// no network I/O.
type countingTransport struct {
	calls int
}

func (t *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.calls++
	return nil, http.ErrHandlerTimeout
}

func TestBaseURLBuilder(t *testing.T) {
	tests := []struct {
		name      string
		base      string
		shortName string
		expected  string
		wantErr   bool
	}{
		{
			name:      "plain",
			base:      "https://circ.example.org",
			shortName: "NYPL",
			expected:  "https://circ.example.org/NYPL/authentication_document",
		},
		{
			name:      "trailing slash",
			base:      "https://circ.example.org/",
			shortName: "NYPL",
			expected:  "https://circ.example.org/NYPL/authentication_document",
		},
		{
			name:      "short name needing escaping",
			base:      "https://circ.example.org",
			shortName: "a b",
			expected:  "https://circ.example.org/a%20b/authentication_document",
		},
		{
			name:    "no base configured",
			base:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BaseURLBuilder{Base: tt.base}.AuthDocumentURL(tt.shortName)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("AuthDocumentURL() error = %v", err)
			}
			if got != tt.expected {
				t.Errorf("AuthDocumentURL() = %q, want %q", got, tt.expected)
			}
		})
	}
}
