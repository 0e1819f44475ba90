package registry

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func serveCatalog(t *testing.T, contentType, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetchCatalogOPDS2(t *testing.T) {
	t.Run("register link and vendor id", func(t *testing.T) {
		server := serveCatalog(t, "application/opds+json",
			`{"metadata":{"adobe_vendor_id":"V1"},"links":[{"rel":"register","href":"http://reg/"}]}`)

		info, err := NewRegistrar(&fakeStore{}, nil).FetchCatalog(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("FetchCatalog() error = %v", err)
		}
		if info.RegistrationURL != "http://reg/" {
			t.Errorf("RegistrationURL = %q", info.RegistrationURL)
		}
		if info.VendorID != "V1" {
			t.Errorf("VendorID = %q, want V1", info.VendorID)
		}
	})

	t.Run("register link and no vendor id", func(t *testing.T) {
		server := serveCatalog(t, "application/opds+json",
			`{"links":[{"rel":"register","href":"http://reg/"}]}`)

		info, err := NewRegistrar(&fakeStore{}, nil).FetchCatalog(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("FetchCatalog() error = %v", err)
		}
		if info.VendorID != "" {
			t.Errorf("VendorID = %q, want empty", info.VendorID)
		}
	})
}

func TestFetchCatalogOPDS1(t *testing.T) {
	server := serveCatalog(t, "application/atom+xml;profile=opds-catalog",
		`<feed xmlns="http://www.w3.org/2005/Atom"><link rel="register" href="http://reg/"/></feed>`)

	info, err := NewRegistrar(&fakeStore{}, nil).FetchCatalog(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("FetchCatalog() error = %v", err)
	}
	if info.RegistrationURL != "http://reg/" {
		t.Errorf("RegistrationURL = %q", info.RegistrationURL)
	}
	if info.VendorID != "" {
		t.Errorf("VendorID = %q, want empty (OPDS1 has no vendor id)", info.VendorID)
	}
}

func TestFetchCatalogNoRegisterLink(t *testing.T) {
	server := serveCatalog(t, "application/opds+json",
		`{"links":[{"rel":"search","href":"http://reg/search"}]}`)

	_, err := NewRegistrar(&fakeStore{}, nil).FetchCatalog(context.Background(), server.URL)
	if !errors.Is(err, ErrRemoteIntegrationFailed) {
		t.Fatalf("error = %v, want ErrRemoteIntegrationFailed", err)
	}
	if !strings.Contains(err.Error(), "register link") {
		t.Errorf("error should mention the register link: %v", err)
	}
}

func TestFetchCatalogNotOPDS(t *testing.T) {
	server := serveCatalog(t, "text/html", "<html>not a catalog</html>")

	_, err := NewRegistrar(&fakeStore{}, nil).FetchCatalog(context.Background(), server.URL)
	if !errors.Is(err, ErrRemoteIntegrationFailed) {
		t.Fatalf("error = %v, want ErrRemoteIntegrationFailed", err)
	}
	if !strings.Contains(err.Error(), "did not return OPDS") {
		t.Errorf("error should mention OPDS: %v", err)
	}
}

func TestFetchCatalogNetworkFailure(t *testing.T) {
	server := serveCatalog(t, "application/opds+json", "{}")
	url := server.URL
	server.Close()

	_, err := NewRegistrar(&fakeStore{}, nil).FetchCatalog(context.Background(), url)
	if !errors.Is(err, ErrRemoteIntegrationFailed) {
		t.Fatalf("error = %v, want ErrRemoteIntegrationFailed", err)
	}
}

// registrationDocServer serves a catalog whose register link points at a
// second endpoint serving the given registration document response.
func registrationDocServer(t *testing.T, docStatus int, docContentType, docBody string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var server *httptest.Server
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/opds+json")
		w.Write([]byte(`{"links":[{"rel":"register","href":"` + server.URL + `/register"}]}`))
	})
	mux.HandleFunc("/register", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", docContentType)
		w.WriteHeader(docStatus)
		w.Write([]byte(docBody))
	})
	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestFetchRegistrationDocument(t *testing.T) {
	t.Run("http terms link", func(t *testing.T) {
		server := registrationDocServer(t, 200, "application/opds+json",
			`{"links":[{"rel":"terms-of-service","href":"https://reg/tos"}]}`)

		tos, err := NewRegistrar(&fakeStore{}, nil).FetchRegistrationDocument(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("FetchRegistrationDocument() error = %v", err)
		}
		if tos.Link != "https://reg/tos" {
			t.Errorf("Link = %q", tos.Link)
		}
		if tos.HTML != "" {
			t.Errorf("HTML = %q, want empty", tos.HTML)
		}
	})

	t.Run("data terms link", func(t *testing.T) {
		html := "<p>terms</p>"
		dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(html))
		server := registrationDocServer(t, 200, "application/opds+json",
			`{"links":[{"rel":"terms-of-service","href":"`+dataURL+`"}]}`)

		tos, err := NewRegistrar(&fakeStore{}, nil).FetchRegistrationDocument(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("FetchRegistrationDocument() error = %v", err)
		}
		if tos.HTML != html {
			t.Errorf("HTML = %q, want %q", tos.HTML, html)
		}
	})

	t.Run("first of each kind wins, other schemes ignored", func(t *testing.T) {
		dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte("<p>a</p>"))
		dataURL2 := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte("<p>b</p>"))
		server := registrationDocServer(t, 200, "application/opds+json", `{"links":[
			{"rel":"terms-of-service","href":"ftp://reg/ignored"},
			{"rel":"terms-of-service","href":"https://reg/tos1"},
			{"rel":"terms-of-service","href":"https://reg/tos2"},
			{"rel":"terms-of-service","href":"`+dataURL+`"},
			{"rel":"terms-of-service","href":"`+dataURL2+`"}
		]}`)

		tos, err := NewRegistrar(&fakeStore{}, nil).FetchRegistrationDocument(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("FetchRegistrationDocument() error = %v", err)
		}
		if tos.Link != "https://reg/tos1" {
			t.Errorf("Link = %q, want first http link", tos.Link)
		}
		if tos.HTML != "<p>a</p>" {
			t.Errorf("HTML = %q, want first data link", tos.HTML)
		}
	})

	t.Run("undecodable data link is skipped", func(t *testing.T) {
		dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte("<p>ok</p>"))
		server := registrationDocServer(t, 200, "application/opds+json", `{"links":[
			{"rel":"terms-of-service","href":"data:image/png;base64,AAAA"},
			{"rel":"terms-of-service","href":"`+dataURL+`"}
		]}`)

		tos, err := NewRegistrar(&fakeStore{}, nil).FetchRegistrationDocument(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("FetchRegistrationDocument() error = %v", err)
		}
		if tos.HTML != "<p>ok</p>" {
			t.Errorf("HTML = %q", tos.HTML)
		}
	})

	t.Run("missing registration document is not an error", func(t *testing.T) {
		server := registrationDocServer(t, 404, "text/plain", "gone")

		tos, err := NewRegistrar(&fakeStore{}, nil).FetchRegistrationDocument(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("FetchRegistrationDocument() error = %v", err)
		}
		if tos.Link != "" || tos.HTML != "" {
			t.Errorf("expected empty terms, got %+v", tos)
		}
	})

	t.Run("malformed registration document is not an error", func(t *testing.T) {
		server := registrationDocServer(t, 200, "application/opds+json", "not json")

		tos, err := NewRegistrar(&fakeStore{}, nil).FetchRegistrationDocument(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("FetchRegistrationDocument() error = %v", err)
		}
		if tos.Link != "" || tos.HTML != "" {
			t.Errorf("expected empty terms, got %+v", tos)
		}
	})

	t.Run("catalog failure still propagates", func(t *testing.T) {
		server := serveCatalog(t, "text/html", "nope")

		_, err := NewRegistrar(&fakeStore{}, nil).FetchRegistrationDocument(context.Background(), server.URL)
		if !errors.Is(err, ErrRemoteIntegrationFailed) {
			t.Errorf("error = %v, want ErrRemoteIntegrationFailed", err)
		}
	})
}
