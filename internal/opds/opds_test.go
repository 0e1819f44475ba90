package opds

import (
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		expected    Version
	}{
		{
			name:        "opds2 json",
			contentType: "application/opds+json",
			expected:    V2,
		},
		{
			name:        "opds2 json with charset",
			contentType: "application/opds+json; charset=utf-8",
			expected:    V2,
		},
		{
			name:        "opds1 atom with profile",
			contentType: "application/atom+xml;profile=opds-catalog;kind=navigation",
			expected:    V1,
		},
		{
			name:        "plain atom without profile",
			contentType: "application/atom+xml",
			expected:    Unrecognized,
		},
		{
			name:        "html",
			contentType: "text/html",
			expected:    Unrecognized,
		},
		{
			name:        "empty",
			contentType: "",
			expected:    Unrecognized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.contentType); got != tt.expected {
				t.Errorf("Classify(%q) = %v, want %v", tt.contentType, got, tt.expected)
			}
		})
	}
}

func TestParseV2(t *testing.T) {
	body := `{
		"metadata": {"adobe_vendor_id": "VENDOR"},
		"links": [
			{"rel": "register", "href": "http://registry/register", "type": "application/opds+json"},
			{"rel": ["self", "alternate"], "href": "http://registry/", "type": "application/opds+json"}
		]
	}`

	feed, err := Parse("application/opds+json", []byte(body))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if feed.Version != V2 {
		t.Errorf("Version = %v, want V2", feed.Version)
	}
	if feed.AdobeVendorID != "VENDOR" {
		t.Errorf("AdobeVendorID = %q, want %q", feed.AdobeVendorID, "VENDOR")
	}

	register := feed.FirstLink(RegisterRel)
	if register == nil {
		t.Fatal("expected a register link")
	}
	if register.Href != "http://registry/register" {
		t.Errorf("register href = %q", register.Href)
	}

	// An array-valued rel produces one link per rel.
	if link := feed.FirstLink("alternate"); link == nil || link.Href != "http://registry/" {
		t.Errorf("expected alternate link for http://registry/, got %+v", link)
	}
}

func TestParseV2NoVendorID(t *testing.T) {
	body := `{"links": [{"rel": "register", "href": "http://registry/register"}]}`

	feed, err := Parse("application/opds+json", []byte(body))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if feed.AdobeVendorID != "" {
		t.Errorf("AdobeVendorID = %q, want empty", feed.AdobeVendorID)
	}
	if feed.FirstLink(RegisterRel) == nil {
		t.Error("expected a register link")
	}
}

func TestParseV1(t *testing.T) {
	body := `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Library Registry</title>
  <link rel="register" href="http://registry/register" type="application/opds+json"/>
  <link rel="terms-of-service" href="http://registry/tos"/>
</feed>`

	feed, err := Parse("application/atom+xml;profile=opds-catalog", []byte(body))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if feed.Version != V1 {
		t.Errorf("Version = %v, want V1", feed.Version)
	}
	if feed.AdobeVendorID != "" {
		t.Errorf("AdobeVendorID = %q, want empty (OPDS1 has none)", feed.AdobeVendorID)
	}

	register := feed.FirstLink(RegisterRel)
	if register == nil {
		t.Fatal("expected a register link")
	}
	if register.Href != "http://registry/register" {
		t.Errorf("register href = %q", register.Href)
	}

	tos := feed.LinksWithRel(TermsOfServiceRel)
	if len(tos) != 1 || tos[0].Href != "http://registry/tos" {
		t.Errorf("terms-of-service links = %+v", tos)
	}
}

func TestParseUnrecognized(t *testing.T) {
	_, err := Parse("text/html", []byte("<html></html>"))
	if err != ErrNotOPDS {
		t.Errorf("Parse() error = %v, want ErrNotOPDS", err)
	}
}

func TestParseMalformed(t *testing.T) {
	if _, err := Parse("application/opds+json", []byte("not json")); err == nil {
		t.Error("expected error parsing malformed OPDS2")
	}
	if _, err := Parse("application/atom+xml;profile=opds-catalog", []byte("not xml")); err == nil {
		t.Error("expected error parsing malformed OPDS1")
	}
}
