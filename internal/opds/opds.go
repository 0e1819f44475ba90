package opds

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strings"
)

// Media type prefixes used to classify a registry response.
const (
	V2MediaType = "application/opds+json"
	V1MediaType = "application/atom+xml;profile=opds-catalog"
)

// Link relations this system cares about.
const (
	RegisterRel       = "register"
	TermsOfServiceRel = "terms-of-service"
	SelfRel           = "self"
)

// ErrNotOPDS indicates a response whose Content-Type matches neither OPDS format.
var ErrNotOPDS = fmt.Errorf("not an OPDS feed")

// Version identifies which OPDS format a feed was parsed from.
type Version int

const (
	Unrecognized Version = iota
	V1
	V2
)

// Link is a single feed link, flattened to one rel per entry.
type Link struct {
	Rel  string
	Href string
	Type string
}

// Feed is the parsed form of a registry catalog or registration document.
// Only the parts the registration protocol reads are retained.
type Feed struct {
	Version       Version
	Links         []Link
	AdobeVendorID string // OPDS2 metadata only; OPDS1 has no equivalent
}

// FirstLink returns the first link with the given rel, or nil.
func (f *Feed) FirstLink(rel string) *Link {
	for i := range f.Links {
		if f.Links[i].Rel == rel {
			return &f.Links[i]
		}
	}
	return nil
}

// LinksWithRel returns all links with the given rel, in feed order.
func (f *Feed) LinksWithRel(rel string) []Link {
	var out []Link
	for _, l := range f.Links {
		if l.Rel == rel {
			out = append(out, l)
		}
	}
	return out
}

// Classify maps a Content-Type header to an OPDS version by prefix match.
func Classify(contentType string) Version {
	switch {
	case strings.HasPrefix(contentType, V2MediaType):
		return V2
	case strings.HasPrefix(contentType, V1MediaType):
		return V1
	default:
		return Unrecognized
	}
}

// Parse classifies a response by Content-Type and parses the body in the
// matching format. An unrecognized Content-Type returns ErrNotOPDS.
func Parse(contentType string, body []byte) (*Feed, error) {
	switch Classify(contentType) {
	case V2:
		return parseV2(body)
	case V1:
		return parseV1(body)
	default:
		return nil, ErrNotOPDS
	}
}

// RelList accepts an OPDS2 link rel that is either a single string or an
// array of strings.
type RelList []string

// UnmarshalJSON implements json.Unmarshaler.
func (r *RelList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*r = RelList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("link rel must be a string or array of strings")
	}
	*r = RelList(many)
	return nil
}

// JSONLink is an OPDS2 link as it appears on the wire.
type JSONLink struct {
	Rel  RelList `json:"rel"`
	Href string  `json:"href"`
	Type string  `json:"type"`
}

// Flatten expands wire links into one Link per rel.
func Flatten(links []JSONLink) []Link {
	var out []Link
	for _, l := range links {
		for _, rel := range l.Rel {
			out = append(out, Link{Rel: rel, Href: l.Href, Type: l.Type})
		}
	}
	return out
}

type v2Catalog struct {
	Metadata struct {
		AdobeVendorID string `json:"adobe_vendor_id"`
	} `json:"metadata"`
	Links []JSONLink `json:"links"`
}

func parseV2(body []byte) (*Feed, error) {
	var catalog v2Catalog
	if err := json.Unmarshal(body, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse OPDS2 catalog: %w", err)
	}
	return &Feed{
		Version:       V2,
		Links:         Flatten(catalog.Links),
		AdobeVendorID: catalog.Metadata.AdobeVendorID,
	}, nil
}

type v1Feed struct {
	XMLName xml.Name `xml:"feed"`
	Links   []struct {
		Rel  string `xml:"rel,attr"`
		Href string `xml:"href,attr"`
		Type string `xml:"type,attr"`
	} `xml:"link"`
}

func parseV1(body []byte) (*Feed, error) {
	var feed v1Feed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("failed to parse OPDS1 feed: %w", err)
	}
	f := &Feed{Version: V1}
	for _, l := range feed.Links {
		f.Links = append(f.Links, Link{Rel: l.Rel, Href: l.Href, Type: l.Type})
	}
	return f, nil
}
