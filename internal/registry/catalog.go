package registry

import (
	"context"
	"fmt"
	"strings"

	"circstack/internal/opds"
)

// CatalogInfo is what a push needs out of a registry's root catalog.
type CatalogInfo struct {
	RegistrationURL string
	VendorID        string // Adobe vendor id; "" when the registry has none
}

// TermsOfService is the best-effort terms-of-service data attached to a
// registration document. Either field may be empty.
type TermsOfService struct {
	Link string `json:"link,omitempty"`
	HTML string `json:"html,omitempty"`
}

// FetchCatalog GETs a registry's root catalog and extracts the registration
// URL and optional vendor id. Pure function of the HTTP response.
func (r *Registrar) FetchCatalog(ctx context.Context, catalogURL string) (*CatalogInfo, error) {
	resp, body, err := r.get(ctx, catalogURL)
	if err != nil {
		return nil, err
	}

	feed, err := opds.Parse(resp.Header.Get("Content-Type"), body)
	if err != nil {
		return nil, NewProblem(ErrRemoteIntegrationFailed,
			fmt.Sprintf("registry at %s did not return OPDS", catalogURL))
	}

	register := feed.FirstLink(opds.RegisterRel)
	if register == nil {
		return nil, NewProblem(ErrRemoteIntegrationFailed,
			fmt.Sprintf("registry catalog at %s has no register link", catalogURL))
	}

	return &CatalogInfo{
		RegistrationURL: register.Href,
		VendorID:        feed.AdobeVendorID,
	}, nil
}

// FetchRegistrationDocument follows the catalog's register link and scans
// the registration document for terms-of-service data. A missing or
// malformed registration document yields empty terms, never an error; only
// the catalog fetch itself can fail.
func (r *Registrar) FetchRegistrationDocument(ctx context.Context, catalogURL string) (*TermsOfService, error) {
	info, err := r.FetchCatalog(ctx, catalogURL)
	if err != nil {
		return nil, err
	}

	tos := &TermsOfService{}

	resp, body, err := r.get(ctx, info.RegistrationURL)
	if err != nil {
		return tos, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return tos, nil
	}

	feed, err := opds.Parse(resp.Header.Get("Content-Type"), body)
	if err != nil {
		return tos, nil
	}

	for _, link := range feed.LinksWithRel(opds.TermsOfServiceRel) {
		switch {
		case strings.HasPrefix(link.Href, "http:"), strings.HasPrefix(link.Href, "https:"):
			if tos.Link == "" {
				tos.Link = link.Href
			}
		case strings.HasPrefix(link.Href, "data:"):
			if tos.HTML != "" {
				continue
			}
			if html, err := opds.DecodeDataURL(link.Href); err == nil {
				tos.HTML = html
			}
		}
		// other schemes ignored
	}

	return tos, nil
}
