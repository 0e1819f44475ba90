package opds

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// sanitizer strips script/style and other unsafe markup from decoded
// terms-of-service HTML before it is shown to an admin.
var sanitizer = bluemonday.UGCPolicy()

// SanitizeHTML removes unsafe markup from an HTML fragment.
func SanitizeHTML(html string) string {
	return sanitizer.Sanitize(html)
}

// DecodeDataURL decodes a base64 data: URL carrying an HTML or plain-text
// document, returning the sanitized content. Registries embed their
// terms-of-service this way when they have no hosted copy.
func DecodeDataURL(url string) (string, error) {
	if !strings.HasPrefix(url, "data:") {
		return "", fmt.Errorf("not a data: URL: %s", url)
	}
	rest := url[len("data:"):]

	if strings.Count(rest, ",") != 1 {
		return "", fmt.Errorf("invalid data: URL: expected exactly one comma")
	}
	comma := strings.Index(rest, ",")
	header, payload := rest[:comma], rest[comma+1:]

	params := strings.Split(header, ";")
	mediaType := params[0]
	base64Encoded := false
	for _, p := range params[1:] {
		if p == "base64" {
			base64Encoded = true
		}
	}
	if !base64Encoded {
		return "", fmt.Errorf("invalid data: URL: only base64-encoded data is supported")
	}
	if !strings.HasPrefix(mediaType, "text/html") && !strings.HasPrefix(mediaType, "text/plain") {
		return "", fmt.Errorf("unsupported media type in data: URL: %q", mediaType)
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("invalid base64 payload in data: URL: %w", err)
	}
	if !utf8.Valid(decoded) {
		return "", fmt.Errorf("data: URL payload is not valid UTF-8")
	}

	return SanitizeHTML(string(decoded)), nil
}
