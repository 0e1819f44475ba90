package registry

import "fmt"

// ProblemMediaType is the media type registries use for structured error
// bodies, and the one the admin API renders Problems into.
const ProblemMediaType = "application/api-problem+json"

// Problem kinds. Every error escaping this package wraps one of these, so
// callers dispatch with errors.Is.
var (
	ErrInvalidInput            = fmt.Errorf("invalid input")
	ErrRemoteIntegrationFailed = fmt.Errorf("remote integration failed")
	ErrIntegration             = fmt.Errorf("integration error")
	ErrSharedSecretDecryption  = fmt.Errorf("shared secret decryption failed")
)

// problemTypes maps each kind to its type URI and human-readable title.
var problemTypes = map[error]struct{ URI, Title string }{
	ErrInvalidInput: {
		URI:   "http://librarysimplified.org/terms/problem/invalid-input",
		Title: "Invalid input.",
	},
	ErrRemoteIntegrationFailed: {
		URI:   "http://librarysimplified.org/terms/problem/remote-integration-failed",
		Title: "Failure contacting external service.",
	},
	ErrIntegration: {
		URI:   "http://librarysimplified.org/terms/problem/integration-error",
		Title: "Third-party service failed.",
	},
	ErrSharedSecretDecryption: {
		URI:   "http://librarysimplified.org/terms/problem/shared-secret-decryption-error",
		Title: "Could not decrypt shared secret.",
	},
}

// Problem provides detailed error information in the shape of a problem
// detail document: a type URI, a title, and a free-form detail string.
type Problem struct {
	Kind    error
	TypeURI string
	Title   string
	Detail  string
}

func (p *Problem) Error() string {
	if p.Detail != "" {
		return fmt.Sprintf("%v: %s", p.Kind, p.Detail)
	}
	return p.Kind.Error()
}

func (p *Problem) Unwrap() error {
	return p.Kind
}

// Document renders the problem as a problem detail body.
func (p *Problem) Document(status int) map[string]interface{} {
	return map[string]interface{}{
		"type":   p.TypeURI,
		"title":  p.Title,
		"detail": p.Detail,
		"status": status,
	}
}

// NewProblem creates a new problem error of the given kind.
func NewProblem(kind error, detail string) *Problem {
	pt := problemTypes[kind]
	return &Problem{
		Kind:    kind,
		TypeURI: pt.URI,
		Title:   pt.Title,
		Detail:  detail,
	}
}
