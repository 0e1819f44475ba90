package registry

import (
	"fmt"

	"circstack/internal/db"
)

// ValidStages are the stage values the protocol accepts on the wire.
var ValidStages = []db.RegistrationStage{db.StageTesting, db.StageProduction}

// ValidateStage checks a caller-supplied stage string before any I/O
// happens.
func ValidateStage(stage string) (db.RegistrationStage, error) {
	for _, s := range ValidStages {
		if string(s) == stage {
			return s, nil
		}
	}
	return "", NewProblem(ErrInvalidInput,
		fmt.Sprintf("%q is not a valid registration stage", stage))
}

// Payload is the JSON body that kicks off a registration.
type Payload struct {
	URL     string               `json:"url"`
	Stage   db.RegistrationStage `json:"stage"`
	Contact string               `json:"contact,omitempty"`
}

// buildPayload assembles the registration payload for one library. The
// callback URL points at the library's authentication document; the contact
// URI rides along only when the library has one configured.
func buildPayload(library *db.Library, stage db.RegistrationStage, builder CallbackURLBuilder) (*Payload, error) {
	callbackURL, err := builder.AuthDocumentURL(library.ShortName)
	if err != nil {
		return nil, NewProblem(ErrInvalidInput,
			fmt.Sprintf("could not build callback URL for library %s: %v", library.ShortName, err))
	}

	return &Payload{
		URL:     callbackURL,
		Stage:   stage,
		Contact: library.ContactURI(),
	}, nil
}
