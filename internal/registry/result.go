package registry

import (
	"encoding/json"
	"fmt"

	"circstack/internal/db"
	"circstack/internal/opds"
)

// registrationResponse is the body a registry returns on a successful
// registration POST.
type registrationResponse struct {
	Metadata struct {
		ShortName    string `json:"short_name"`
		SharedSecret string `json:"shared_secret"`
	} `json:"metadata"`
	Links []opds.JSONLink `json:"links"`
}

// processResult interprets the registry's response and applies it to the
// registration. Fields are only written when the response supplies a value;
// status and stage flip only at the very end, after everything else
// succeeded.
func processResult(reg *db.Registration, body []byte, decryptor Decryptor, stage db.RegistrationStage) error {
	// The body must be a JSON object. Probing with a RawMessage map also
	// rejects a bare "null", which unmarshals into structs without error.
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil || probe == nil {
		return NewProblem(ErrIntegration,
			fmt.Sprintf("registry did not return a JSON object: %s", truncate(body, 200)))
	}

	var doc registrationResponse
	if err := json.Unmarshal(body, &doc); err != nil {
		return NewProblem(ErrIntegration,
			fmt.Sprintf("could not parse registration response: %v", err))
	}

	if doc.Metadata.ShortName != "" {
		shortName := doc.Metadata.ShortName
		reg.ShortName = &shortName
	}

	if doc.Metadata.SharedSecret != "" {
		plaintext, err := DecryptSharedSecret(decryptor, doc.Metadata.SharedSecret)
		if err != nil {
			return err
		}
		secret := string(plaintext)
		reg.SharedSecret = &secret
	}

	for _, link := range opds.Flatten(doc.Links) {
		if link.Rel == opds.SelfRel && link.Type == "text/html" {
			href := link.Href
			reg.WebClientURL = &href
			break
		}
	}

	reg.Status = db.StatusSuccess
	reg.Stage = stage
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
