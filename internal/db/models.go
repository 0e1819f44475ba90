package db

import (
	"database/sql/driver"
	"errors"
	"time"
)

// RegistryGoal says what a library registers with a remote registry for.
type RegistryGoal string

const (
	GoalDiscovery RegistryGoal = "discovery"
	GoalLicense   RegistryGoal = "license"
)

// RegistrationStatus is the outcome of the most recent registration attempt.
type RegistrationStatus string

const (
	StatusSuccess RegistrationStatus = "success"
	StatusFailure RegistrationStatus = "failure"
)

// RegistrationStage is the registry-side testing/production designation.
type RegistrationStage string

const (
	StageTesting    RegistrationStage = "testing"
	StageProduction RegistrationStage = "production"
)

// Value implements the driver.Valuer interface for database storage
func (s RegistrationStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// Scan implements the sql.Scanner interface for database retrieval
func (s *RegistrationStatus) Scan(value interface{}) error {
	if value == nil {
		*s = StatusFailure
		return nil
	}
	if str, ok := value.(string); ok {
		*s = RegistrationStatus(str)
		return nil
	}
	return errors.New("cannot scan RegistrationStatus")
}

// Value implements the driver.Valuer interface for database storage
func (s RegistrationStage) Value() (driver.Value, error) {
	return string(s), nil
}

// Scan implements the sql.Scanner interface for database retrieval
func (s *RegistrationStage) Scan(value interface{}) error {
	if value == nil {
		*s = StageTesting
		return nil
	}
	if str, ok := value.(string); ok {
		*s = RegistrationStage(str)
		return nil
	}
	return errors.New("cannot scan RegistrationStage")
}

// Library is one library hosted by this circulation manager. Only the
// columns the registration subsystem reads are mapped here.
type Library struct {
	ID           int       `db:"id" json:"id"`
	ShortName    string    `db:"short_name" json:"short_name"`
	Name         string    `db:"name" json:"name"`
	PrivateKey   string    `db:"private_key" json:"-"`
	PublicKey    string    `db:"public_key" json:"-"`
	ContactEmail *string   `db:"contact_email" json:"contact_email"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// ContactURI returns the administrative contact as a mailto: URI, or ""
// when no contact is configured.
func (l *Library) ContactURI() string {
	if l.ContactEmail == nil || *l.ContactEmail == "" {
		return ""
	}
	return "mailto:" + *l.ContactEmail
}

// RegistryReference identifies one remote discovery registry or shared
// license source. The URL is the lookup key; rows are never updated except
// for the registry-wide Adobe vendor id.
type RegistryReference struct {
	ID        int          `db:"id" json:"id"`
	Protocol  string       `db:"protocol" json:"protocol"`
	Goal      RegistryGoal `db:"goal" json:"goal"`
	URL       string       `db:"url" json:"url"`
	VendorID  *string      `db:"vendor_id" json:"vendor_id"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
}

// Registration is the relationship between one library and one registry.
// A failed attempt never erases previously stored credentials: columns
// other than status and stage are only written when the registry supplies
// new values.
type Registration struct {
	ID                  int                `db:"id" json:"id"`
	LibraryID           int                `db:"library_id" json:"library_id"`
	RegistryReferenceID int                `db:"registry_reference_id" json:"registry_reference_id"`
	Status              RegistrationStatus `db:"status" json:"status"`
	Stage               RegistrationStage  `db:"stage" json:"stage"`
	SharedSecret        *string            `db:"shared_secret" json:"-"`
	ShortName           *string            `db:"short_name" json:"short_name"`
	WebClientURL        *string            `db:"web_client_url" json:"web_client_url"`
	CreatedAt           time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time          `db:"updated_at" json:"updated_at"`
}

// HasSharedSecret reports whether a prior successful pairing left a
// credential behind.
func (r *Registration) HasSharedSecret() bool {
	return r.SharedSecret != nil && *r.SharedSecret != ""
}

// RegistrationInfo combines a registration with its library and registry
// for listing responses. The vendor id comes off the shared registry
// reference: every registration against one registry reports the same one.
type RegistrationInfo struct {
	Registration
	LibraryShortName string  `db:"library_short_name" json:"library"`
	RegistryURL      string  `db:"registry_url" json:"registry_url"`
	VendorID         *string `db:"vendor_id" json:"vendor_id"`
}
