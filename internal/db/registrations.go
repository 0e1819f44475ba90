package db

import (
	"database/sql"
	"fmt"
)

// GetOrCreateRegistryReference looks up a registry by URL, creating the row
// if this is the first time any library has registered against it. The URL
// is the lookup key; protocol and goal describe a new row only.
func (db *DB) GetOrCreateRegistryReference(protocol string, goal RegistryGoal, url string) (*RegistryReference, error) {
	var ref RegistryReference
	err := db.Get(&ref, `
        SELECT id, protocol, goal, url, vendor_id, created_at
        FROM registry_references WHERE url = $1`, url)
	if err == nil {
		return &ref, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	err = db.Get(&ref, `
        INSERT INTO registry_references (protocol, goal, url)
        VALUES ($1, $2, $3)
        RETURNING id, protocol, goal, url, vendor_id, created_at`,
		protocol, goal, url)
	if err != nil {
		return nil, err
	}

	return &ref, nil
}

// SetVendorID stores the Adobe vendor id on a registry reference. The value
// is registry-wide: every library registered against the reference sees it.
func (db *DB) SetVendorID(ref *RegistryReference, vendorID string) error {
	_, err := db.Exec(`UPDATE registry_references SET vendor_id = $1 WHERE id = $2`,
		vendorID, ref.ID)
	if err != nil {
		return err
	}
	ref.VendorID = &vendorID
	return nil
}

// GetOrCreateRegistration returns the registration row for a (library,
// registry) pair, creating it with default status/stage on the first
// attempt.
func (db *DB) GetOrCreateRegistration(library *Library, ref *RegistryReference) (*Registration, error) {
	var reg Registration
	err := db.Get(&reg, `
        SELECT id, library_id, registry_reference_id, status, stage,
               shared_secret, short_name, web_client_url, created_at, updated_at
        FROM registrations
        WHERE library_id = $1 AND registry_reference_id = $2`,
		library.ID, ref.ID)
	if err == nil {
		return &reg, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	err = db.Get(&reg, `
        INSERT INTO registrations (library_id, registry_reference_id, status, stage)
        VALUES ($1, $2, $3, $4)
        RETURNING id, library_id, registry_reference_id, status, stage,
                  shared_secret, short_name, web_client_url, created_at, updated_at`,
		library.ID, ref.ID, StatusFailure, StageTesting)
	if err != nil {
		return nil, err
	}

	return &reg, nil
}

// SaveRegistration writes the mutable columns of a registration back to
// the database.
func (db *DB) SaveRegistration(reg *Registration) error {
	return db.Get(reg, `
        UPDATE registrations
        SET status = $1, stage = $2, shared_secret = $3, short_name = $4,
            web_client_url = $5, updated_at = NOW()
        WHERE id = $6
        RETURNING id, library_id, registry_reference_id, status, stage,
                  shared_secret, short_name, web_client_url, created_at, updated_at`,
		reg.Status, reg.Stage, reg.SharedSecret, reg.ShortName,
		reg.WebClientURL, reg.ID)
}

// ListRegistrations returns registrations joined with library and registry
// identifiers. An empty libraryShortName lists every library; an empty
// registryURL lists every registry.
func (db *DB) ListRegistrations(libraryShortName, registryURL string) ([]RegistrationInfo, error) {
	query := `
        SELECT r.id, r.library_id, r.registry_reference_id, r.status, r.stage,
               r.shared_secret, r.short_name, r.web_client_url, r.created_at, r.updated_at,
               l.short_name AS library_short_name, rr.url AS registry_url, rr.vendor_id
        FROM registrations r
        JOIN libraries l ON l.id = r.library_id
        JOIN registry_references rr ON rr.id = r.registry_reference_id
        WHERE 1=1`

	args := []interface{}{}
	argCount := 0

	if libraryShortName != "" {
		argCount++
		query += fmt.Sprintf(" AND l.short_name = $%d", argCount)
		args = append(args, libraryShortName)
	}
	if registryURL != "" {
		argCount++
		query += fmt.Sprintf(" AND rr.url = $%d", argCount)
		args = append(args, registryURL)
	}

	query += " ORDER BY l.short_name, rr.url"

	var results []RegistrationInfo
	if err := db.Select(&results, query, args...); err != nil {
		return nil, err
	}

	return results, nil
}
