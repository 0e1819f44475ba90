package db

// GetLibraryByShortName retrieves a library by its short name.
func (db *DB) GetLibraryByShortName(shortName string) (*Library, error) {
	var lib Library
	err := db.Get(&lib, `
        SELECT id, short_name, name, private_key, public_key, contact_email, created_at
        FROM libraries WHERE short_name = $1`, shortName)
	if err != nil {
		return nil, err
	}
	return &lib, nil
}

// ListLibraries returns every library, ordered by short name.
func (db *DB) ListLibraries() ([]Library, error) {
	var libs []Library
	err := db.Select(&libs, `
        SELECT id, short_name, name, private_key, public_key, contact_email, created_at
        FROM libraries ORDER BY short_name`)
	if err != nil {
		return nil, err
	}
	return libs, nil
}

// CreateLibrary inserts a new library row. Keypair generation happens
// elsewhere; the PEM strings are stored as given.
func (db *DB) CreateLibrary(lib Library) (*Library, error) {
	var created Library
	err := db.Get(&created, `
        INSERT INTO libraries (short_name, name, private_key, public_key, contact_email)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, short_name, name, private_key, public_key, contact_email, created_at`,
		lib.ShortName, lib.Name, lib.PrivateKey, lib.PublicKey, lib.ContactEmail)
	if err != nil {
		return nil, err
	}
	return &created, nil
}
