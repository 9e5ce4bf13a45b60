package db

import "database/sql"

// Open opens (or creates) the wishlist database at path and applies the
// schema. the schema only creates what is missing, reopening is safe.
func Open(path string) (*sql.DB, error) {
	database, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	_, err = database.Exec(Schema)
	if err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}
