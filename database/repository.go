package database

import (
	"notes-server/models"
)

// Repository is the authoritative store for note records.
// It borrows connections from the injected pool for one statement at a time.
type Repository struct {
	db *DB
}

func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

func storageErr(op string, err error) error {
	return &models.StorageError{Op: op, Err: err}
}
