package models

import "github.com/google/uuid"

// ensureID fills a missing primary key so rows can be created on databases
// without the Postgres gen_random_uuid default.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
