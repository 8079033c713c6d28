package user

import "database/sql"

// Accessor is the DB layer entrypoint for user-related queries. It also
// serves as the timezone directory for appointment validation.
type Accessor struct {
	db *sql.DB
}

func NewAccessor(db *sql.DB) *Accessor {
	return &Accessor{db: db}
}
