package appointment

import (
	"appointments-system/user"
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// UserDirectory resolves attendees. GetUser returns nil without an error
// for unknown ids.
type UserDirectory interface {
	GetUser(ctx context.Context, id uuid.UUID) (*user.User, error)
}

type Accessor struct {
	db        *sql.DB
	directory UserDirectory
}

func NewAccessor(db *sql.DB, directory UserDirectory) *Accessor {
	return &Accessor{
		db:        db,
		directory: directory,
	}
}
