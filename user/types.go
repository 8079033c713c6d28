package user

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var ErrUsernameTaken = errors.New("username already taken")

// User is an attendee as seen by working-hours validation. Timezone is an
// IANA identifier and may be empty when the user never configured one.
type User struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Username string    `json:"username"`
	Timezone string    `json:"preferred_timezone"`
}

func (u *User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(u.Username) == "" {
		return errors.New("username is required")
	}
	return nil
}

// HasTimezone reports whether the user configured a timezone.
func (u *User) HasTimezone() bool {
	return strings.TrimSpace(u.Timezone) != ""
}
