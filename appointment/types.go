package appointment

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var ErrInvalidRequest = errors.New("invalid appointment request")

// ParticipantsColumn maps participant ids to a Postgres uuid[] column.
type ParticipantsColumn []uuid.UUID

// Value implements driver.Valuer for INSERT/UPDATE.
func (p ParticipantsColumn) Value() (driver.Value, error) {
	ids := make(pq.StringArray, len(p))
	for i, id := range p {
		ids[i] = id.String()
	}
	return ids.Value()
}

// Scan implements sql.Scanner for SELECT.
func (p *ParticipantsColumn) Scan(value any) error {
	var ids pq.StringArray
	if err := ids.Scan(value); err != nil {
		return fmt.Errorf("scan participants: %w", err)
	}
	if ids == nil {
		*p = nil
		return nil
	}

	out := make(ParticipantsColumn, len(ids))
	for i, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fmt.Errorf("participant %q: %w", raw, err)
		}
		out[i] = id
	}
	*p = out
	return nil
}

// Request is an appointment proposal. Start and End are wall-clock readings
// without an offset, interpreted in the creator's timezone.
type Request struct {
	Title          string
	CreatorID      uuid.UUID
	Start          string
	End            string
	ParticipantIDs []uuid.UUID
}

func (r *Request) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidRequest)
	}
	if r.CreatorID == uuid.Nil {
		return fmt.Errorf("%w: creator ID is required", ErrInvalidRequest)
	}
	if r.Start == "" || r.End == "" {
		return fmt.Errorf("%w: start and end are required", ErrInvalidRequest)
	}
	return nil
}

// Appointment is a validated appointment with both bounds in UTC.
type Appointment struct {
	ID             uuid.UUID   `json:"id"`
	Title          string      `json:"title"`
	CreatorID      uuid.UUID   `json:"creator_id"`
	Start          time.Time   `json:"start"`
	End            time.Time   `json:"end"`
	ParticipantIDs []uuid.UUID `json:"participants"`
	CreatedAt      time.Time   `json:"created_at"`
}

func (a *Appointment) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return errors.New("title is required")
	}
	if a.CreatorID == uuid.Nil {
		return errors.New("creator ID is required")
	}
	if !a.Start.Before(a.End) {
		return ErrInvalidInterval
	}
	return nil
}
