package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const selectColumns = `SELECT id, title, creator_id, start_at, end_at, participants, created_at FROM appointments`

func (a *Accessor) CreateAppointment(ctx context.Context, appt Appointment, now time.Time) (*Appointment, error) {
	if err := appt.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	id := uuid.New()
	participants := appt.ParticipantIDs
	if participants == nil {
		participants = []uuid.UUID{}
	}

	query := `INSERT INTO appointments (id, title, creator_id, start_at, end_at, participants, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := a.db.ExecContext(ctx, query, id, appt.Title, appt.CreatorID, appt.Start.UTC(), appt.End.UTC(), ParticipantsColumn(participants), now); err != nil {
		return nil, fmt.Errorf("exec context: %w", err)
	}

	return &Appointment{
		ID:             id,
		Title:          appt.Title,
		CreatorID:      appt.CreatorID,
		Start:          appt.Start.UTC(),
		End:            appt.End.UTC(),
		ParticipantIDs: participants,
		CreatedAt:      now,
	}, nil
}

func (a *Accessor) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := a.db.QueryRowContext(ctx, selectColumns+` WHERE id = $1`, id)
	appt, err := scanAppointment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan: %w", err)
	}
	return appt, nil
}

// GetAppointmentsForUser returns the appointments the user created or was
// invited to, earliest first.
func (a *Accessor) GetAppointmentsForUser(ctx context.Context, userID uuid.UUID) ([]Appointment, error) {
	rows, err := a.db.QueryContext(ctx, selectColumns+` WHERE creator_id = $1 OR $1 = ANY(participants) ORDER BY start_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("query context: %w", err)
	}
	defer rows.Close()

	appts := []Appointment{}
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		appts = append(appts, *appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return appts, nil
}

// DeleteAppointment reports whether a row was removed.
func (a *Accessor) DeleteAppointment(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `DELETE FROM appointments WHERE id = $1`
	res, err := a.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("exec context: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAppointment(s scanner) (*Appointment, error) {
	var appt Appointment
	var participants ParticipantsColumn

	if err := s.Scan(&appt.ID, &appt.Title, &appt.CreatorID, &appt.Start, &appt.End, &participants, &appt.CreatedAt); err != nil {
		return nil, err
	}
	appt.Start = appt.Start.UTC()
	appt.End = appt.End.UTC()
	appt.ParticipantIDs = []uuid.UUID(participants)
	if appt.ParticipantIDs == nil {
		appt.ParticipantIDs = []uuid.UUID{}
	}

	return &appt, nil
}
