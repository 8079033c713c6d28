package appointment

import (
	"appointments-system/timezone"
	"appointments-system/user"
	"appointments-system/workinghours"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const maxConcurrentLookups = 8

var (
	ErrCreatorNotFound = errors.New("creator not found")
	ErrMissingTimezone = errors.New("creator has no preferred timezone")
	ErrInvalidInterval = errors.New("start must be before end")
)

// Assemble turns req into an appointment ready to be stored, or explains why
// it cannot be. It never writes.
//
// Both bounds are normalized with the creator's timezone and must then fall
// within working hours for the creator and every resolvable participant.
// Participant ids the directory does not know are skipped during validation
// but kept on the appointment. A working-hours rejection is returned as a
// *workinghours.RejectionReport whose offsets are taken at now.
func (a *Accessor) Assemble(ctx context.Context, req Request, now time.Time) (*Appointment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	participantIDs := uniqueIDs(req.ParticipantIDs)

	creator, participants, err := a.resolveAttendees(ctx, req.CreatorID, participantIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve attendees: %w", err)
	}
	if creator == nil {
		return nil, ErrCreatorNotFound
	}
	if !creator.HasTimezone() {
		return nil, ErrMissingTimezone
	}

	start, err := timezone.ToUTC(req.Start, creator.Timezone)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	end, err := timezone.ToUTC(req.End, creator.Timezone)
	if err != nil {
		return nil, fmt.Errorf("end: %w", err)
	}
	if !start.Before(end) {
		return nil, ErrInvalidInterval
	}

	attendees := append([]user.User{*creator}, participants...)
	if failures := workinghours.ValidateAll(attendees, start, end); len(failures) > 0 {
		return nil, workinghours.NewRejectionReport(failures, now)
	}

	return &Appointment{
		Title:          req.Title,
		CreatorID:      creator.ID,
		Start:          start,
		End:            end,
		ParticipantIDs: participantIDs,
	}, nil
}

// resolveAttendees looks up the creator and every participant concurrently.
// Participants come back in request order with unknown ids and the creator
// left out.
func (a *Accessor) resolveAttendees(ctx context.Context, creatorID uuid.UUID, participantIDs []uuid.UUID) (*user.User, []user.User, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)

	var creator *user.User
	g.Go(func() error {
		u, err := a.directory.GetUser(ctx, creatorID)
		if err != nil {
			return fmt.Errorf("get creator: %w", err)
		}
		creator = u
		return nil
	})

	resolved := make([]*user.User, len(participantIDs))
	for i, id := range participantIDs {
		if id == creatorID {
			continue
		}
		g.Go(func() error {
			u, err := a.directory.GetUser(ctx, id)
			if err != nil {
				return fmt.Errorf("get participant %s: %w", id, err)
			}
			resolved[i] = u
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	participants := make([]user.User, 0, len(resolved))
	for _, u := range resolved {
		if u != nil {
			participants = append(participants, *u)
		}
	}
	return creator, participants, nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
