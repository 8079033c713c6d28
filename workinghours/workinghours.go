// Package workinghours decides whether an instant falls inside an
// attendee's local working hours and explains every bound that does not.
//
// The window opens at 09:00 inclusive and closes at exactly 17:00:00. Any
// reading after 17:00:00, including 17:00:01, is outside the window.
package workinghours

import (
	"appointments-system/timezone"
	"appointments-system/user"
	"time"
)

const (
	StartHour = 9
	EndHour   = 17
)

// Failure records which bounds of an appointment fall outside one
// attendee's working hours, with both bounds rendered in their zone.
type Failure struct {
	User          user.User
	ViolatesStart bool
	ViolatesEnd   bool
	LocalStart    string
	LocalEnd      string
}

// Reason is "start", "end" or "start & end".
func (f Failure) Reason() string {
	switch {
	case f.ViolatesStart && f.ViolatesEnd:
		return "start & end"
	case f.ViolatesStart:
		return "start"
	default:
		return "end"
	}
}

// IsWithinWorkingHours fails closed: an empty or unknown zone is never
// within working hours.
func IsWithinWorkingHours(instant time.Time, zone string) bool {
	local, err := timezone.ToLocal(instant, zone)
	if err != nil {
		return false
	}
	if local.Hour >= StartHour && local.Hour < EndHour {
		return true
	}
	return local.Hour == EndHour && local.Minute == 0 && local.Second == 0 && local.Nanosecond == 0
}

// CheckAttendee returns nil when both start and end are within u's working
// hours.
func CheckAttendee(u user.User, start, end time.Time) *Failure {
	startOK := IsWithinWorkingHours(start, u.Timezone)
	endOK := IsWithinWorkingHours(end, u.Timezone)
	if startOK && endOK {
		return nil
	}

	return &Failure{
		User:          u,
		ViolatesStart: !startOK,
		ViolatesEnd:   !endOK,
		LocalStart:    localDisplay(start, u.Timezone),
		LocalEnd:      localDisplay(end, u.Timezone),
	}
}

// ValidateAll checks every attendee in order and keeps the failures in that
// same order.
func ValidateAll(attendees []user.User, start, end time.Time) []Failure {
	var failures []Failure
	for _, attendee := range attendees {
		if f := CheckAttendee(attendee, start, end); f != nil {
			failures = append(failures, *f)
		}
	}
	return failures
}

func localDisplay(instant time.Time, zone string) string {
	local, err := timezone.ToLocal(instant, zone)
	if err != nil {
		return ""
	}
	return local.String()
}
