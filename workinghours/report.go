package workinghours

import (
	"appointments-system/timezone"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrOutsideWorkingHours = errors.New("appointment is outside working hours")

// ReportEntry is one attendee's line in a RejectionReport.
type ReportEntry struct {
	UserID     uuid.UUID `json:"user_id"`
	UserName   string    `json:"user_name"`
	Timezone   string    `json:"timezone"`
	UTCOffset  string    `json:"utc_offset"`
	Reason     string    `json:"reason"`
	LocalStart string    `json:"local_start,omitempty"`
	LocalEnd   string    `json:"local_end,omitempty"`
}

// RejectionReport aggregates every working-hours failure of a request. It
// is returned as an error and matches ErrOutsideWorkingHours.
type RejectionReport struct {
	Entries []ReportEntry `json:"failures"`
}

// NewRejectionReport renders failures in order. Offsets are taken at now,
// not at the appointment date, so they can differ from the appointment's
// actual offset across a DST change.
func NewRejectionReport(failures []Failure, now time.Time) *RejectionReport {
	entries := make([]ReportEntry, len(failures))
	for i, f := range failures {
		offset, err := timezone.FormatOffset(now, f.User.Timezone)
		if err != nil {
			offset = ""
		}
		entries[i] = ReportEntry{
			UserID:     f.User.ID,
			UserName:   f.User.Name,
			Timezone:   f.User.Timezone,
			UTCOffset:  offset,
			Reason:     f.Reason(),
			LocalStart: f.LocalStart,
			LocalEnd:   f.LocalEnd,
		}
	}
	return &RejectionReport{Entries: entries}
}

func (r *RejectionReport) Error() string {
	parts := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		zone := e.Timezone
		if zone == "" {
			zone = "no timezone"
		} else if e.UTCOffset != "" {
			zone = fmt.Sprintf("%s, %s", zone, e.UTCOffset)
		}
		parts[i] = fmt.Sprintf("%s (%s): %s", e.UserName, zone, e.Reason)
	}
	return fmt.Sprintf("%s for: %s", ErrOutsideWorkingHours, strings.Join(parts, "; "))
}

func (r *RejectionReport) Is(target error) bool {
	return target == ErrOutsideWorkingHours
}
