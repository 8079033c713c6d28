// Package timezone converts between wall-clock readings in an IANA zone and
// absolute UTC instants.
package timezone

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

var (
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	ErrUnknownTimezone  = errors.New("unknown timezone")
)

// wallClockLayouts are tried in order. None carries an offset, so inputs
// such as "2024-01-10T09:00Z" fail to parse.
var wallClockLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// LocalTime is the clock reading of an instant in some zone.
type LocalTime struct {
	Hour       int
	Minute     int
	Second     int
	Nanosecond int
}

// String renders the reading as HH:mm.
func (l LocalTime) String() string {
	return fmt.Sprintf("%02d:%02d", l.Hour, l.Minute)
}

// LoadZone resolves an IANA identifier. The empty string and "Local" are
// rejected even though time.LoadLocation accepts them.
func LoadZone(id string) (*time.Location, error) {
	id = strings.TrimSpace(id)
	if id == "" || id == "Local" {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTimezone, id)
	}
	loc, err := time.LoadLocation(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrUnknownTimezone, id, err)
	}
	return loc, nil
}

// IsValid reports whether id names a loadable zone.
func IsValid(id string) bool {
	_, err := LoadZone(id)
	return err == nil
}

// ToUTC interprets wallClock as a reading in zone and returns the matching
// UTC instant. The zone's rules for that calendar date apply.
func ToUTC(wallClock, zone string) (time.Time, error) {
	loc, err := LoadZone(zone)
	if err != nil {
		return time.Time{}, err
	}

	wallClock = strings.TrimSpace(wallClock)
	for _, layout := range wallClockLayouts {
		t, err := time.ParseInLocation(layout, wallClock, loc)
		if err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, wallClock)
}

// ToLocal returns the clock reading of instant in zone.
func ToLocal(instant time.Time, zone string) (LocalTime, error) {
	loc, err := LoadZone(zone)
	if err != nil {
		return LocalTime{}, err
	}
	t := instant.In(loc)
	return LocalTime{
		Hour:       t.Hour(),
		Minute:     t.Minute(),
		Second:     t.Second(),
		Nanosecond: t.Nanosecond(),
	}, nil
}

// FormatOffset renders the UTC offset of zone at instant, e.g. "UTC+05:30".
func FormatOffset(instant time.Time, zone string) (string, error) {
	loc, err := LoadZone(zone)
	if err != nil {
		return "", err
	}
	_, offset := instant.In(loc).Zone()

	sign := '+'
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	return fmt.Sprintf("UTC%c%02d:%02d", sign, offset/3600, (offset%3600)/60), nil
}
