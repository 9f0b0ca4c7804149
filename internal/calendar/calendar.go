// Package calendar derives calendar-day keys from timestamps.
//
// A day key is the canonical "YYYY-MM-DD" form of a date in one explicit
// time zone. Keys compare lexicographically in chronological order, which
// the snapshot store relies on for sorting and retention.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

// Layout is the format of a day key.
const Layout = "2006-01-02"

// Calendar pins day boundaries to a single location.
type Calendar struct {
	loc *time.Location
}

// New returns a Calendar for loc. A nil location means time.Local.
func New(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.Local
	}
	return Calendar{loc: loc}
}

// Load returns a Calendar for an IANA zone name. Empty and "Local" select
// the host zone.
func Load(name string) (Calendar, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "local") {
		return New(time.Local), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return Calendar{}, fmt.Errorf("%w: can't load time zone %q", err, name)
	}
	return New(loc), nil
}

func (c Calendar) Location() *time.Location {
	if c.loc == nil {
		return time.Local
	}
	return c.loc
}

// DateKey returns the day key of t in the calendar's zone.
func (c Calendar) DateKey(t time.Time) string {
	return t.In(c.Location()).Format(Layout)
}

// Start returns midnight of the given day in the calendar's zone.
func (c Calendar) Start(key string) time.Time {
	d := MustParse(key)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, c.Location())
}

// Parse validates a day key. Only the canonical zero-padded form is accepted.
func Parse(key string) (time.Time, error) {
	d, err := time.Parse(Layout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day key %q: %w", key, err)
	}
	if d.Format(Layout) != key {
		return time.Time{}, fmt.Errorf("invalid day key %q: not canonical", key)
	}
	return d, nil
}

// MustParse is like Parse but panics on a malformed key. A malformed key
// reaching the store is a programming error.
func MustParse(key string) time.Time {
	d, err := Parse(key)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// Valid reports whether key is a canonical day key.
func Valid(key string) bool {
	_, err := Parse(key)
	return err == nil
}

// AddDays shifts a day key by n calendar days.
func AddDays(key string, n int) string {
	return MustParse(key).AddDate(0, 0, n).Format(Layout)
}

// Previous returns the calendar day before key.
func Previous(key string) string {
	return AddDays(key, -1)
}

// DaysBetween returns the number of calendar days from a to b.
func DaysBetween(a, b string) int {
	return int(MustParse(b).Sub(MustParse(a)).Hours() / 24)
}
