// Package retention decides when soft-deleted equipment may be purged.
package retention

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/honlab/equiptrack/internal/model"
)

// Policy computes when an item deleted at a given time becomes purgeable.
type Policy interface {
	// PurgeAt returns the earliest instant at which an item soft-deleted at
	// deletedAt may be purged.
	PurgeAt(deletedAt time.Time) time.Time
	String() string
}

// Expired reports whether an item deleted at deletedAt is purgeable at now.
func Expired(p Policy, deletedAt, now time.Time) bool {
	return !now.Before(p.PurgeAt(deletedAt))
}

// Select returns the soft-deleted items that are purgeable at now. The
// deletion time of an item is its LastUpdated timestamp.
func Select(p Policy, items []model.Equipment, now time.Time) []model.Equipment {
	var out []model.Equipment
	for _, e := range items {
		if !e.Deleted() {
			continue
		}
		if Expired(p, e.LastUpdated, now) {
			out = append(out, e)
		}
	}
	return out
}

// FixedWindow keeps deleted items for a fixed number of days.
type FixedWindow struct {
	Days int
}

// PurgeAt implements Policy.
func (f FixedWindow) PurgeAt(deletedAt time.Time) time.Time {
	return deletedAt.Add(time.Duration(f.Days) * 24 * time.Hour)
}

func (f FixedWindow) String() string {
	return fmt.Sprintf("fixed(%dd)", f.Days)
}

// WeeklyCutoff purges deleted items at the next weekly cutoff, no matter how
// recently they were deleted.
type WeeklyCutoff struct {
	Weekday  time.Weekday
	Hour     int
	Minute   int
	Location *time.Location
}

// PurgeAt implements Policy. The cutoff is the first configured weekday and
// time strictly after deletedAt.
func (w WeeklyCutoff) PurgeAt(deletedAt time.Time) time.Time {
	loc := w.Location
	if loc == nil {
		loc = time.Local
	}
	t := deletedAt.In(loc)
	days := (int(w.Weekday) - int(t.Weekday()) + 7) % 7
	cutoff := time.Date(t.Year(), t.Month(), t.Day()+days, w.Hour, w.Minute, 0, 0, loc)
	if !cutoff.After(t) {
		cutoff = time.Date(cutoff.Year(), cutoff.Month(), cutoff.Day()+7, w.Hour, w.Minute, 0, 0, loc)
	}
	return cutoff
}

func (w WeeklyCutoff) String() string {
	return fmt.Sprintf("weekly(%s %02d:%02d)", w.Weekday, w.Hour, w.Minute)
}

// ParseWeekday parses an English weekday name, case-insensitively. Three
// letter abbreviations are accepted.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || (len(s) == 3 && strings.HasPrefix(name, s)) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

// ParseClock parses a HH:MM wall-clock time.
func ParseClock(s string) (hour, minute int, err error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	hour, err = strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err = strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour, minute, nil
}
