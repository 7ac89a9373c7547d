// Package alarm keeps the gong's ring schedule and fires it.
package alarm

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	gongerrors "github.com/tessro/gong/internal/errors"
)

// DefaultTrack is rung when an alarm names no track.
const DefaultTrack = 1

var dayNames = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Alarm is one scheduled ring. Days uses 0 for Monday through 6 for Sunday;
// an empty list rings every day.
type Alarm struct {
	ID       int    `json:"id"`
	Time     string `json:"time"`
	Days     []int  `json:"days"`
	Duration int    `json:"duration"`
	Track    int    `json:"track"`
	Active   bool   `json:"active"`
}

// Patch holds the fields of an update. Nil fields are left alone.
type Patch struct {
	Time     *string `json:"time,omitempty"`
	Days     *[]int  `json:"days,omitempty"`
	Duration *int    `json:"duration,omitempty"`
	Track    *int    `json:"track,omitempty"`
	Active   *bool   `json:"active,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Time == nil && p.Days == nil && p.Duration == nil && p.Track == nil && p.Active == nil
}

// Apply copies the set fields onto a.
func (p Patch) Apply(a *Alarm) {
	if p.Time != nil {
		a.Time = strings.TrimSpace(*p.Time)
	}
	if p.Days != nil {
		a.Days = append([]int(nil), (*p.Days)...)
	}
	if p.Duration != nil {
		a.Duration = *p.Duration
	}
	if p.Track != nil {
		a.Track = *p.Track
	}
	if p.Active != nil {
		a.Active = *p.Active
	}
}

// ParseClock parses an HH:MM time of day.
func ParseClock(s string) (hour, minute int, err error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, 0, fmt.Errorf("time %q must be HH:MM", s)
	}
	hour, err = strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("time %q has an invalid hour", s)
	}
	minute, err = strconv.Atoi(m)
	if err != nil || len(m) != 2 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("time %q has an invalid minute", s)
	}
	return hour, minute, nil
}

// Validate checks a and normalizes its time to zero-padded HH:MM.
func (a *Alarm) Validate() error {
	hour, minute, err := ParseClock(a.Time)
	if err != nil {
		return fmt.Errorf("%w: %v", gongerrors.ErrInvalidAlarm, err)
	}
	a.Time = fmt.Sprintf("%02d:%02d", hour, minute)

	if a.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive", gongerrors.ErrInvalidAlarm)
	}
	if a.Track < 0 {
		return fmt.Errorf("%w: track must be positive", gongerrors.ErrInvalidAlarm)
	}
	if a.Track == 0 {
		a.Track = DefaultTrack
	}
	for _, d := range a.Days {
		if d < 0 || d > 6 {
			return fmt.Errorf("%w: day %d out of range 0..6", gongerrors.ErrInvalidAlarm, d)
		}
	}
	if a.Days == nil {
		a.Days = []int{}
	}
	return nil
}

// Weekday converts a time.Weekday to the alarm day index.
func Weekday(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// Due reports whether a should ring at the minute containing t.
func (a Alarm) Due(t time.Time) bool {
	if !a.Active {
		return false
	}
	hour, minute, err := ParseClock(a.Time)
	if err != nil || t.Hour() != hour || t.Minute() != minute {
		return false
	}
	if len(a.Days) == 0 {
		return true
	}
	today := Weekday(t.Weekday())
	for _, d := range a.Days {
		if d == today {
			return true
		}
	}
	return false
}

// RingTime returns how long a rings.
func (a Alarm) RingTime() time.Duration {
	return time.Duration(a.Duration) * time.Second
}

// DaysString renders the day list, e.g. "Mon,Wed,Fri" or "every day".
func (a Alarm) DaysString() string {
	if len(a.Days) == 0 {
		return "every day"
	}
	names := make([]string, 0, len(a.Days))
	for _, d := range a.Days {
		if d >= 0 && d < len(dayNames) {
			names = append(names, dayNames[d])
		}
	}
	return strings.Join(names, ",")
}

// ParseDays parses a comma separated list of day indexes or names.
func ParseDays(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "daily") {
		return []int{}, nil
	}
	var days []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if n, err := strconv.Atoi(part); err == nil {
			days = append(days, n)
			continue
		}
		found := false
		for i, name := range dayNames {
			if strings.EqualFold(part, name) {
				days = append(days, i)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: unknown day %q", gongerrors.ErrInvalidAlarm, part)
		}
	}
	return days, nil
}
