// Package refdata holds the fixed lookup tables the dashboard dataset is
// keyed against: the week-key calendar behind TrustHistory and the MBM event
// calendar behind attendance. The tables are configuration, not computed
// data; a key missing from them is a data mismatch and fails fast.
package refdata

import (
	_ "embed"
	"fmt"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed calendar.yaml
var calendarYAML []byte

// ErrUnknownKey reports a week or MBM key absent from the calendar tables.
// It deliberately does not fall back to "no data": an unresolvable key means
// the dataset and the calendar disagree.
type ErrUnknownKey struct {
	Kind string
	Key  string
}

func (e *ErrUnknownKey) Error() string {
	return fmt.Sprintf("refdata: unknown %s key %q", e.Kind, e.Key)
}

// MBMEvent is one recurring marketing event occurrence.
type MBMEvent struct {
	Key   string    `json:"key"`
	Date  time.Time `json:"date"`
	Label string    `json:"label"`
}

// Calendar resolves week keys and MBM keys to calendar dates.
type Calendar struct {
	weeks map[string]time.Time
	mbm   map[string]MBMEvent
}

type calendarFile struct {
	Weeks     map[string]string `yaml:"weeks"`
	MBMEvents map[string]struct {
		Date  string `yaml:"date"`
		Label string `yaml:"label"`
	} `yaml:"mbm_events"`
}

// Load parses the embedded calendar tables.
func Load() (*Calendar, error) {
	return loadFrom(calendarYAML)
}

func loadFrom(raw []byte) (*Calendar, error) {
	var file calendarFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("refdata: parsing calendar: %w", err)
	}

	cal := &Calendar{
		weeks: make(map[string]time.Time, len(file.Weeks)),
		mbm:   make(map[string]MBMEvent, len(file.MBMEvents)),
	}

	for key, dateStr := range file.Weeks {
		date, err := time.Parse(time.DateOnly, dateStr)
		if err != nil {
			return nil, fmt.Errorf("refdata: week %q has invalid date %q: %w", key, dateStr, err)
		}
		cal.weeks[key] = date
	}

	for key, ev := range file.MBMEvents {
		date, err := time.Parse(time.DateOnly, ev.Date)
		if err != nil {
			return nil, fmt.Errorf("refdata: mbm event %q has invalid date %q: %w", key, ev.Date, err)
		}
		cal.mbm[key] = MBMEvent{Key: key, Date: date, Label: ev.Label}
	}

	return cal, nil
}

// WeekDate resolves a week key to the Monday it denotes.
func (c *Calendar) WeekDate(key string) (time.Time, error) {
	date, ok := c.weeks[key]
	if !ok {
		return time.Time{}, &ErrUnknownKey{Kind: "week", Key: key}
	}
	return date, nil
}

// WeekKeyFor returns the key of the latest calendar week starting at or
// before the given date. Used by the snapshot scheduler to file the current
// trust score under the right week.
func (c *Calendar) WeekKeyFor(date time.Time) (string, error) {
	var bestKey string
	var bestDate time.Time
	for key, weekDate := range c.weeks {
		if weekDate.After(date) {
			continue
		}
		if bestKey == "" || weekDate.After(bestDate) {
			bestKey, bestDate = key, weekDate
		}
	}
	if bestKey == "" {
		return "", &ErrUnknownKey{Kind: "week", Key: date.Format(time.DateOnly)}
	}
	return bestKey, nil
}

// MBMEvent resolves an MBM event key.
func (c *Calendar) MBMEvent(key string) (MBMEvent, error) {
	ev, ok := c.mbm[key]
	if !ok {
		return MBMEvent{}, &ErrUnknownKey{Kind: "mbm", Key: key}
	}
	return ev, nil
}

// MBMEvents lists every known MBM event in chronological order.
func (c *Calendar) MBMEvents() []MBMEvent {
	events := make([]MBMEvent, 0, len(c.mbm))
	for _, ev := range c.mbm {
		events = append(events, ev)
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})
	return events
}
