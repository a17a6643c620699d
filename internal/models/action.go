// Package models defines the domain types for donefold.
package models

import "time"

// Action represents one distinct unit of recorded work within a week, keyed by
// name. The first occurrence of a name in the journal is canonical; repeated
// top-level occurrences merge into it by appending the new weekday index.
type Action struct {
	// IndentWidth is the indentation column at which the action line was
	// found. Note lines are shifted left by this width so their indentation
	// stays relative to the action.
	IndentWidth int `json:"-"`

	Name     string `json:"name"`
	Category string `json:"category,omitempty"`

	// WeekdayNums is a comma-separated list of weekday indices (0 = Monday)
	// on which the action recurred, in first-seen order. Empty when the
	// action appeared before any day header.
	WeekdayNums string `json:"weekday_nums,omitempty"`

	// Notes holds the raw note lines in source order.
	Notes []string `json:"notes,omitempty"`
}

// FileMetadata is a lightweight representation returned by journal list operations.
type FileMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultWeekdays is the weekday name list used when the configuration does
// not override it. Index 0 is Monday, matching the journal's day headers.
var DefaultWeekdays = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// Rules carries the category and weekday sets the parser and aggregator run
// with. They come from configuration so tests can swap in alternate sets.
type Rules struct {
	Categories        map[string]struct{}
	IgnoredCategories map[string]struct{}
	Weekdays          []string
}

// NewRules builds Rules from configuration slices. A weekday list that is not
// exactly seven names falls back to DefaultWeekdays.
func NewRules(categories, ignored, weekdays []string) Rules {
	r := Rules{
		Categories:        toSet(categories),
		IgnoredCategories: toSet(ignored),
		Weekdays:          DefaultWeekdays,
	}
	if len(weekdays) == len(DefaultWeekdays) {
		r.Weekdays = weekdays
	}
	return r
}

// WeekdayIndex returns the index of the named weekday, or false when the name
// is not in the configured list.
func (r Rules) WeekdayIndex(name string) (int, bool) {
	for i, w := range r.Weekdays {
		if w == name {
			return i, true
		}
	}
	return 0, false
}

// WeekdayName returns the name for a weekday index, or empty string when the
// index is out of range.
func (r Rules) WeekdayName(i int) string {
	if i < 0 || i >= len(r.Weekdays) {
		return ""
	}
	return r.Weekdays[i]
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it] = struct{}{}
	}
	return set
}
