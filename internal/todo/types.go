package todo

import (
	"encoding/json"
	"time"
)

// TimeFormat is the ISO-8601 layout used for timestamps on the wire:
// UTC with exactly three fractional digits, e.g. 2026-10-18T12:00:00.000Z.
const TimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Todo is a single task record.
type Todo struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Completed bool       `json:"completed"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Clone returns a copy that shares no memory with t.
func (t Todo) Clone() Todo {
	c := t
	if t.UpdatedAt != nil {
		u := *t.UpdatedAt
		c.UpdatedAt = &u
	}
	return c
}

// MarshalJSON renders timestamps with TimeFormat. Decoding uses the default
// time.Time parser, which accepts the same layout.
func (t Todo) MarshalJSON() ([]byte, error) {
	type wire struct {
		ID        int64  `json:"id"`
		Title     string `json:"title"`
		Completed bool   `json:"completed"`
		CreatedAt string `json:"createdAt"`
		UpdatedAt string `json:"updatedAt,omitempty"`
	}
	w := wire{
		ID:        t.ID,
		Title:     t.Title,
		Completed: t.Completed,
		CreatedAt: t.CreatedAt.UTC().Format(TimeFormat),
	}
	if t.UpdatedAt != nil {
		w.UpdatedAt = t.UpdatedAt.UTC().Format(TimeFormat)
	}
	return json.Marshal(w)
}

// Patch lists the fields an update replaces. Nil fields are left untouched.
type Patch struct {
	Title     *string
	Completed *bool
}

// IsEmpty reports whether the patch changes no field.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Completed == nil
}

// now returns the current UTC time at millisecond precision, the resolution
// timestamps are reported with.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
