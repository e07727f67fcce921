package workflow

import (
	"fmt"
	"strings"
	"time"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05-0700",
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 timestamp. Timestamps without an offset
// are interpreted in loc (UTC when loc is nil).
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if loc == nil {
		loc = time.UTC
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
}

// Period is one named span of a hackathon schedule.
type Period struct {
	Name  string `json:"period" yaml:"period"`
	Start string `json:"start_time" yaml:"start_time"`
	End   string `json:"end_time" yaml:"end_time"`
}

// SubmissionWindow selects the claimed window from a hackathon schedule: the
// first period whose name mentions submissions, or else the span from the
// first period's start to the last period's end.
func SubmissionWindow(schedule []Period, loc *time.Location) (Window, error) {
	if len(schedule) == 0 {
		return Window{}, ErrNoSubmissionRange
	}

	start, end := schedule[0].Start, schedule[len(schedule)-1].End
	for _, p := range schedule {
		if strings.Contains(strings.ToLower(p.Name), "submission") {
			start, end = p.Start, p.End
			break
		}
	}

	s, err := ParseTimestamp(start, loc)
	if err != nil {
		return Window{}, fmt.Errorf("window start: %w", err)
	}
	e, err := ParseTimestamp(end, loc)
	if err != nil {
		return Window{}, fmt.Errorf("window end: %w", err)
	}

	w := Window{Start: s, End: e}
	return w, w.Validate()
}
