package workflow

import (
	"time"

	"github.com/JaimeStill/hackid/pkg/source"
)

// Leeway is the grace period after the window end during which commits are
// noted but not counted against the team.
const Leeway = 5 * time.Hour

// ClassifyTimeline places every commit in exactly one bucket:
//
//	t < start                 pre-start
//	start <= t <= end         in-window
//	end < t <= end + Leeway   leeway
//	otherwise                 after-leeway
//
// It also returns the in-window commits for team attribution.
func ClassifyTimeline(commits []source.Commit, w Window) (TimelineVerdict, []source.Commit) {
	loc := w.Start.Location()
	start := w.Start
	end := w.End.In(loc)
	graceEnd := end.Add(Leeway)

	var (
		v        TimelineVerdict
		inWindow []source.Commit
		first    time.Time
		last     time.Time
	)

	for i, c := range commits {
		t := c.Timestamp.In(loc)

		switch {
		case t.Before(start):
			v.PreStart++
		case !t.After(end):
			v.InWindow++
			inWindow = append(inWindow, c)
		case !t.After(graceEnd):
			v.Leeway++
		default:
			v.AfterLeeway++
		}

		if i == 0 || t.Before(first) {
			first = t
		}
		if i == 0 || t.After(last) {
			last = t
		}
	}

	if len(commits) > 0 {
		v.FirstCommit = &first
		v.LastCommit = &last
	}

	return v, inWindow
}
