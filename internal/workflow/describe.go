package workflow

import (
	"fmt"
	"strings"
)

func percent(f float64) string {
	return fmt.Sprintf("%.0f%%", f*100)
}

// Describe renders a multi-line summary of a report for reviewers.
func Describe(r *Report, claims ClaimSet) string {
	var b strings.Builder

	switch r.Status {
	case StatusError:
		fmt.Fprintf(&b, "ERROR\n%s", strings.Join(r.Flags, "; "))
		return b.String()
	case StatusDisqualified:
		b.WriteString("DISQUALIFIED\n")
		fmt.Fprintf(&b, "%d commit(s) predate the claimed start.\n", r.Timeline.PreStart)
		fmt.Fprintf(&b, "Commits observed: %d\n", r.Timeline.Total())
		fmt.Fprintf(&b, "External calls used: %d", r.ExternalCallsUsed)
		return b.String()
	case StatusVerified:
		fmt.Fprintf(&b, "VERIFIED (confidence %s)\n", percent(r.Confidence))
	default:
		fmt.Fprintf(&b, "FLAGGED FOR REVIEW (confidence %s)\n", percent(r.Confidence))
	}

	var core []string
	for _, c := range claims.TechStack {
		if c.Core() {
			core = append(core, c.Name)
		}
	}

	fmt.Fprintf(&b, "\nTech stack: %d/%d confirmed\n", len(r.TechFound), len(r.TechFound)+len(r.TechMissing))
	if len(core) > 0 {
		var foundCore, missingCore []string
		for _, name := range core {
			if r.TechEvidence[name].Found() {
				foundCore = append(foundCore, name)
			} else {
				missingCore = append(missingCore, name)
			}
		}
		fmt.Fprintf(&b, "  Core: %d/%d confirmed\n", len(foundCore), len(core))
		if len(missingCore) > 0 {
			fmt.Fprintf(&b, "  Missing core: %s\n", strings.Join(missingCore, ", "))
		}
	}
	if len(r.TechFound) > 0 {
		fmt.Fprintf(&b, "  Found: %s\n", strings.Join(r.TechFound, ", "))
	}

	fmt.Fprintf(&b, "\nTeam: %d claimed member(s)\n", len(claims.TeamMembers))
	if len(r.Team.Matched) > 0 {
		fmt.Fprintf(&b, "  Commits found for: %s\n", strings.Join(r.Team.Matched, ", "))
	}
	if len(r.Team.Unmatched) > 0 {
		fmt.Fprintf(&b, "  No commits seen for: %s\n", strings.Join(r.Team.Unmatched, ", "))
	}
	if len(r.Team.Unauthorized) > 0 {
		names := make([]string, len(r.Team.Unauthorized))
		for i, c := range r.Team.Unauthorized {
			names[i] = c.Name
		}
		fmt.Fprintf(&b, "  Other contributors: %s\n", strings.Join(names, ", "))
	}

	tl := r.Timeline
	fmt.Fprintf(&b, "\nTimeline: %d/%d commits in window, %d in leeway\n", tl.InWindow, tl.Total(), tl.Leeway)
	fmt.Fprintf(&b, "Core logic: %s\n", r.CoreLogic.Status)
	fmt.Fprintf(&b, "External calls used: %d", r.ExternalCallsUsed)

	return b.String()
}

// Reason gives a one or two sentence explanation of the status.
func Reason(r *Report, claims ClaimSet) string {
	switch r.Status {
	case StatusError:
		return fmt.Sprintf("Validation could not run: %s.", strings.Join(r.Flags, "; "))
	case StatusDisqualified:
		return fmt.Sprintf(
			"Disqualified: found %d commit(s) made before the claimed start, so the repository predates the claimed effort.",
			r.Timeline.PreStart,
		)
	case StatusFlagged:
		var missing []string
		for _, c := range claims.TechStack {
			if c.Core() && !r.TechEvidence[c.Name].Found() {
				missing = append(missing, c.Name)
			}
		}
		return fmt.Sprintf(
			"Flagged: missing %d core technolog%s (%s). Manual review required.",
			len(missing), plural(len(missing), "y", "ies"), strings.Join(missing, ", "),
		)
	default:
		if len(r.Flags) > 0 {
			return fmt.Sprintf(
				"Project verified with %s confidence. Core requirements met (notes: %s).",
				percent(r.Confidence), strings.Join(r.Flags, "; "),
			)
		}
		return fmt.Sprintf(
			"Project verified with %s confidence. All technologies found and no commits predate the start.",
			percent(r.Confidence),
		)
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
