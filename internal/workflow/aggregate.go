package workflow

import (
	"fmt"
	"math"
	"time"
)

// Confidence shares. Terms whose inputs are empty are omitted, not zero-filled,
// except the timeline term, which contributes zero for a silent window.
const (
	techShare     = 0.5
	timelineShare = 0.3
	logicShare    = 0.2
)

var logicScores = map[LogicStatus]float64{
	LogicVerified:     1.0,
	LogicUnverified:   0.5,
	LogicContradicted: 0.0,
	LogicSkipped:      0.8,
}

// Findings are the evidence outputs joined before aggregation.
type Findings struct {
	Timeline TimelineVerdict
	Tech     map[string]Evidence
	Team     TeamVerdict
	Logic    CoreLogicVerdict
}

// Confidence combines the evidence into a score in [0,1].
func Confidence(claims []WeightedClaim, f Findings) float64 {
	var score float64

	var total, found float64
	for _, c := range claims {
		total += c.Weight
		if f.Tech[c.Name].Found() {
			found += c.Weight
		}
	}
	if total > 0 {
		score += techShare * found / total
	}

	if denom := f.Timeline.InWindow + f.Timeline.Leeway; denom > 0 {
		score += timelineShare * float64(f.Timeline.InWindow) / float64(denom)
	}

	logic, ok := logicScores[f.Logic.Status]
	if !ok {
		logic = logicScores[LogicSkipped]
	}
	score += logicShare * logic

	return math.Round(min(max(score, 0), 1)*1e4) / 1e4
}

// DecideStatus applies the status rules after evidence gathering: FLAGGED when
// any core-weighted technology lacks evidence, otherwise VERIFIED.
// Disqualification is decided earlier, from the timeline alone.
func DecideStatus(claims []WeightedClaim, tech map[string]Evidence) Status {
	for _, c := range claims {
		if c.Core() && !tech[c.Name].Found() {
			return StatusFlagged
		}
	}
	return StatusVerified
}

// Aggregate assembles the report for a run that was not disqualified.
func Aggregate(claims ClaimSet, f Findings) *Report {
	found, missing := splitTech(claims.TechStack, f.Tech)

	return &Report{
		Status:       DecideStatus(claims.TechStack, f.Tech),
		TechFound:    found,
		TechMissing:  missing,
		TechEvidence: f.Tech,
		Team:         f.Team,
		Timeline:     f.Timeline,
		CoreLogic:    f.Logic,
		Flags:        Flags(claims, f),
		Confidence:   Confidence(claims.TechStack, f),
		CompletedAt:  time.Now(),
	}
}

// Disqualify assembles the report for a run stopped by pre-start commits.
// No other evidence was gathered, so every claim is reported as unconfirmed.
func Disqualify(claims ClaimSet, tl TimelineVerdict) *Report {
	_, missing := splitTech(claims.TechStack, nil)

	evidence := make(map[string]Evidence, len(claims.TechStack))
	for _, c := range claims.TechStack {
		evidence[c.Name] = EvidenceNotFound
	}

	flag := fmt.Sprintf("DISQUALIFIED: %d commit(s) made before the claimed start", tl.PreStart)
	if tl.FirstCommit != nil {
		flag += fmt.Sprintf(" (first commit %s)", tl.FirstCommit.Format(time.RFC3339))
	}

	return &Report{
		Status:       StatusDisqualified,
		TechFound:    []string{},
		TechMissing:  missing,
		TechEvidence: evidence,
		Team: TeamVerdict{
			Matched:      []string{},
			Unmatched:    append([]string{}, claims.TeamMembers...),
			Unauthorized: []Contributor{},
		},
		Timeline:    tl,
		CoreLogic:   skipped("disqualified before evidence gathering"),
		Flags:       []string{flag},
		Confidence:  0,
		CompletedAt: time.Now(),
	}
}

// ErrorReport describes a run that could not proceed, such as an
// inaccessible repository or a malformed window.
func ErrorReport(cause string) *Report {
	return &Report{
		Status:       StatusError,
		TechFound:    []string{},
		TechMissing:  []string{},
		TechEvidence: map[string]Evidence{},
		Team: TeamVerdict{
			Matched:      []string{},
			Unmatched:    []string{},
			Unauthorized: []Contributor{},
		},
		CoreLogic:   skipped(cause),
		Flags:       []string{cause},
		Confidence:  0,
		CompletedAt: time.Now(),
	}
}

func splitTech(claims []WeightedClaim, tech map[string]Evidence) (found, missing []string) {
	found, missing = []string{}, []string{}
	seen := make(map[string]bool, len(claims))
	for _, c := range claims {
		if seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		if tech[c.Name].Found() {
			found = append(found, c.Name)
		} else {
			missing = append(missing, c.Name)
		}
	}
	return found, missing
}

// Flags lists the human-readable findings of a run in a fixed order:
// missing technologies, timeline notes, team notes, then core logic.
func Flags(claims ClaimSet, f Findings) []string {
	flags := []string{}

	_, missing := splitTech(claims.TechStack, f.Tech)
	weights := make(map[string]float64, len(claims.TechStack))
	for _, c := range claims.TechStack {
		weights[c.Name] = max(weights[c.Name], c.Weight)
	}
	for _, name := range missing {
		flags = append(flags, fmt.Sprintf("Missing claimed technology: %s (%s)", name, weightLabel(weights[name])))
	}

	tl := f.Timeline
	if tl.InWindow == 0 {
		flags = append(flags, "No commits found within the claimed window")
	}
	if tl.Leeway > 0 {
		flags = append(flags, fmt.Sprintf("%d commit(s) made within the %s leeway after the deadline", tl.Leeway, formatHours(Leeway)))
	}
	if tl.AfterLeeway > 0 {
		flags = append(flags, fmt.Sprintf("%d commit(s) made after the leeway window", tl.AfterLeeway))
	}

	for _, m := range f.Team.Unmatched {
		flags = append(flags, fmt.Sprintf("Claimed member not found in commits: %s", m))
	}
	for _, c := range f.Team.Unauthorized {
		flags = append(flags, fmt.Sprintf("Unauthorized contributor found: %s (%d commits)", c.Name, c.Commits))
	}

	if f.Logic.Status == LogicContradicted {
		flags = append(flags, fmt.Sprintf("Core logic contradicts claimed features: %s", f.Logic.Reasoning))
	}

	return flags
}

func weightLabel(w float64) string {
	switch w {
	case WeightCore:
		return "core"
	case WeightSecondary:
		return "secondary"
	default:
		return "minor"
	}
}

func formatHours(d time.Duration) string {
	return fmt.Sprintf("%gh", d.Hours())
}
