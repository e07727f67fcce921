package workflow_test

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/JaimeStill/hackid/internal/workflow"
)

func TestConfidence(t *testing.T) {
	tests := []struct {
		name   string
		claims []workflow.WeightedClaim
		f      workflow.Findings
		want   float64
	}{
		{
			name: "weighted tech, leeway, verified logic",
			claims: []workflow.WeightedClaim{
				{Name: "Python", Weight: 1.0},
				{Name: "React", Weight: 0.5},
			},
			f: workflow.Findings{
				Tech: map[string]workflow.Evidence{
					"Python": workflow.EvidenceLanguage,
					"React":  workflow.EvidenceNotFound,
				},
				Timeline: workflow.TimelineVerdict{InWindow: 4, Leeway: 1},
				Logic:    workflow.CoreLogicVerdict{Status: workflow.LogicVerified},
			},
			want: 0.7733,
		},
		{
			name: "no tech claims omits tech term",
			f: workflow.Findings{
				Timeline: workflow.TimelineVerdict{InWindow: 2},
				Logic:    workflow.CoreLogicVerdict{Status: workflow.LogicSkipped},
			},
			want: 0.46,
		},
		{
			name:   "zero commits contribute nothing for timeline",
			claims: []workflow.WeightedClaim{{Name: "Python", Weight: 1.0}},
			f: workflow.Findings{
				Tech:  map[string]workflow.Evidence{"Python": workflow.EvidenceLanguage},
				Logic: workflow.CoreLogicVerdict{Status: workflow.LogicSkipped},
			},
			want: 0.66,
		},
		{
			name:   "contradicted logic",
			claims: []workflow.WeightedClaim{{Name: "Go", Weight: 0.2}},
			f: workflow.Findings{
				Tech:     map[string]workflow.Evidence{"Go": workflow.EvidenceKeyword},
				Timeline: workflow.TimelineVerdict{InWindow: 1, Leeway: 1},
				Logic:    workflow.CoreLogicVerdict{Status: workflow.LogicContradicted},
			},
			want: 0.65,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := workflow.Confidence(tt.claims, tt.f)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfidenceBounds(t *testing.T) {
	claimSets := [][]workflow.WeightedClaim{
		nil,
		{{Name: "a", Weight: 1.0}},
		{{Name: "a", Weight: 1.0}, {Name: "b", Weight: 0.5}, {Name: "c", Weight: 0.2}},
		{{Name: "zero", Weight: 0}},
	}
	evidence := []workflow.Evidence{workflow.EvidenceNotFound, workflow.EvidenceSemantic}
	logic := []workflow.LogicStatus{
		workflow.LogicVerified, workflow.LogicUnverified,
		workflow.LogicContradicted, workflow.LogicSkipped, "",
	}
	timelines := []workflow.TimelineVerdict{
		{},
		{InWindow: 3},
		{Leeway: 3},
		{PreStart: 0, InWindow: 1, Leeway: 9, AfterLeeway: 40},
	}

	for _, claims := range claimSets {
		for _, ev := range evidence {
			tech := make(map[string]workflow.Evidence)
			for _, c := range claims {
				tech[c.Name] = ev
			}
			for _, ls := range logic {
				for _, tl := range timelines {
					got := workflow.Confidence(claims, workflow.Findings{
						Tech:     tech,
						Timeline: tl,
						Logic:    workflow.CoreLogicVerdict{Status: ls},
					})
					if got < 0 || got > 1 || math.IsNaN(got) {
						t.Fatalf("confidence %v out of range for %v %s %s %+v", got, claims, ev, ls, tl)
					}
				}
			}
		}
	}
}

func TestDecideStatus(t *testing.T) {
	claims := []workflow.WeightedClaim{
		{Name: "Python", Weight: 1.0},
		{Name: "Redis", Weight: 0.5},
		{Name: "Rust", Weight: 1.5},
	}

	tests := []struct {
		name string
		tech map[string]workflow.Evidence
		want workflow.Status
	}{
		{
			name: "weight above core does not flag",
			tech: map[string]workflow.Evidence{"Python": workflow.EvidenceLanguage, "Redis": workflow.EvidenceKeyword},
			want: workflow.StatusVerified,
		},
		{
			name: "core missing flags",
			tech: map[string]workflow.Evidence{"Redis": workflow.EvidenceKeyword},
			want: workflow.StatusFlagged,
		},
		{
			name: "secondary missing verifies",
			tech: map[string]workflow.Evidence{"Python": workflow.EvidenceLanguage},
			want: workflow.StatusVerified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := workflow.DecideStatus(claims, tt.tech); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestAggregateFlagOrder(t *testing.T) {
	claims := workflow.ClaimSet{
		TechStack: []workflow.WeightedClaim{
			{Name: "Rust", Weight: 1.0},
			{Name: "Redis", Weight: 0.2},
		},
		TeamMembers: []string{"Jordan"},
	}

	report := workflow.Aggregate(claims, workflow.Findings{
		Tech:     map[string]workflow.Evidence{"Rust": workflow.EvidenceNotFound, "Redis": workflow.EvidenceNotFound},
		Timeline: workflow.TimelineVerdict{InWindow: 2, Leeway: 1},
		Team: workflow.TeamVerdict{
			Matched:      []string{},
			Unmatched:    []string{"Jordan"},
			Unauthorized: []workflow.Contributor{{Name: "ghost", Commits: 7}},
		},
		Logic: workflow.CoreLogicVerdict{Status: workflow.LogicContradicted, Reasoning: "a chess engine"},
	})

	want := []string{
		"Missing claimed technology: Rust (core)",
		"Missing claimed technology: Redis (minor)",
		"1 commit(s) made within the 5h leeway after the deadline",
		"Claimed member not found in commits: Jordan",
		"Unauthorized contributor found: ghost (7 commits)",
		"Core logic contradicts claimed features: a chess engine",
	}
	if diff := cmp.Diff(want, report.Flags); diff != "" {
		t.Errorf("flags mismatch (-want +got):\n%s", diff)
	}
	if report.Status != workflow.StatusFlagged {
		t.Errorf("status: got %s, want FLAGGED", report.Status)
	}
	if diff := cmp.Diff([]string{"Rust", "Redis"}, report.TechMissing); diff != "" {
		t.Errorf("tech missing mismatch (-want +got):\n%s", diff)
	}
}

func TestDisqualify(t *testing.T) {
	first := at("2025-01-09T09:00:00Z")
	claims := workflow.ClaimSet{
		TechStack:   []workflow.WeightedClaim{{Name: "Python", Weight: 1.0}},
		TeamMembers: []string{"Ann Lee"},
	}

	report := workflow.Disqualify(claims, workflow.TimelineVerdict{PreStart: 1, FirstCommit: &first, LastCommit: &first})

	if report.Status != workflow.StatusDisqualified {
		t.Errorf("status: got %s", report.Status)
	}
	if report.Confidence != 0 {
		t.Errorf("confidence: got %v, want 0", report.Confidence)
	}
	if len(report.Flags) != 1 || !strings.Contains(report.Flags[0], "before the claimed start") {
		t.Errorf("flags: got %v", report.Flags)
	}
	if report.CoreLogic.Status != workflow.LogicSkipped {
		t.Errorf("core logic: got %s", report.CoreLogic.Status)
	}
	if diff := cmp.Diff([]string{"Ann Lee"}, report.Team.Unmatched); diff != "" {
		t.Errorf("unmatched mismatch (-want +got):\n%s", diff)
	}
}

func TestReason(t *testing.T) {
	claims := workflow.ClaimSet{
		TechStack: []workflow.WeightedClaim{{Name: "Rust", Weight: 1.0}},
	}
	report := workflow.Aggregate(claims, workflow.Findings{
		Tech:     map[string]workflow.Evidence{"Rust": workflow.EvidenceNotFound},
		Timeline: workflow.TimelineVerdict{InWindow: 1},
		Logic:    workflow.CoreLogicVerdict{Status: workflow.LogicSkipped},
	})

	got := workflow.Reason(report, claims)
	if !strings.Contains(got, "missing 1 core technology (Rust)") {
		t.Errorf("reason: got %q", got)
	}
	if desc := workflow.Describe(report, claims); !strings.HasPrefix(desc, "FLAGGED FOR REVIEW") {
		t.Errorf("description: got %q", desc)
	}
}
