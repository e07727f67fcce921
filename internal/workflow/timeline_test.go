package workflow_test

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/JaimeStill/hackid/internal/workflow"
	"github.com/JaimeStill/hackid/pkg/source"
)

func TestClassifyTimeline(t *testing.T) {
	tests := []struct {
		name    string
		commits []source.Commit
		want    workflow.TimelineVerdict
	}{
		{
			name: "empty",
			want: workflow.TimelineVerdict{},
		},
		{
			name: "start is in window",
			commits: []source.Commit{
				commit("a", "2025-01-10T11:00:00Z"),
			},
			want: workflow.TimelineVerdict{InWindow: 1},
		},
		{
			name: "one second before start",
			commits: []source.Commit{
				commit("a", "2025-01-10T10:59:59Z"),
			},
			want: workflow.TimelineVerdict{PreStart: 1},
		},
		{
			name: "end is in window",
			commits: []source.Commit{
				commit("a", "2025-01-11T11:00:00Z"),
			},
			want: workflow.TimelineVerdict{InWindow: 1},
		},
		{
			name: "leeway boundaries",
			commits: []source.Commit{
				commit("a", "2025-01-11T11:00:01Z"),
				commit("a", "2025-01-11T16:00:00Z"),
				commit("a", "2025-01-11T16:00:01Z"),
			},
			want: workflow.TimelineVerdict{Leeway: 2, AfterLeeway: 1},
		},
		{
			name: "mixed offsets normalize to window",
			commits: []source.Commit{
				commit("a", "2025-01-10T05:30:00-05:00"),
				commit("a", "2025-01-10T12:00:00+01:00"),
				commit("a", "2025-01-11T21:00:00+09:00"),
			},
			want: workflow.TimelineVerdict{PreStart: 1, InWindow: 1, Leeway: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := workflow.ClassifyTimeline(tt.commits, scenarioWindow)
			got.FirstCommit, got.LastCommit = nil, nil
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("verdict mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClassifyTimelineFirstLast(t *testing.T) {
	commits := []source.Commit{
		commit("a", "2025-01-10T15:00:00Z"),
		commit("b", "2025-01-10T12:00:00Z"),
		commit("c", "2025-01-11T09:00:00Z"),
	}

	got, inWindow := workflow.ClassifyTimeline(commits, scenarioWindow)

	if got.FirstCommit == nil || !got.FirstCommit.Equal(at("2025-01-10T12:00:00Z")) {
		t.Errorf("first commit: got %v", got.FirstCommit)
	}
	if got.LastCommit == nil || !got.LastCommit.Equal(at("2025-01-11T09:00:00Z")) {
		t.Errorf("last commit: got %v", got.LastCommit)
	}
	if len(inWindow) != 3 {
		t.Errorf("in-window commits: got %d, want 3", len(inWindow))
	}
}

func TestClassifyTimelineNoCommitsHasNoBounds(t *testing.T) {
	got, _ := workflow.ClassifyTimeline(nil, scenarioWindow)
	if got.FirstCommit != nil || got.LastCommit != nil {
		t.Errorf("expected nil bounds, got %v %v", got.FirstCommit, got.LastCommit)
	}
}

func TestClassifyTimelineBucketsSumToTotal(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	base := scenarioWindow.Start.Add(-48 * time.Hour)
	zones := []*time.Location{
		time.UTC,
		time.FixedZone("EST", -5*3600),
		time.FixedZone("IST", 5*3600+1800),
	}

	for range 200 {
		n := rng.IntN(50)
		commits := make([]source.Commit, n)
		for i := range commits {
			offset := time.Duration(rng.Int64N(int64(120 * time.Hour)))
			commits[i] = source.Commit{
				AuthorName: "x",
				Timestamp:  base.Add(offset).In(zones[rng.IntN(len(zones))]),
			}
		}

		got, inWindow := workflow.ClassifyTimeline(commits, scenarioWindow)
		if got.Total() != n {
			t.Fatalf("buckets sum to %d, want %d", got.Total(), n)
		}
		if len(inWindow) != got.InWindow {
			t.Fatalf("in-window slice %d, count %d", len(inWindow), got.InWindow)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"rfc3339", "2025-01-10T11:00:00Z", at("2025-01-10T11:00:00Z")},
		{"offset", "2025-01-10T11:00:00-05:00", at("2025-01-10T16:00:00Z")},
		{"naive uses location", "2025-01-10T11:00:00", at("2025-01-10T16:00:00Z")},
		{"naive space", "2025-01-10 11:00", at("2025-01-10T16:00:00Z")},
		{"date only", "2025-01-10", at("2025-01-10T05:00:00Z")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := workflow.ParseTimestamp(tt.input, est)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}

	if _, err := workflow.ParseTimestamp("next tuesday", est); err == nil {
		t.Error("expected error for unparsable timestamp")
	}
}

func TestSubmissionWindow(t *testing.T) {
	schedule := []workflow.Period{
		{Name: "Registration", Start: "2025-01-01T00:00:00Z", End: "2025-01-09T00:00:00Z"},
		{Name: "Project Submissions", Start: "2025-01-10T11:00:00Z", End: "2025-01-11T11:00:00Z"},
		{Name: "Judging", Start: "2025-01-12T00:00:00Z", End: "2025-01-13T00:00:00Z"},
	}

	w, err := workflow.SubmissionWindow(schedule, time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !w.Start.Equal(scenarioWindow.Start) || !w.End.Equal(scenarioWindow.End) {
		t.Errorf("got %v, want submission period", w)
	}

	fallback, err := workflow.SubmissionWindow([]workflow.Period{schedule[0], schedule[2]}, time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fallback.Start.Equal(at("2025-01-01T00:00:00Z")) || !fallback.End.Equal(at("2025-01-13T00:00:00Z")) {
		t.Errorf("fallback: got %v", fallback)
	}

	if _, err := workflow.SubmissionWindow(nil, time.UTC); err == nil {
		t.Error("expected error for empty schedule")
	}
}

func TestWindowValidate(t *testing.T) {
	if err := scenarioWindow.Validate(); err != nil {
		t.Errorf("valid window rejected: %v", err)
	}

	reversed := workflow.Window{Start: scenarioWindow.End, End: scenarioWindow.Start}
	if err := reversed.Validate(); err == nil {
		t.Error("expected error for reversed window")
	}

	if err := (workflow.Window{}).Validate(); err == nil {
		t.Error("expected error for zero window")
	}
}
