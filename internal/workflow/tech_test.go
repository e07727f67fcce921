package workflow_test

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/JaimeStill/hackid/internal/workflow"
)

func TestNormalizeTech(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Next.js", "next"},
		{"next", "next"},
		{"Node.js", "node"},
		{"Tailwind CSS", "tailwind"},
		{"tailwindcss", "tailwind"},
		{"React Native", "reactnative"},
		{"Gemini API", "geminiapi"},
		{"scikit-learn", "scikitlearn"},
		{"JS", "js"},
		{"CSS", "css"},
		{"C++", "c++"},
		{"  Python ", "python"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := workflow.NormalizeTech(tt.input); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTechMatches(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"Next.js", "next", true},
		{"PostgreSQL", "Postgres", true},
		{"Tailwind CSS", "tailwindcss", true},
		{"Gemini", "Gemini API", true},
		{"Go", "Google", false},
		{"C", "CSS", false},
		{"React", "Vue", false},
		{"", "React", false},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			if got := workflow.TechMatches(tt.a, tt.b); got != tt.want {
				t.Errorf("TechMatches(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got := workflow.TechMatches(tt.b, tt.a); got != tt.want {
				t.Errorf("TechMatches(%q, %q) = %v, want %v", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestLanguageFor(t *testing.T) {
	tests := []struct {
		claim  string
		want   string
		wantOK bool
	}{
		{"Python", "Python", true},
		{"C++", "C++", true},
		{"golang", "Go", true},
		{"JS", "JavaScript", true},
		{"TypeScript", "TypeScript", true},
		{"React", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.claim, func(t *testing.T) {
			got, ok := workflow.LanguageFor(tt.claim)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("got (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestMatchManifest(t *testing.T) {
	packageJSON := `{
  "dependencies": {
    "react": "^18.2.0",
    "tailwindcss": "^3.4.0",
    "@google/generative-ai": "^0.2.0"
  }
}`
	requirements := "Flask==3.0.0\nscikit-learn==1.4\nopencv-python==4.9\n"

	tests := []struct {
		name     string
		claim    string
		manifest string
		want     bool
	}{
		{"curated keyword", "React", packageJSON, true},
		{"normalized suffix", "Tailwind CSS", packageJSON, true},
		{"alias keyword", "Gemini API", packageJSON, true},
		{"case insensitive", "Flask", requirements, true},
		{"default keyword", "scikit-learn", requirements, true},
		{"squashed name", "Scikit Learn", requirements, true},
		{"cv alias", "OpenCV", requirements, true},
		{"absent", "Docker", requirements, false},
		{"single letter never matches", "C", requirements, false},
		{"two letters never match", "Go", "module x\n\ngo 1.22\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := workflow.MatchManifest(tt.claim, tt.manifest); got != tt.want {
				t.Errorf("MatchManifest(%q) = %v, want %v", tt.claim, got, tt.want)
			}
		})
	}
}

func TestTechLedgerTransitions(t *testing.T) {
	l := workflow.NewTechLedger([]workflow.WeightedClaim{
		{Name: "Python", Weight: 1.0},
		{Name: "React", Weight: 0.5},
		{Name: "Redis", Weight: 0.2},
	})

	if !l.Promote("Python", workflow.EvidenceLanguage) {
		t.Fatal("NOT_FOUND → FOUND_BY_LANGUAGE rejected")
	}
	for _, to := range []workflow.Evidence{
		workflow.EvidenceKeyword,
		workflow.EvidenceSemantic,
		workflow.EvidenceNotFound,
	} {
		if l.Promote("Python", to) {
			t.Errorf("found technology moved to %s", to)
		}
	}
	if got := l.State("Python"); got != workflow.EvidenceLanguage {
		t.Errorf("Python: got %s", got)
	}

	if !l.Promote("React", workflow.EvidenceSemantic) {
		t.Error("NOT_FOUND → FOUND_BY_SEMANTIC rejected")
	}
	if l.Promote("Unclaimed", workflow.EvidenceKeyword) {
		t.Error("unclaimed technology promoted")
	}

	pending := l.Pending()
	if len(pending) != 1 || pending[0].Name != "Redis" {
		t.Errorf("pending: got %v", pending)
	}
}

func TestSemanticCandidates(t *testing.T) {
	pending := []workflow.WeightedClaim{
		{Name: "a", Weight: 0.2},
		{Name: "b", Weight: 1.0},
		{Name: "c", Weight: 0.5},
		{Name: "d", Weight: 1.0},
		{Name: "e", Weight: 0.5},
		{Name: "f", Weight: 0.2},
		{Name: "g", Weight: 1.0},
	}

	got := workflow.SemanticCandidates(pending, 5)

	var names []string
	for _, c := range got {
		names = append(names, c.Name)
	}
	if diff := cmp.Diff([]string{"b", "d", "g", "c", "e"}, names); diff != "" {
		t.Errorf("candidates mismatch (-want +got):\n%s", diff)
	}
	if pending[0].Name != "a" {
		t.Error("input slice was reordered")
	}
}

func TestParseUsed(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  []string
	}{
		{"json", `{"used": ["React", "Redis"]}`, []string{"React", "Redis"}},
		{"fenced", "```json\n{\"used\": [\"Next.js\"]}\n```", []string{"Next.js"}},
		{"embedded", "Sure! {\"used\": [\"Flask\"]} Hope that helps.", []string{"Flask"}},
		{"used line", "I looked closely.\nUSED: React, \"Tailwind CSS\"\n", []string{"React", "Tailwind CSS"}},
		{"garbage", "I am not sure about any of these.", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := workflow.ParseUsed(tt.reply)
			if !slices.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
