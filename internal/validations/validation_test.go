package validations_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/JaimeStill/hackid/internal/validations"
	"github.com/JaimeStill/hackid/internal/workflow"
)

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     validations.Request
		wantErr bool
	}{
		{"minimal", validations.Request{RepoURL: "github.com/a/b"}, false},
		{"missing repo", validations.Request{}, true},
		{
			"unnamed tech",
			validations.Request{
				RepoURL: "github.com/a/b",
				Claims:  workflow.ClaimSet{TechStack: []workflow.WeightedClaim{{Weight: 1}}},
			},
			true,
		},
		{
			"weight out of range",
			validations.Request{
				RepoURL: "github.com/a/b",
				Claims:  workflow.ClaimSet{TechStack: []workflow.WeightedClaim{{Name: "Go", Weight: 2}}},
			},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, validations.ErrInvalidRequest) {
				t.Errorf("error %v is not ErrInvalidRequest", err)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	results := []validations.BatchResult{
		{Validation: &validations.Validation{Status: workflow.StatusVerified, ExternalCallsUsed: 7}},
		{Validation: &validations.Validation{Status: workflow.StatusVerified, ExternalCallsUsed: 5}},
		{Validation: &validations.Validation{Status: workflow.StatusDisqualified, ExternalCallsUsed: 1}},
		{RepoURL: "github.com/a/b", Error: "boom"},
	}

	got := validations.Summarize(results)
	want := validations.Summary{
		Total: 4,
		ByStatus: map[workflow.Status]int{
			workflow.StatusVerified:     2,
			workflow.StatusDisqualified: 1,
		},
		Failed:            1,
		ExternalCallsUsed: 13,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
}
