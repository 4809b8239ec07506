package submission_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-genforms/pkg/submission"
	"github.com/goliatone/go-genforms/pkg/testsupport"
)

func TestApplyRoutesValuesByFieldKind(t *testing.T) {
	state := submission.New(testsupport.MustDescriptor(t, "research"))

	err := state.Apply(map[string]any{
		"topic":            "Retrieval augmentation",
		"sourcesCount":     float64(8), // JSON numbers decode as float64
		"sectionsNeeded":   []any{"methodology", "introduction"},
		"focusAreas":       "grounding, evaluation",
		"includeCitations": false,
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	if got := state.Text("topic"); got != "Retrieval augmentation" {
		t.Fatalf("topic = %q", got)
	}
	if got := state.Number("sourcesCount"); got != 8 {
		t.Fatalf("sourcesCount = %d", got)
	}
	// Default [introduction conclusion] merges with the applied entries under
	// set semantics.
	want := []string{"introduction", "conclusion", "methodology"}
	if diff := cmp.Diff(want, state.List("sectionsNeeded")); diff != "" {
		t.Fatalf("sectionsNeeded mismatch (-want +got):\n%s", diff)
	}
	if got := state.Text("focusAreas"); got != "grounding, evaluation" {
		t.Fatalf("focusAreas raw block = %q", got)
	}
	if state.Bool("includeCitations") {
		t.Fatal("includeCitations should be false")
	}
}

func TestApplyIgnoresUnknownAndFileFields(t *testing.T) {
	state := submission.New(testsupport.MustDescriptor(t, "resume"))

	err := state.Apply(map[string]any{
		"jobDescription": "Go engineer",
		"resumeFile":     "/tmp/resume.pdf",
		"unknownField":   "ignored",
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if state.File() != nil {
		t.Fatal("apply must not stage files; attachments go through Attach")
	}
	if got := state.Text("jobDescription"); got != "Go engineer" {
		t.Fatalf("jobDescription = %q", got)
	}
}

func TestApplyRejectsMistypedValues(t *testing.T) {
	state := submission.New(testsupport.MustDescriptor(t, "research"))

	if err := state.Apply(map[string]any{"sourcesCount": "eight"}); err == nil {
		t.Fatal("string for a number field should error")
	}
	if err := state.Apply(map[string]any{"sectionsNeeded": 7}); err == nil {
		t.Fatal("number for a list field should error")
	}
}
