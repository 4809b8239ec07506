package result_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-genforms/pkg/result"
)

func TestFilenameReplacesWhitespaceRuns(t *testing.T) {
	view := result.View{Title: "Generated  Business\tPlan"}
	if got := view.Filename(); got != "Generated_Business_Plan.txt" {
		t.Fatalf("filename = %q", got)
	}

	empty := result.View{}
	if got := empty.Filename(); got != "result.txt" {
		t.Fatalf("filename = %q, want fallback", got)
	}
}

func TestDownloadBlobOrdersSectionsMetricsTips(t *testing.T) {
	view := result.View{
		Title: "Generated Email",
		Sections: []result.Section{
			{Title: "Subject", Body: "Renewal terms"},
			{Title: "Body", Body: "Hi Taylor"},
		},
		Metrics: []result.Metric{{Name: "Spam Score", Value: "0.1"}},
		Tips:    []string{"Keep it short."},
	}

	blob := string(view.DownloadBlob())
	subjectAt := strings.Index(blob, "Subject")
	bodyAt := strings.Index(blob, "Body")
	metricAt := strings.Index(blob, "Spam Score: 0.1")
	tipAt := strings.Index(blob, "- Keep it short.")
	if subjectAt < 0 || bodyAt < 0 || metricAt < 0 || tipAt < 0 {
		t.Fatalf("blob missing content:\n%s", blob)
	}
	if !(subjectAt < bodyAt && bodyAt < metricAt && metricAt < tipAt) {
		t.Fatalf("blob out of order:\n%s", blob)
	}
}

func TestSaveWritesBlobUnderDerivedName(t *testing.T) {
	dir := t.TempDir()
	view := result.View{
		Title:    "Social Post",
		Sections: []result.Section{{Title: "Post", Body: "Shipping day."}},
	}

	path, err := view.Save(dir)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if filepath.Base(path) != "Social_Post.txt" {
		t.Fatalf("saved as %q", path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(content), "Shipping day.") {
		t.Fatalf("content = %q", content)
	}
}

func TestCopyWithoutPrimaryTextIsNoOp(t *testing.T) {
	view := result.View{Title: "Empty"}
	if err := view.Copy(); err != nil {
		t.Fatalf("copy of empty view should be a no-op, got %v", err)
	}
}
