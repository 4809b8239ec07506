package payload_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/goliatone/go-genforms/pkg/feature"
	"github.com/goliatone/go-genforms/pkg/payload"
	"github.com/goliatone/go-genforms/pkg/submission"
	"github.com/goliatone/go-genforms/pkg/testsupport"
)

func TestBuildDocumentPayloadEndToEnd(t *testing.T) {
	state := submission.New(testsupport.MustDescriptor(t, "document"))
	mustSet(t, state, "documentTitle", "Q4 Board Proposal")
	mustSet(t, state, "purpose", "Secure budget")
	mustSet(t, state, "keyPoints", "revenue, churn,,\nheadcount")

	p, err := payload.Build(state)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if p.Encoding != feature.EncodingJSON {
		t.Fatalf("encoding = %q, want json", p.Encoding)
	}
	if p.ContentType != "application/json" {
		t.Fatalf("content type = %q", p.ContentType)
	}

	want := `{"document_title":"Q4 Board Proposal","purpose":"Secure budget",` +
		`"key_points":["revenue","churn","headcount"],"document_type":"proposal",` +
		`"tone_style":"Formal","length":"Medium","formatting_preference":"Corporate"}`
	if string(p.Body) != want {
		t.Fatalf("body mismatch\n got: %s\nwant: %s", p.Body, want)
	}
}

func TestBuildOmitsEmptyOptionalAndZeroNumbers(t *testing.T) {
	state := submission.New(testsupport.MustDescriptor(t, "research"))
	mustSet(t, state, "topic", "Retrieval augmentation")

	p, err := payload.Build(state)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	body := decode(t, p.Body)

	for _, absent := range []string{"research_question", "word_count", "focus_areas", "sources_provided"} {
		if _, ok := body[absent]; ok {
			t.Fatalf("key %q should be omitted, body: %v", absent, body)
		}
	}
	// Optional fields whose defaults carry values are emitted.
	if body["depth"] != "Standard" {
		t.Fatalf("depth = %v, want Standard", body["depth"])
	}
	if body["sources_count"] != float64(5) {
		t.Fatalf("sources_count = %v, want 5", body["sources_count"])
	}
	// Booleans are always present; false is a real answer, not a gap.
	if body["include_citations"] != true {
		t.Fatalf("include_citations = %v, want true", body["include_citations"])
	}
}

func TestBuildBooleanFalseIsEmitted(t *testing.T) {
	state := submission.New(testsupport.MustDescriptor(t, "social"))
	mustSet(t, state, "platform", "LinkedIn")
	mustSet(t, state, "topic", "Launch day")
	mustSet(t, state, "keyMessage", "We shipped")
	mustSet(t, state, "includeHashtags", false)

	p, err := payload.Build(state)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	body := decode(t, p.Body)
	if body["include_hashtags"] != false {
		t.Fatalf("include_hashtags = %v, want false", body["include_hashtags"])
	}
	if body["include_emoji"] != true {
		t.Fatalf("include_emoji = %v, want default true", body["include_emoji"])
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	state := submission.New(testsupport.MustDescriptor(t, "document"))
	mustSet(t, state, "documentTitle", "T")
	mustSet(t, state, "purpose", "P")
	mustSet(t, state, "keyPoints", "a, b")

	first, err := payload.Build(state)
	if err != nil {
		t.Fatalf("first build: %v", err)
	}
	second, err := payload.Build(state)
	if err != nil {
		t.Fatalf("second build: %v", err)
	}
	if !bytes.Equal(first.Body, second.Body) {
		t.Fatal("unchanged state must normalize to byte-identical bodies")
	}
}

func TestBuildSwitchesToMultipartWhenFileStaged(t *testing.T) {
	state := resumeState(t)
	state.Attach(&submission.File{Name: "resume.pdf", Content: []byte("%PDF-1.7 stub")})

	p, err := payload.Build(state)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if p.Encoding != feature.EncodingMultipart {
		t.Fatalf("encoding = %q, want multipart", p.Encoding)
	}

	mediaType, params, err := mime.ParseMediaType(p.ContentType)
	if err != nil {
		t.Fatalf("parse content type: %v", err)
	}
	if mediaType != "multipart/form-data" {
		t.Fatalf("media type = %q", mediaType)
	}

	parts := readParts(t, p.Body, params["boundary"])
	if parts[0].name != "file" {
		t.Fatalf("first part = %q, want the file part", parts[0].name)
	}
	if parts[0].filename != "resume.pdf" || parts[0].body != "%PDF-1.7 stub" {
		t.Fatalf("file part = %+v", parts[0])
	}

	byName := make(map[string]partRecord, len(parts))
	for _, part := range parts {
		byName[part.name] = part
	}
	if byName["job_description"].body != "Own the billing platform" {
		t.Fatalf("job_description part = %+v", byName["job_description"])
	}
	// List fields travel as one JSON-encoded string part.
	var skills []string
	if err := json.Unmarshal([]byte(byName["core_skills"].body), &skills); err != nil {
		t.Fatalf("core_skills part is not JSON: %v", err)
	}
	if len(skills) != 2 || skills[0] != "go" || skills[1] != "kubernetes" {
		t.Fatalf("core_skills = %v", skills)
	}
	if byName["tone_style"].body != "ATS" {
		t.Fatalf("tone_style part = %+v", byName["tone_style"])
	}
	if _, ok := byName["industry"]; ok {
		t.Fatal("empty optional field leaked into the multipart body")
	}
}

func TestMultipartBuildIsIdempotent(t *testing.T) {
	state := resumeState(t)
	state.Attach(&submission.File{Name: "resume.pdf", Content: []byte("content")})

	first, err := payload.Build(state)
	if err != nil {
		t.Fatalf("first build: %v", err)
	}
	second, err := payload.Build(state)
	if err != nil {
		t.Fatalf("second build: %v", err)
	}
	if !bytes.Equal(first.Body, second.Body) {
		t.Fatal("multipart bodies must be byte-identical across rebuilds")
	}
	if first.ContentType != second.ContentType {
		t.Fatal("multipart content type must be stable")
	}
}

func TestBuildWithoutFileStaysJSONForMultipartCapableFeature(t *testing.T) {
	p, err := payload.Build(resumeState(t))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if p.Encoding != feature.EncodingJSON {
		t.Fatalf("encoding = %q, want json without a staged file", p.Encoding)
	}
	body := decode(t, p.Body)
	if _, ok := body["file"]; ok {
		t.Fatal("json body must not carry a file key")
	}
}

func resumeState(t *testing.T) *submission.State {
	t.Helper()
	state := submission.New(testsupport.MustDescriptor(t, "resume"))
	mustSet(t, state, "jobDescription", "Own the billing platform")
	mustSet(t, state, "targetJobTitle", "Staff Engineer")
	if err := state.SetBuffer("coreSkills", "go, kubernetes"); err != nil {
		t.Fatalf("set buffer: %v", err)
	}
	if err := state.AppendPending("coreSkills"); err != nil {
		t.Fatalf("append: %v", err)
	}
	return state
}

func mustSet(t *testing.T, state *submission.State, name string, value any) {
	t.Helper()
	if err := state.Set(name, value); err != nil {
		t.Fatalf("set %s: %v", name, err)
	}
}

func decode(t *testing.T, body []byte) map[string]any {
	t.Helper()
	out := make(map[string]any)
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return out
}

type partRecord struct {
	name     string
	filename string
	body     string
}

func readParts(t *testing.T, body []byte, boundary string) []partRecord {
	t.Helper()
	if boundary == "" {
		t.Fatal("missing multipart boundary")
	}
	reader := multipart.NewReader(bytes.NewReader(body), boundary)
	var parts []partRecord
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("next part: %v", err)
		}
		content := new(strings.Builder)
		if _, err := io.Copy(content, part); err != nil {
			t.Fatalf("read part: %v", err)
		}
		parts = append(parts, partRecord{
			name:     part.FormName(),
			filename: part.FileName(),
			body:     content.String(),
		})
	}
	if len(parts) == 0 {
		t.Fatal("no parts decoded")
	}
	return parts
}
