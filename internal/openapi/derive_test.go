package openapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-genforms/internal/openapi"
	"github.com/goliatone/go-genforms/pkg/feature"
)

const fixtureDocument = `{
  "openapi": "3.0.3",
  "info": {"title": "EliteContent API", "version": "1.0.0"},
  "paths": {
    "/api/email/generate": {
      "post": {
        "operationId": "generateEmail",
        "summary": "Email Composer",
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["email_purpose", "recipient_type"],
                "properties": {
                  "email_purpose": {"type": "string"},
                  "recipient_type": {"type": "string", "description": "Who receives the email"},
                  "tone_style": {"type": "string", "enum": ["Formal", "Friendly"], "default": "Formal"},
                  "key_points": {"type": "array", "items": {"type": "string"}},
                  "include_signature": {"type": "boolean", "default": true},
                  "word_count": {"type": "integer"}
                }
              }
            }
          }
        },
        "responses": {"200": {"description": "Generated email"}}
      }
    },
    "/api/resume/generate": {
      "post": {
        "operationId": "generateResume",
        "requestBody": {
          "content": {
            "multipart/form-data": {
              "schema": {
                "type": "object",
                "required": ["job_description"],
                "properties": {
                  "file": {"type": "string", "format": "binary"},
                  "job_description": {"type": "string"},
                  "core_skills": {"type": "array", "items": {"type": "string"}}
                }
              }
            }
          }
        },
        "responses": {"200": {"description": "Tailored resume"}}
      }
    },
    "/api/dashboard/stats": {
      "get": {
        "operationId": "dashboardStats",
        "summary": "Dashboard Stats",
        "responses": {"200": {"description": "Stats"}}
      }
    },
    "/api/auth/token": {
      "post": {
        "operationId": "login",
        "responses": {"200": {"description": "Token"}}
      }
    }
  }
}`

func TestDeriveMapsGenerateAndStatsEndpoints(t *testing.T) {
	descriptors, err := openapi.Derive(context.Background(), []byte(fixtureDocument))
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if len(descriptors) != 3 {
		t.Fatalf("expected 3 descriptors, got %d", len(descriptors))
	}

	// Descriptors come back in path order.
	if descriptors[0].ID != "dashboard" || descriptors[1].ID != "email" || descriptors[2].ID != "resume" {
		t.Fatalf("unexpected order: %s, %s, %s", descriptors[0].ID, descriptors[1].ID, descriptors[2].ID)
	}

	dashboard := descriptors[0]
	if dashboard.Method != "GET" || dashboard.ResponseShape != "stats" {
		t.Fatalf("dashboard = %+v", dashboard)
	}
	if dashboard.Title != "Dashboard Stats" {
		t.Fatalf("dashboard title = %q", dashboard.Title)
	}

	email := descriptors[1]
	if email.Encoding != feature.EncodingJSON {
		t.Fatalf("email encoding = %q", email.Encoding)
	}
	wantNames := []string{"emailPurpose", "recipientType", "includeSignature", "keyPoints", "toneStyle", "wordCount"}
	if len(email.Fields) != len(wantNames) {
		t.Fatalf("email fields = %d, want %d", len(email.Fields), len(wantNames))
	}
	for i, want := range wantNames {
		if email.Fields[i].Name != want {
			t.Fatalf("email field %d = %q, want %q", i, email.Fields[i].Name, want)
		}
	}
	purpose, _ := email.Field("emailPurpose")
	if !purpose.Required || purpose.Kind != feature.FieldKindText {
		t.Fatalf("emailPurpose = %+v", purpose)
	}
	tone, _ := email.Field("toneStyle")
	if tone.Kind != feature.FieldKindEnum || len(tone.Enum) != 2 || tone.Default != "Formal" {
		t.Fatalf("toneStyle = %+v", tone)
	}
	points, _ := email.Field("keyPoints")
	if points.Kind != feature.FieldKindList || points.Mode != feature.ListModeBulk {
		t.Fatalf("keyPoints = %+v", points)
	}
	signature, _ := email.Field("includeSignature")
	if signature.Kind != feature.FieldKindBoolean || signature.Default != true {
		t.Fatalf("includeSignature = %+v", signature)
	}
	count, _ := email.Field("wordCount")
	if count.Kind != feature.FieldKindNumber {
		t.Fatalf("wordCount = %+v", count)
	}
	recipient, _ := email.Field("recipientType")
	if recipient.Help != "Who receives the email" {
		t.Fatalf("recipientType help = %q", recipient.Help)
	}
	if recipient.Label != "Recipient Type" {
		t.Fatalf("recipientType label = %q", recipient.Label)
	}

	resume := descriptors[2]
	if resume.Encoding != feature.EncodingMultipart {
		t.Fatalf("resume encoding = %q", resume.Encoding)
	}
	file, ok := resume.FileField()
	if !ok || file.Key != "file" {
		t.Fatalf("resume file field = %+v ok=%v", file, ok)
	}
	// Required properties sort ahead of optional ones.
	if resume.Fields[0].Key != "job_description" {
		t.Fatalf("first resume field = %q", resume.Fields[0].Key)
	}
	// A summary-less operation falls back to its feature ID.
	if resume.Title != "Resume" {
		t.Fatalf("resume title = %q", resume.Title)
	}
}

func TestDeriveIgnoresNonGenerationEndpoints(t *testing.T) {
	descriptors, err := openapi.Derive(context.Background(), []byte(fixtureDocument))
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	for _, desc := range descriptors {
		if desc.Path == "/api/auth/token" {
			t.Fatal("auth endpoints must not become features")
		}
	}
}

func TestDeriveRejectsEmptyDocument(t *testing.T) {
	if _, err := openapi.Derive(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty document")
	}
}

func TestLoadReadsFileAndURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "openapi.json")
	if err := os.WriteFile(path, []byte(fixtureDocument), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	fromFile, err := openapi.Load(context.Background(), path, openapi.LoadOptions{})
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	if string(fromFile) != fixtureDocument {
		t.Fatal("file content mismatch")
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(fixtureDocument))
	}))
	defer server.Close()

	fromURL, err := openapi.Load(context.Background(), server.URL+"/openapi.json", openapi.LoadOptions{})
	if err != nil {
		t.Fatalf("load url: %v", err)
	}
	if string(fromURL) != fixtureDocument {
		t.Fatal("url content mismatch")
	}

	if _, err := openapi.Load(context.Background(), "  ", openapi.LoadOptions{}); err == nil {
		t.Fatal("expected error for empty location")
	}
}
