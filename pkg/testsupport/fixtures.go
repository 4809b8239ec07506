// Package testsupport provides shared fixtures for the package tests: sample
// backend response bodies per response shape and descriptor lookup helpers.
package testsupport

import (
	"testing"

	"github.com/goliatone/go-genforms/pkg/feature"
)

// MustDescriptor returns an embedded descriptor by ID, failing the test when
// the registry cannot supply it.
func MustDescriptor(t *testing.T, id string) feature.Descriptor {
	t.Helper()

	registry, err := feature.DefaultRegistry()
	if err != nil {
		t.Fatalf("default registry: %v", err)
	}
	desc, err := registry.Get(id)
	if err != nil {
		t.Fatalf("descriptor %q: %v", id, err)
	}
	return desc
}

// ResumeResponse mirrors a successful resume generation body.
func ResumeResponse() map[string]any {
	return map[string]any{
		"tailored_resume": "Experienced platform engineer with a decade of Go.",
		"ats_score":       float64(87),
		"matched_skills":  []any{"go", "kubernetes"},
		"missing_skills":  []any{"terraform"},
		"suggestions":     []any{"Quantify the migration impact."},
	}
}

// DocumentResponse mirrors a successful document generation body.
func DocumentResponse() map[string]any {
	return map[string]any{
		"content":           "## Proposal\n\nWe should consolidate the ingestion tier.",
		"document_type":     "proposal",
		"word_count":        float64(412),
		"readability_score": 61.5,
	}
}

// ResearchResponse mirrors a successful research generation body.
func ResearchResponse() map[string]any {
	return map[string]any{
		"summary":      "Current literature favours retrieval augmentation.",
		"key_findings": []any{"Grounding reduces fabrication."},
		"sources": []any{
			map[string]any{"title": "Survey of RAG", "url": "https://example.org/rag"},
		},
		"citations":        []any{"Doe et al. (2024)"},
		"confidence_score": 0.82,
	}
}

// EmailResponse mirrors a successful email generation body.
func EmailResponse() map[string]any {
	return map[string]any{
		"subject":    "Renewal terms for Q4",
		"body":       "Hi Taylor,\n\nSharing the updated renewal terms.",
		"signature":  "Best,\nJordan",
		"spam_score": 0.1,
	}
}

// SocialResponse mirrors a successful social post generation body.
func SocialResponse() map[string]any {
	return map[string]any{
		"content":         "Shipping day. The new pipeline is live.",
		"hashtags":        []any{"#golang", "#shipit"},
		"character_count": float64(42),
		"engagement_tips": []any{"Post before 10am."},
	}
}

// CreativeResponse mirrors a successful creative writing body.
func CreativeResponse() map[string]any {
	return map[string]any{
		"title":      "The Lighthouse Ledger",
		"content":    "The keeper logged the storm in violet ink.",
		"tags":       []any{"short-story"},
		"word_count": float64(980),
		"seo_score":  float64(74),
	}
}

// StatsResponse mirrors the dashboard stats body.
func StatsResponse() map[string]any {
	return map[string]any{
		"total_generated": float64(128),
		"system_status":   "operational",
		"ai_service":      "online",
		"resumes":         float64(40),
		"documents":       float64(31),
	}
}
