// Package result turns decoded backend responses into display state. Response
// shapes are feature-specific and loosely typed; extraction is defensive, so a
// missing field degrades to a placeholder render instead of failing.
package result

import (
	"fmt"
	"strings"
)

// placeholder stands in for an expected field the backend did not send.
const placeholder = "(not provided)"

// Section is one titled block of displayable content.
type Section struct {
	Title string
	Body  string
}

// Metric is a short labelled figure shown alongside the content.
type Metric struct {
	Name  string
	Value string
}

// View is the read-only render of one successful response. It is regenerated
// whenever the underlying result changes and lives until superseded or reset.
type View struct {
	Shape    string
	Title    string
	Primary  string
	Sections []Section
	Metrics  []Metric
	Tips     []string
}

// NewView builds the feature-specific view for a response shape. Unknown
// shapes fall back to a generic single-section render so content is never
// silently dropped.
func NewView(shape string, body map[string]any) View {
	switch shape {
	case "resume":
		return resumeView(body)
	case "document":
		return documentView(body)
	case "research":
		return researchView(body)
	case "email":
		return emailView(body)
	case "social":
		return socialView(body)
	case "creative":
		return creativeView(body)
	case "stats":
		return statsView(body)
	default:
		return genericView(shape, body)
	}
}

func resumeView(body map[string]any) View {
	view := View{
		Shape:   "resume",
		Title:   "Tailored Resume",
		Primary: str(body, "tailored_resume"),
		Tips:    strList(body, "suggestions"),
	}
	view.Sections = append(view.Sections, Section{Title: "Resume", Body: orPlaceholder(view.Primary)})
	if matched := strList(body, "matched_skills"); len(matched) > 0 {
		view.Sections = append(view.Sections, Section{Title: "Matched Skills", Body: strings.Join(matched, ", ")})
	}
	if missing := strList(body, "missing_skills"); len(missing) > 0 {
		view.Sections = append(view.Sections, Section{Title: "Missing Skills", Body: strings.Join(missing, ", ")})
	}
	view.Metrics = appendMetric(view.Metrics, "ATS Score", intStr(body, "ats_score"))
	return view
}

func documentView(body map[string]any) View {
	view := View{
		Shape:   "document",
		Title:   "Generated Document",
		Primary: str(body, "content"),
		Tips:    strList(body, "suggestions"),
	}
	if docType := str(body, "document_type"); docType != "" {
		view.Title = "Generated " + titleCase(docType)
	}
	view.Sections = append(view.Sections, Section{Title: "Document", Body: orPlaceholder(view.Primary)})
	view.Metrics = appendMetric(view.Metrics, "Word Count", intStr(body, "word_count"))
	view.Metrics = appendMetric(view.Metrics, "Readability", floatStr(body, "readability_score"))
	return view
}

func researchView(body map[string]any) View {
	view := View{
		Shape:   "research",
		Title:   "Research Summary",
		Primary: str(body, "summary"),
	}
	view.Sections = append(view.Sections, Section{Title: "Summary", Body: orPlaceholder(view.Primary)})
	if findings := strList(body, "key_findings"); len(findings) > 0 {
		view.Sections = append(view.Sections, Section{Title: "Key Findings", Body: bulleted(findings)})
	}
	if sources := sourceLines(body); len(sources) > 0 {
		view.Sections = append(view.Sections, Section{Title: "Sources", Body: bulleted(sources)})
	}
	if citations := strList(body, "citations"); len(citations) > 0 {
		view.Sections = append(view.Sections, Section{Title: "Citations", Body: bulleted(citations)})
	}
	view.Metrics = appendMetric(view.Metrics, "Confidence", floatStr(body, "confidence_score"))
	return view
}

func emailView(body map[string]any) View {
	subject := str(body, "subject")
	view := View{
		Shape:   "email",
		Title:   subject,
		Primary: str(body, "body"),
		Tips:    strList(body, "suggestions"),
	}
	if view.Title == "" {
		view.Title = "Generated Email"
	}
	view.Sections = append(view.Sections,
		Section{Title: "Subject", Body: orPlaceholder(subject)},
		Section{Title: "Body", Body: orPlaceholder(view.Primary)},
	)
	if signature := str(body, "signature"); signature != "" {
		view.Sections = append(view.Sections, Section{Title: "Signature", Body: signature})
	}
	view.Metrics = appendMetric(view.Metrics, "Spam Score", floatStr(body, "spam_score"))
	return view
}

func socialView(body map[string]any) View {
	view := View{
		Shape:   "social",
		Title:   "Social Post",
		Primary: str(body, "content"),
		Tips:    strList(body, "engagement_tips"),
	}
	view.Sections = append(view.Sections, Section{Title: "Post", Body: orPlaceholder(view.Primary)})
	if hashtags := strList(body, "hashtags"); len(hashtags) > 0 {
		view.Sections = append(view.Sections, Section{Title: "Hashtags", Body: strings.Join(hashtags, " ")})
	}
	view.Metrics = appendMetric(view.Metrics, "Characters", intStr(body, "character_count"))
	return view
}

func creativeView(body map[string]any) View {
	view := View{
		Shape:   "creative",
		Title:   str(body, "title"),
		Primary: str(body, "content"),
	}
	if view.Title == "" {
		view.Title = "Creative Piece"
	}
	view.Sections = append(view.Sections, Section{Title: view.Title, Body: orPlaceholder(view.Primary)})
	if tags := strList(body, "tags"); len(tags) > 0 {
		view.Sections = append(view.Sections, Section{Title: "Tags", Body: strings.Join(tags, ", ")})
	}
	view.Metrics = appendMetric(view.Metrics, "Word Count", intStr(body, "word_count"))
	view.Metrics = appendMetric(view.Metrics, "SEO Score", intStr(body, "seo_score"))
	return view
}

func statsView(body map[string]any) View {
	view := View{
		Shape: "stats",
		Title: "Dashboard",
	}
	view.Metrics = appendMetric(view.Metrics, "Total Generated", intStr(body, "total_generated"))
	view.Metrics = appendMetric(view.Metrics, "System Status", str(body, "system_status"))
	view.Metrics = appendMetric(view.Metrics, "AI Service", str(body, "ai_service"))
	if collections, ok := body["collections"].(map[string]any); ok {
		lines := make([]string, 0, len(collections))
		for _, name := range sortedKeys(collections) {
			lines = append(lines, fmt.Sprintf("%s: %s", name, anyStr(collections[name])))
		}
		view.Sections = append(view.Sections, Section{Title: "Collections", Body: strings.Join(lines, "\n")})
	}
	return view
}

func genericView(shape string, body map[string]any) View {
	view := View{Shape: shape, Title: "Result"}
	for _, key := range []string{"content", "summary", "body", "text"} {
		if value := str(body, key); value != "" {
			view.Primary = value
			break
		}
	}
	view.Sections = append(view.Sections, Section{Title: "Result", Body: orPlaceholder(view.Primary)})
	return view
}
