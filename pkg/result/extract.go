package result

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// The helpers below tolerate missing or oddly typed fields; render degradation
// is not an error.

func str(body map[string]any, key string) string {
	if value, ok := body[key].(string); ok {
		return strings.TrimSpace(value)
	}
	return ""
}

func strList(body map[string]any, key string) []string {
	raw, ok := body[key]
	if !ok {
		return nil
	}
	switch typed := raw.(type) {
	case []string:
		return typed
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			if text := strings.TrimSpace(anyStr(item)); text != "" {
				out = append(out, text)
			}
		}
		return out
	default:
		return nil
	}
}

func intStr(body map[string]any, key string) string {
	switch value := body[key].(type) {
	case float64:
		return strconv.Itoa(int(value))
	case int:
		return strconv.Itoa(value)
	default:
		return ""
	}
}

func floatStr(body map[string]any, key string) string {
	switch value := body[key].(type) {
	case float64:
		return strconv.FormatFloat(value, 'f', 1, 64)
	case int:
		return strconv.FormatFloat(float64(value), 'f', 1, 64)
	default:
		return ""
	}
}

func anyStr(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case float64:
		if typed == float64(int(typed)) {
			return strconv.Itoa(int(typed))
		}
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(typed)
	case nil:
		return ""
	default:
		return fmt.Sprint(typed)
	}
}

func orPlaceholder(value string) string {
	if strings.TrimSpace(value) == "" {
		return placeholder
	}
	return value
}

func bulleted(items []string) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, "- "+item)
	}
	return strings.Join(lines, "\n")
}

func appendMetric(metrics []Metric, name, value string) []Metric {
	if strings.TrimSpace(value) == "" {
		return metrics
	}
	return append(metrics, Metric{Name: name, Value: value})
}

// sourceLines flattens research source records into "title - url" lines.
func sourceLines(body map[string]any) []string {
	raw, ok := body["sources"].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		record, ok := item.(map[string]any)
		if !ok {
			continue
		}
		title := str(record, "title")
		url := str(record, "url")
		switch {
		case title != "" && url != "":
			out = append(out, title+" - "+url)
		case title != "":
			out = append(out, title)
		case url != "":
			out = append(out, url)
		}
	}
	return out
}

func titleCase(value string) string {
	words := strings.FieldsFunc(value, func(r rune) bool {
		return r == '_' || r == ' ' || r == '-'
	})
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
