// Package parse extracts structured data from free-form model output.
//
// Model responses carry no format guarantee, so extraction is tiered: a
// strict JSON span with schema validation first, heuristic header and
// blank-line splitting second, and a caller-supplied placeholder last. The
// package never panics on malformed input; callers tag their artifacts with
// the Status of the tier that produced them.
package parse

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Status tags which tier produced a structured result.
type Status string

const (
	// StatusParsed means the strict JSON tier succeeded and the payload
	// validated against its schema.
	StatusParsed Status = "parsed"
	// StatusDegraded means heuristic splitting reconstructed a best-effort
	// result from non-JSON output.
	StatusDegraded Status = "degraded"
	// StatusFailed means no structure was recognizable and the result is a
	// placeholder.
	StatusFailed Status = "failed"
)

// ExtractList returns the first `[{` through the last `}]` span of raw, for
// list-of-objects payloads. The second return is false when no such span
// exists.
func ExtractList(raw string) (string, bool) {
	start := strings.Index(raw, "[{")
	end := strings.LastIndex(raw, "}]")
	if start < 0 || end < start {
		return "", false
	}
	return raw[start : end+2], true
}

// ExtractObject returns the first `{` through the last `}` span of raw, for
// single-object payloads. The second return is false when no such span
// exists.
func ExtractObject(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return "", false
	}
	return raw[start : end+1], true
}

// Decode validates jsonText against the given JSON Schema and unmarshals it
// into v. Validation runs first so a payload that decodes but violates the
// expected shape is rejected rather than half-filled.
func Decode(jsonText, schema string, v any) error {
	if schema != "" {
		result, err := gojsonschema.Validate(
			gojsonschema.NewStringLoader(schema),
			gojsonschema.NewStringLoader(jsonText),
		)
		if err != nil {
			return fmt.Errorf("failed to validate payload: %w", err)
		}
		if !result.Valid() {
			errs := make([]string, 0, len(result.Errors()))
			for _, e := range result.Errors() {
				errs = append(errs, e.String())
			}
			return fmt.Errorf("payload does not match schema: %s", strings.Join(errs, "; "))
		}
	}

	if err := json.Unmarshal([]byte(jsonText), v); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}
	return nil
}

// Blocks splits raw into blank-line-separated blocks, trimmed, with empty
// blocks dropped.
func Blocks(raw string) []string {
	parts := strings.Split(raw, "\n\n")
	blocks := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			blocks = append(blocks, trimmed)
		}
	}
	return blocks
}

// Sections splits raw on the named section headers, in the order given, and
// returns each header's body. A header's body runs until the next present
// header. Headers absent from raw are absent from the map.
func Sections(raw string, headers ...string) map[string]string {
	sections := make(map[string]string)
	for i, header := range headers {
		_, after, found := strings.Cut(raw, header)
		if !found {
			continue
		}
		for _, next := range headers[i+1:] {
			if idx := strings.Index(after, next); idx >= 0 {
				after = after[:idx]
				break
			}
		}
		sections[header] = strings.TrimSpace(strings.TrimLeft(after, ":"))
	}
	return sections
}

// Fields scans block line by line for `name: value` pairs matching the given
// field names, case-insensitively. Later occurrences of a field overwrite
// earlier ones.
func Fields(block string, names ...string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(block, "\n") {
		lower := strings.ToLower(line)
		for _, name := range names {
			prefix := strings.ToLower(name) + ":"
			if idx := strings.Index(lower, prefix); idx >= 0 {
				fields[name] = strings.TrimSpace(line[idx+len(prefix):])
			}
		}
	}
	return fields
}

// BulletItems returns the trimmed text of lines starting with a `-` or `*`
// bullet marker.
func BulletItems(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "-") || strings.HasPrefix(trimmed, "*") {
			item := strings.TrimSpace(strings.TrimLeft(trimmed, "-*"))
			if item != "" {
				items = append(items, item)
			}
		}
	}
	return items
}
