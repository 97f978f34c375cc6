package ai

import "strings"

// ExtractJSON strips markdown code fences and stray backticks that models
// wrap around JSON payloads.
func ExtractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}

	raw = strings.Trim(raw, "`")

	return strings.TrimSpace(raw)
}
