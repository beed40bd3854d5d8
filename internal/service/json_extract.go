package service

import "strings"

// extractFirstJSONArray returns the first balanced top-level JSON array in
// the input, or "" when none is found. LLM output often wraps the payload in
// prose or code fences, so a plain json.Unmarshal of the whole string fails.
func extractFirstJSONArray(input string) string {
	start := strings.IndexByte(input, '[')
	if start == -1 {
		return ""
	}

	inString := false
	escape := false
	depth := 0

	for i := start; i < len(input); i++ {
		ch := input[i]

		if inString {
			if escape {
				escape = false
				continue
			}
			if ch == '\\' {
				escape = true
				continue
			}
			if ch == '"' {
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return input[start : i+1]
			}
			if depth < 0 {
				return ""
			}
		}
	}

	return ""
}
