package research

import "strings"

// extractJSON returns the first balanced JSON object in content, or "".
func extractJSON(content string) string {
	start := strings.Index(content, "{")
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(content); i++ {
		c := content[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return content[start : i+1]
			}
		}
	}
	return ""
}

// hasApprovalSentinel reports whether output contains the approval sentinel
// as a bare line outside fenced code blocks. A sentinel quoted inside a
// fence is example text, not a verdict.
func hasApprovalSentinel(output string) bool {
	inFence := false
	fenceChar := byte(0)
	fenceLen := 0
	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) >= 3 {
			if !inFence {
				if trimmed[0] == '`' || trimmed[0] == '~' {
					fenceChar = trimmed[0]
					fenceLen = 1
					for fenceLen < len(trimmed) && trimmed[fenceLen] == fenceChar {
						fenceLen++
					}
					if fenceLen >= 3 {
						inFence = true
						continue
					}
					fenceChar = 0
					fenceLen = 0
				}
			} else if fenceChar != 0 {
				count := 0
				for count < len(trimmed) && trimmed[count] == fenceChar {
					count++
				}
				if count >= fenceLen {
					inFence = false
					fenceChar = 0
					fenceLen = 0
					continue
				}
			}
		}
		if inFence {
			continue
		}
		if trimmed == ApprovalSentinel {
			return true
		}
	}
	return false
}
