package llm

import (
	"fmt"
	"strings"
	"unicode"
)

// NormalizeToolCallIDs ensures every tool call has a stable, non-empty
// identifier. Some providers occasionally omit call IDs on their streaming
// deltas, which breaks downstream requests that require tool_call_id on a
// follow-up tool-result message.
func NormalizeToolCallIDs(calls []ToolCall) []ToolCall {
	for i := range calls {
		if strings.TrimSpace(calls[i].ID) != "" {
			continue
		}
		if name := sanitizeToolName(calls[i].Name); name != "" {
			calls[i].ID = fmt.Sprintf("call_%s_%d", name, i+1)
			continue
		}
		calls[i].ID = fmt.Sprintf("call_%d", i+1)
	}
	return calls
}

func sanitizeToolName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "_")
}
