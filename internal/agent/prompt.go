package agent

import (
	"fmt"
	"sort"
	"strings"
)

// composePrompt places the labeled preceding output first, then the session
// context in key order, then the message itself.
func composePrompt(message string, sessionCtx map[string]any, preceding string) string {
	var sb strings.Builder

	if preceding != "" {
		sb.WriteString(precedingOutputOpen)
		sb.WriteString("\n")
		sb.WriteString(preceding)
		sb.WriteString("\n")
		sb.WriteString(precedingOutputClose)
		sb.WriteString("\n\n")
	}

	if len(sessionCtx) > 0 {
		keys := make([]string, 0, len(sessionCtx))
		for k := range sessionCtx {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteString(contextHeader)
		sb.WriteString("\n")
		for _, k := range keys {
			fmt.Fprintf(&sb, "%s: %v\n", k, sessionCtx[k])
		}
		sb.WriteString("\n")
	}

	sb.WriteString(message)
	return sb.String()
}
