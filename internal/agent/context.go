package agent

import (
	"fmt"
	"os"
	"strings"
)

// BuildContext inlines the contents of files for an implementation prompt.
// Unreadable files are listed with the read error instead of failing the call.
func BuildContext(files []string) string {
	if len(files) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Related context files:\n")
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(&b, "\n--- %s (read failed: %v) ---\n", path, err)
			continue
		}
		fmt.Fprintf(&b, "\n--- %s ---\n%s\n", path, data)
	}
	return b.String()
}

// ListContext names files without inlining them. Reviewers receive this
// shorter form because the artifact itself is already in the prompt.
func ListContext(files []string) string {
	if len(files) == 0 {
		return ""
	}
	lines := make([]string, len(files))
	for i, f := range files {
		lines[i] = "File: " + f
	}
	return strings.Join(lines, "\n")
}
