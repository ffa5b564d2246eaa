package agent

import (
	"fmt"
	"strings"
)

// ImplementPrompt builds the prompt asking an agent to implement task.
func ImplementPrompt(task, contextText string) string {
	var b strings.Builder
	if contextText != "" {
		b.WriteString(contextText)
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "Implement the following requirement:\n%s\n\n", task)
	b.WriteString("Output the code directly, with the comments it needs.")
	return b.String()
}

// ReviewPrompt builds the prompt asking an agent to review artifact.
func ReviewPrompt(artifact, task, reviewContext string) string {
	var b strings.Builder
	if reviewContext != "" {
		b.WriteString(reviewContext)
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "Original requirement: %s\n\n", task)
	fmt.Fprintf(&b, "Generated code:\n```\n%s\n```\n\n", artifact)
	b.WriteString("Review the code above as an experienced reviewer and cover:\n")
	b.WriteString("1. Correctness against the requirement\n")
	b.WriteString("2. Code quality\n")
	b.WriteString("3. Potential bugs or issues\n")
	b.WriteString("4. Security considerations\n")
	b.WriteString("5. Performance and suggested improvements\n\n")
	b.WriteString("Use a clear, structured format.")
	return b.String()
}

// ImprovePrompt builds the prompt asking an agent to edit the artifact at
// path according to its own earlier findings.
func ImprovePrompt(path, findings, task string) string {
	var b strings.Builder
	b.WriteString("You reviewed this code earlier. Now apply your own suggestions to it.\n\n")
	fmt.Fprintf(&b, "Original requirement: %s\n\n", task)
	fmt.Fprintf(&b, "Your review:\n%s\n\n", findings)
	fmt.Fprintf(&b, "Edit the file %s directly. Do not only describe changes; modify the file.", path)
	return b.String()
}
