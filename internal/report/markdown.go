// Package report renders a finished run for people and machines.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dusk-indust/crossreview/internal/orchestrator"
)

// Markdown renders res as a Markdown review report.
func Markdown(res *orchestrator.Result) string {
	var b strings.Builder

	b.WriteString("# Multi-Agent Code Review Report\n\n")
	fmt.Fprintf(&b, "**Task**: %s\n\n", res.Task)
	fmt.Fprintf(&b, "**Run**: %s\n\n", res.RunID)
	fmt.Fprintf(&b, "**Time**: %s\n\n", res.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "**Implementer**: %s\n\n", res.Implementer)
	fmt.Fprintf(&b, "**Reviewers**: %s\n\n", strings.Join(res.Reviewers, ", "))
	fmt.Fprintf(&b, "**Implementation time**: %s\n\n", seconds(res.Implementation.Elapsed))
	b.WriteString("---\n\n")

	b.WriteString("## Generated Code\n\n")
	writeFenced(&b, res.Implementation.Output)

	if len(res.Themes) > 0 {
		b.WriteString("## Consensus Themes\n\n")
		b.WriteString("Points raised by several reviewers:\n\n")
		for _, th := range res.Themes {
			fmt.Fprintf(&b, "- %s\n", th)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Reviews\n\n")
	if len(res.Summary.OutputsByAgent) == 0 {
		fmt.Fprintf(&b, "_%s._\n\n", res.Outcome())
	}
	for _, name := range sortedKeys(res.Summary.OutputsByAgent) {
		fmt.Fprintf(&b, "### Review by %s\n\n", name)
		fmt.Fprintf(&b, "%s\n\n", strings.TrimSpace(res.Summary.OutputsByAgent[name]))
		b.WriteString("---\n\n")
	}

	if imp := res.Improvement; imp != nil && len(imp.Steps) > 0 {
		b.WriteString("## Improvement Process\n\n")
		b.WriteString("Reviewers edited the artifact in turn:\n\n")
		for _, step := range imp.Steps {
			resp := imp.Log[step.Agent]
			switch {
			case !resp.Success:
				fmt.Fprintf(&b, "### %s (failed)\n\n", step.Agent)
				fmt.Fprintf(&b, "Error: %s\n\n", resp.ErrorDetail)
			case step.ReadError != "":
				fmt.Fprintf(&b, "### %s (artifact unreadable)\n\n", step.Agent)
				fmt.Fprintf(&b, "Error: %s\n\n", step.ReadError)
			case !step.Changed:
				fmt.Fprintf(&b, "### %s (no changes)\n\n", step.Agent)
			default:
				fmt.Fprintf(&b, "### %s\n\n", step.Agent)
			}
			if out := strings.TrimSpace(resp.Output); out != "" {
				fmt.Fprintf(&b, "%s\n\n", out)
			}
			b.WriteString("---\n\n")
		}

		if imp.FinalAvailable {
			b.WriteString("## Final Code\n\n")
			writeFenced(&b, imp.FinalContent)
		}
	}

	b.WriteString("## Statistics\n\n")
	if res.Batch.TimedOut || res.Batch.Canceled {
		fmt.Fprintf(&b, "- %s\n", res.Outcome())
	} else {
		fmt.Fprintf(&b, "- Successful reviews: %d/%d\n", res.Summary.TotalSucceeded, res.Batch.Requested)
	}
	fmt.Fprintf(&b, "- Total time: %s\n", seconds(res.FinishedAt.Sub(res.StartedAt)))
	if res.Improvement != nil {
		fmt.Fprintf(&b, "- Improvement passes: %d\n", len(res.Improvement.Steps))
	}
	b.WriteString("\n")

	if len(res.Diagnostics) > 0 {
		b.WriteString("## Diagnostics\n\n")
		for _, d := range res.Diagnostics {
			fmt.Fprintf(&b, "- %s\n", d)
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n*Generated by crossreview*\n")
	return b.String()
}

// Save writes text to path, creating parent directories.
func Save(path, text string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("report: create dir: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	return nil
}

// writeFenced writes content as a code block whose fence is longer than any
// backtick run inside it.
func writeFenced(b *strings.Builder, content string) {
	fence := "```"
	for strings.Contains(content, fence) {
		fence += "`"
	}
	fmt.Fprintf(b, "%s\n%s\n%s\n\n", fence, strings.TrimRight(content, "\n"), fence)
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%.2fs", d.Seconds())
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
