// Package sheets assembles the printable practice sheet for a lesson. The
// output is markdown consumed verbatim by the external PDF renderer.
package sheets

import (
	"fmt"
	"strings"

	"lessonforge/internal/script"
)

// Build renders the practice sheet for a finalized lesson script: the
// practice problems first, then the answer key, then the parent summary.
func Build(lesson *script.LessonScript, childName string) string {
	var b strings.Builder

	title := strings.TrimSpace(lesson.Title)
	if title == "" {
		title = "Practice Sheet"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	if name := strings.TrimSpace(childName); name != "" {
		fmt.Fprintf(&b, "Prepared for %s\n\n", name)
	}

	items := lesson.AllItems()
	if len(items) > 0 {
		b.WriteString("## Practice Problems\n\n")
		for i, item := range items {
			fmt.Fprintf(&b, "%d. %s\n", i+1, item.Problem)
			if format := strings.TrimSpace(item.Format); format != "" {
				fmt.Fprintf(&b, "   _%s_\n", format)
			}
			b.WriteString("\n")
		}

		b.WriteString("## Answer Key\n\n")
		for i, item := range items {
			fmt.Fprintf(&b, "%d. %s\n", i+1, item.Answer)
			if explanation := strings.TrimSpace(item.Explanation); explanation != "" {
				fmt.Fprintf(&b, "   %s\n", explanation)
			}
			b.WriteString("\n")
		}
	}

	if challenge := strings.TrimSpace(lesson.MiniChallenge); challenge != "" {
		b.WriteString("## Bonus Challenge\n\n")
		b.WriteString(challenge)
		b.WriteString("\n\n")
	}

	if summary := strings.TrimSpace(lesson.ParentSummary); summary != "" {
		b.WriteString("## For Parents\n\n")
		b.WriteString(summary)
		b.WriteString("\n")
	}

	return b.String()
}
