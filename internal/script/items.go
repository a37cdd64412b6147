package script

import (
	"fmt"
	"strings"
)

// PracticeItem is one exercise the learner works during a pause.
type PracticeItem struct {
	Problem     string `json:"problem"`
	Answer      string `json:"answer"`
	Explanation string `json:"explanation,omitempty"`
	Format      string `json:"format,omitempty"`
}

// ParseItems parses practice items from pipe-delimited lines. The full
// grammar is `problem | answer | format` with an optional explanation field
// before the format (`problem | answer | explanation | format`); a bare
// `problem | answer` two-field line is tolerated. Lines that don't match
// any grammar are skipped rather than failing the parse.
func ParseItems(text string) []PracticeItem {
	var items []PracticeItem
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "-")
		line = strings.TrimPrefix(line, "*")
		line = strings.TrimSpace(line)
		if line == "" || !strings.Contains(line, "|") {
			continue
		}
		fields := strings.Split(line, "|")
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		var item PracticeItem
		switch {
		case len(fields) >= 4:
			item = PracticeItem{Problem: fields[0], Answer: fields[1], Explanation: fields[2], Format: fields[3]}
		case len(fields) == 3:
			item = PracticeItem{Problem: fields[0], Answer: fields[1], Format: fields[2]}
		case len(fields) == 2:
			item = PracticeItem{Problem: fields[0], Answer: fields[1]}
		}
		if item.Problem == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}

// FormatItems renders items back into the line grammar, one per line.
func FormatItems(items []PracticeItem) string {
	var b strings.Builder
	for _, item := range items {
		switch {
		case item.Explanation != "":
			fmt.Fprintf(&b, "%s | %s | %s | %s\n", item.Problem, item.Answer, item.Explanation, item.Format)
		case item.Format != "":
			fmt.Fprintf(&b, "%s | %s | %s\n", item.Problem, item.Answer, item.Format)
		default:
			fmt.Fprintf(&b, "%s | %s\n", item.Problem, item.Answer)
		}
	}
	return b.String()
}
