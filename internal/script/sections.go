package script

import (
	"fmt"
	"sort"
	"strings"
)

// Section tags as they appear, bracketed, in model output. The bracketed
// form is the contract with the completion service.
const (
	TagIntroduction      = "INTRODUCTION"
	TagCoreExplanation   = "CORE_EXPLANATION"
	TagPractice1Setup    = "PRACTICE_1_SETUP"
	TagPractice1Prompt   = "PRACTICE_1_PROMPT"
	TagPractice1Items    = "PRACTICE_1_ITEMS"
	TagPractice1Resume   = "PRACTICE_1_RESUME"
	TagPractice1Answers  = "PRACTICE_1_ANSWERS"
	TagDeeperExplanation = "DEEPER_EXPLANATION"
	TagPractice2Setup    = "PRACTICE_2_SETUP"
	TagPractice2Prompt   = "PRACTICE_2_PROMPT"
	TagPractice2Items    = "PRACTICE_2_ITEMS"
	TagPractice2Resume   = "PRACTICE_2_RESUME"
	TagPractice2Answers  = "PRACTICE_2_ANSWERS"
	TagMiniChallenge     = "MINI_CHALLENGE"
	TagClosing           = "CLOSING"
	TagParentSummary     = "PARENT_SUMMARY"
)

// sectionTags lists every known tag in the pedagogical order the prompt
// requests them.
var sectionTags = []string{
	TagIntroduction,
	TagCoreExplanation,
	TagPractice1Setup,
	TagPractice1Prompt,
	TagPractice1Items,
	TagPractice1Resume,
	TagPractice1Answers,
	TagDeeperExplanation,
	TagPractice2Setup,
	TagPractice2Prompt,
	TagPractice2Items,
	TagPractice2Resume,
	TagPractice2Answers,
	TagMiniChallenge,
	TagClosing,
	TagParentSummary,
}

// SectionTags returns the ordered tag list.
func SectionTags() []string {
	cp := make([]string, len(sectionTags))
	copy(cp, sectionTags)
	return cp
}

func delimiter(tag string) string {
	return "[" + tag + "]"
}

// SplitSections splits raw model output on bracketed section delimiters.
// Every known tag gets a map entry; content before the first delimiter and
// unknown delimiters are ignored. Never fails.
func SplitSections(raw string) map[string]string {
	sections := make(map[string]string, len(sectionTags))
	for _, tag := range sectionTags {
		sections[tag] = ""
	}

	type marker struct {
		tag   string
		start int // index just past the delimiter
	}
	var markers []marker
	for _, tag := range sectionTags {
		needle := delimiter(tag)
		if idx := strings.Index(raw, needle); idx >= 0 {
			markers = append(markers, marker{tag: tag, start: idx + len(needle)})
		}
	}
	sort.Slice(markers, func(i, j int) bool { return markers[i].start < markers[j].start })

	for i, m := range markers {
		end := len(raw)
		if i+1 < len(markers) {
			end = markers[i+1].start - len(delimiter(markers[i+1].tag))
		}
		sections[m.tag] = strings.TrimSpace(raw[m.start:end])
	}
	return sections
}

// FormatSections renders a section map back into delimited text in tag
// order. SplitSections(FormatSections(m)) reconstructs m for trimmed
// values; the prompt builder uses the same rendering for few-shot examples.
func FormatSections(sections map[string]string) string {
	var b strings.Builder
	for _, tag := range sectionTags {
		fmt.Fprintf(&b, "%s\n%s\n\n", delimiter(tag), strings.TrimSpace(sections[tag]))
	}
	return b.String()
}
