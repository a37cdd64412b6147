package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Subject identifies a teaching subject.
type Subject string

const (
	SubjectMath    Subject = "math"
	SubjectReading Subject = "reading"
)

// Grades lists the supported grade levels in order.
func Grades() []string {
	return []string{"K", "1", "2", "3", "4", "5", "6"}
}

// Subjects lists the supported subjects.
func Subjects() []Subject {
	return []Subject{SubjectMath, SubjectReading}
}

// ParseSubject normalizes free-text subject input.
func ParseSubject(value string) (Subject, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "math", "maths", "mathematics":
		return SubjectMath, true
	case "reading", "phonics", "literacy":
		return SubjectReading, true
	default:
		return "", false
	}
}

var mathTopics = map[string][]string{
	"K": {"Counting to 20", "Number recognition", "Simple shapes", "Comparing sizes"},
	"1": {"Addition within 20", "Subtraction within 20", "Place value basics", "Telling time to the hour"},
	"2": {"Two-digit addition", "Two-digit subtraction", "Skip counting", "Money and coins"},
	"3": {"Multiplication facts", "Division facts", "Fractions basics", "Area and perimeter"},
	"4": {"Multi-digit multiplication", "Long division", "Equivalent fractions", "Decimals basics"},
	"5": {"Fraction addition and subtraction", "Decimal operations", "Volume", "Order of operations"},
	"6": {"Ratios and rates", "Percentages", "Negative numbers", "Basic algebra"},
}

var readingTopics = map[string][]string{
	"K": {"Letter sounds", "Rhyming words", "Sight words", "Blending sounds"},
	"1": {"Short vowel sounds", "Digraphs", "Simple sentences", "Story sequencing"},
	"2": {"Long vowel patterns", "Silent e", "Reading fluency", "Main idea"},
	"3": {"Vowel teams", "Multisyllable words", "Reading comprehension", "Context clues"},
	"4": {"Prefixes and suffixes", "Summarizing", "Inference", "Text structure"},
	"5": {"Figurative language", "Theme", "Point of view", "Comparing texts"},
	"6": {"Greek and Latin roots", "Author's purpose", "Argument and evidence", "Analyzing characters"},
}

// Topics returns the catalog topics for a grade and subject. The returned
// slice is a copy; callers may mutate it freely.
func Topics(grade string, subject Subject) []string {
	grade = normalizeGrade(grade)
	var source []string
	switch subject {
	case SubjectMath:
		source = mathTopics[grade]
	case SubjectReading:
		source = readingTopics[grade]
	}
	if len(source) == 0 {
		return nil
	}
	out := make([]string, len(source))
	copy(out, source)
	return out
}

// Contains reports whether a topic belongs to the catalog for a grade and
// subject. Comparison is case-insensitive.
func Contains(grade string, subject Subject, topic string) bool {
	topic = strings.ToLower(strings.TrimSpace(topic))
	for _, candidate := range Topics(grade, subject) {
		if strings.ToLower(candidate) == topic {
			return true
		}
	}
	return false
}

var titleCaser = cases.Title(language.AmericanEnglish)

// Normalize trims a free-text topic and applies title casing so custom
// topics display consistently next to catalog entries.
func Normalize(topic string) string {
	topic = strings.Join(strings.Fields(topic), " ")
	if topic == "" {
		return ""
	}
	return titleCaser.String(topic)
}

func normalizeGrade(grade string) string {
	grade = strings.TrimSpace(grade)
	if strings.EqualFold(grade, "k") || strings.EqualFold(grade, "kindergarten") {
		return "K"
	}
	return grade
}
