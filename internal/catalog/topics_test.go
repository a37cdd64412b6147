package catalog

import "testing"

func TestTopicsCoverEveryGradeAndSubject(t *testing.T) {
	for _, grade := range Grades() {
		for _, subject := range Subjects() {
			topics := Topics(grade, subject)
			if len(topics) == 0 {
				t.Fatalf("no topics for grade %s subject %s", grade, subject)
			}
		}
	}
}

func TestTopicsReturnsCopy(t *testing.T) {
	first := Topics("3", SubjectMath)
	first[0] = "mutated"
	second := Topics("3", SubjectMath)
	if second[0] == "mutated" {
		t.Fatal("Topics must return a defensive copy")
	}
}

func TestContains(t *testing.T) {
	if !Contains("3", SubjectMath, "multiplication facts") {
		t.Fatal("expected case-insensitive match")
	}
	if Contains("3", SubjectMath, "quantum chromodynamics") {
		t.Fatal("unexpected match")
	}
}

func TestParseSubject(t *testing.T) {
	cases := []struct {
		in   string
		want Subject
		ok   bool
	}{
		{"Math", SubjectMath, true},
		{" mathematics ", SubjectMath, true},
		{"Reading", SubjectReading, true},
		{"phonics", SubjectReading, true},
		{"science", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseSubject(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseSubject(%q) = %q,%v want %q,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("  multiplication   facts "); got != "Multiplication Facts" {
		t.Fatalf("Normalize = %q", got)
	}
	if got := Normalize(""); got != "" {
		t.Fatalf("Normalize empty = %q", got)
	}
}

func TestKindergartenAliases(t *testing.T) {
	if len(Topics("kindergarten", SubjectReading)) == 0 {
		t.Fatal("kindergarten alias should resolve to K")
	}
}
