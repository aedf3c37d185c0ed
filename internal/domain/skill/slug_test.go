package skill

import "testing"

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Programming Languages": "programming-languages",
		"  C++ & Go  ":          "c-go",
		"DevOps/SRE":            "devops-sre",
		"Café Skills":           "caf-skills",
		"---":                   "",
		"Web 3.0":               "web-3-0",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Fatalf("Slugify(%q): expected %q, got %q", in, want, got)
		}
		if want != "" && !ValidSlug(want) {
			t.Fatalf("Slugify(%q) produced invalid slug %q", in, want)
		}
	}
}

func TestValidSlug(t *testing.T) {
	valid := []string{"go", "soft-skills", "web3"}
	invalid := []string{"", "Go", "-go", "go-", "soft--skills", "soft skills"}
	for _, s := range valid {
		if !ValidSlug(s) {
			t.Fatalf("expected %q valid", s)
		}
	}
	for _, s := range invalid {
		if ValidSlug(s) {
			t.Fatalf("expected %q invalid", s)
		}
	}
}

func TestValidHexColor(t *testing.T) {
	if !ValidHexColor("#2563eb") {
		t.Fatalf("expected lower-case hex valid")
	}
	if ValidHexColor("2563EB") || ValidHexColor("#FFF") {
		t.Fatalf("expected short or unprefixed colors invalid")
	}
}

func TestProficiencyBounds(t *testing.T) {
	if ValidProficiency(-1) || ValidProficiency(11) {
		t.Fatalf("expected out of range proficiency invalid")
	}
	if !ValidProficiency(0) || !ValidProficiency(10) {
		t.Fatalf("expected bounds inclusive")
	}
	if ClampProficiency(12) != 10 || ClampProficiency(-3) != 0 || ClampProficiency(4) != 4 {
		t.Fatalf("unexpected clamp result")
	}
}

func TestHistoryDelta(t *testing.T) {
	prev := 4
	if d := (History{PreviousProficiency: &prev, NewProficiency: 7}).Delta(); d != 3 {
		t.Fatalf("expected delta 3, got %d", d)
	}
	if d := (History{NewProficiency: 5}).Delta(); d != 5 {
		t.Fatalf("expected creation delta 5, got %d", d)
	}
}
