package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"0612345678", "+31612345678"},
		{"+31 6 1234 5678", "+31612345678"},
		{" 0612345678 ", "+31612345678"},
		{"+14155552671", "+14155552671"},
		{"not a number", "not a number"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := NormalizeE164(tc.input); got != tc.expected {
			t.Fatalf("NormalizeE164(%q) = %q, expected %q", tc.input, got, tc.expected)
		}
	}
}

func TestIsValid(t *testing.T) {
	valid := []string{"0612345678", "+31612345678", "+14155552671"}
	for _, input := range valid {
		if !IsValid(input) {
			t.Fatalf("expected %q to be valid", input)
		}
	}

	invalid := []string{"", "   ", "12", "not a number"}
	for _, input := range invalid {
		if IsValid(input) {
			t.Fatalf("expected %q to be invalid", input)
		}
	}
}
