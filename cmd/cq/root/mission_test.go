package root

import "testing"

func TestEffectiveListAge(t *testing.T) {
	// The unset flag must map to an age every age group accepts, so the
	// default listing shows 4+ and 9+ missions too.
	if got := effectiveListAge(-1); got != 18 {
		t.Fatalf("effectiveListAge(-1)=%d, want 18", got)
	}
	for _, age := range []int{0, 4, 9, 15} {
		if got := effectiveListAge(age); got != age {
			t.Fatalf("effectiveListAge(%d)=%d, want passthrough", age, got)
		}
	}
}
