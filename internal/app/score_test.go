package app

import (
	"testing"
	"time"
)

func TestPointsRange(t *testing.T) {
	if got := Points(true, 0, 10); got != 1200 {
		t.Fatalf("instant answer: expected 1200, got %d", got)
	}
	if got := Points(true, 10*time.Second, 10); got != 200 {
		t.Fatalf("full time used: expected 200, got %d", got)
	}
	if got := Points(true, time.Second, 10); got != 1100 {
		t.Fatalf("1s of 10s: expected 1100, got %d", got)
	}
	// Clamping: out-of-range elapsed stays within [200, 1200].
	if got := Points(true, -time.Second, 10); got != 1200 {
		t.Fatalf("negative elapsed: expected 1200, got %d", got)
	}
	if got := Points(true, time.Minute, 10); got != 200 {
		t.Fatalf("overlong elapsed: expected 200, got %d", got)
	}
}

func TestPointsMonotonicInElapsed(t *testing.T) {
	prev := Points(true, 0, 30)
	for elapsed := time.Second; elapsed <= 30*time.Second; elapsed += time.Second {
		got := Points(true, elapsed, 30)
		if got > prev {
			t.Fatalf("points increased from %d to %d at elapsed %s", prev, got, elapsed)
		}
		if got < 200 || got > 1200 {
			t.Fatalf("points %d out of range at elapsed %s", got, elapsed)
		}
		prev = got
	}
}

func TestPointsIncorrectAlwaysZero(t *testing.T) {
	for _, elapsed := range []time.Duration{0, time.Second, time.Hour} {
		if got := Points(false, elapsed, 10); got != 0 {
			t.Fatalf("incorrect answer at %s: expected 0, got %d", elapsed, got)
		}
	}
}

func TestStreakBonus(t *testing.T) {
	cases := []struct {
		streak, bonus int
	}{
		{0, 0},
		{1, 0},
		{2, 50},
		{3, 100},
		{5, 200},
	}
	for _, c := range cases {
		if got := StreakBonus(c.streak); got != c.bonus {
			t.Fatalf("streak %d: expected bonus %d, got %d", c.streak, c.bonus, got)
		}
	}
}

func TestSanitizeName(t *testing.T) {
	cases := []struct {
		in, out string
	}{
		{"  Alice  ", "Alice"},
		{`<b>"Bob"</b>`, "bBob/b"},
		{`<>""`, ""},
		{"   ", ""},
		{"abcdefghijklmnopqrstuvwxyz", "abcdefghijklmnop"},
	}
	for _, c := range cases {
		if got := sanitizeName(c.in); got != c.out {
			t.Fatalf("sanitizeName(%q) = %q, want %q", c.in, got, c.out)
		}
	}
}
