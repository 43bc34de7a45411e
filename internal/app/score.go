package app

import (
	"math"
	"time"
)

// Points maps one answer to its speed-weighted score. Incorrect answers are
// worth nothing; a correct answer earns between 200 (full time used) and 1200
// (instant) points, linear in remaining time. Deterministic and side-effect
// free so it can be tested apart from transport and timers.
func Points(correct bool, elapsed time.Duration, timeLimitSec int) int {
	if !correct {
		return 0
	}
	total := time.Duration(timeLimitSec) * time.Second
	if total <= 0 {
		return 200
	}
	clamped := elapsed
	if clamped < 0 {
		clamped = 0
	}
	if clamped > total {
		clamped = total
	}
	frac := 1 - float64(clamped)/float64(total)
	return int(math.Round(200 + 1000*frac))
}

// StreakBonus is the extra awarded on top of Points for consecutive correct
// answers. It is computed from the post-increment streak counter: a streak of
// 0 or 1 earns nothing, longer streaks earn 50*(streak-1).
func StreakBonus(streak int) int {
	if streak < 2 {
		return 0
	}
	return 50 * (streak - 1)
}
