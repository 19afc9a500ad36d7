package browser

import (
	"math/rand/v2"
	"time"
)

// Profile describes human-like pacing for browser interactions.
type Profile struct {
	MinDelay time.Duration
	MaxDelay time.Duration
	// MinScrolls/MaxScrolls bound the number of scroll gestures per page.
	MinScrolls int
	MaxScrolls int
	// ScrollBackChance is the probability [0,1] of scrolling back up a bit
	// after the main scroll sequence.
	ScrollBackChance float64
}

// DefaultProfile mimics an unhurried reader.
func DefaultProfile() Profile {
	return Profile{
		MinDelay:         1500 * time.Millisecond,
		MaxDelay:         4500 * time.Millisecond,
		MinScrolls:       2,
		MaxScrolls:       5,
		ScrollBackChance: 0.4,
	}
}

// Delay draws a normally distributed delay centered between MinDelay and
// MaxDelay, clamped to the range.
func (p Profile) Delay() time.Duration {
	if p.MaxDelay <= p.MinDelay {
		return p.MinDelay
	}
	mean := float64(p.MinDelay+p.MaxDelay) / 2
	stddev := float64(p.MaxDelay-p.MinDelay) / 4
	d := time.Duration(rand.NormFloat64()*stddev + mean)
	if d < p.MinDelay {
		return p.MinDelay
	}
	if d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

// ScrollPlan returns randomized scroll amounts in pixels, one per gesture.
// A trailing negative amount is the occasional scroll-back.
func (p Profile) ScrollPlan() []int {
	minS, maxS := p.MinScrolls, p.MaxScrolls
	if minS <= 0 {
		minS = 1
	}
	if maxS < minS {
		maxS = minS
	}
	n := minS + rand.IntN(maxS-minS+1)
	plan := make([]int, 0, n+1)
	for i := 0; i < n; i++ {
		plan = append(plan, 200+rand.IntN(601)) // 200..800 px
	}
	if rand.Float64() < p.ScrollBackChance {
		plan = append(plan, -plan[len(plan)-1]/2)
	}
	return plan
}
