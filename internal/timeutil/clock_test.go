package timeutil

import (
	"testing"
	"time"
)

func TestRealClock_Now(t *testing.T) {
	clock := RealClock{}
	before := time.Now()
	now := clock.Now()
	after := time.Now()

	if now.Before(before) || now.After(after) {
		t.Errorf("Now() = %v, expected between %v and %v", now, before, after)
	}
}

func TestRealClock_Since(t *testing.T) {
	clock := RealClock{}
	past := time.Now().Add(-time.Second)
	d := clock.Since(past)

	if d < time.Second {
		t.Errorf("Since() returned %v, expected >= 1s", d)
	}
}

func TestMockClock_Now(t *testing.T) {
	base := time.Date(2024, 7, 26, 12, 0, 0, 0, time.UTC)
	clock := NewMockClock(base)

	if got := clock.Now(); !got.Equal(base) {
		t.Errorf("Now() = %v, want %v", got, base)
	}

	// Time does not move on its own
	if got := clock.Now(); !got.Equal(base) {
		t.Errorf("second Now() = %v, want %v", got, base)
	}
}

func TestMockClock_Set(t *testing.T) {
	base := time.Date(2024, 7, 26, 12, 0, 0, 0, time.UTC)
	clock := NewMockClock(base)

	later := base.Add(48 * time.Hour)
	clock.Set(later)

	if got := clock.Now(); !got.Equal(later) {
		t.Errorf("Now() after Set = %v, want %v", got, later)
	}
}

func TestMockClock_Advance(t *testing.T) {
	base := time.Date(2024, 7, 26, 12, 0, 0, 0, time.UTC)
	clock := NewMockClock(base)

	clock.Advance(90 * time.Minute)

	want := base.Add(90 * time.Minute)
	if got := clock.Now(); !got.Equal(want) {
		t.Errorf("Now() after Advance = %v, want %v", got, want)
	}
}

func TestMockClock_Since(t *testing.T) {
	base := time.Date(2024, 7, 26, 12, 0, 0, 0, time.UTC)
	clock := NewMockClock(base)

	start := base.Add(-time.Hour)
	if got := clock.Since(start); got != time.Hour {
		t.Errorf("Since() = %v, want 1h", got)
	}

	clock.Advance(30 * time.Minute)
	if got := clock.Since(start); got != 90*time.Minute {
		t.Errorf("Since() after Advance = %v, want 90m", got)
	}
}
