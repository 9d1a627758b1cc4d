package engine

import "time"

// ElapsedMs is the time accrued by an interval: the banked milliseconds plus
// the running sub-interval measured from its fixed anchor. It is always
// recomputed from the anchor, so calling it at any cadence never drifts.
func ElapsedMs(accumulatedMs int64, intervalStart *time.Time, now time.Time) int64 {
	if intervalStart == nil {
		return accumulatedMs
	}
	running := now.Sub(*intervalStart).Milliseconds()
	if running < 0 {
		running = 0
	}
	return accumulatedMs + running
}

// pause banks the running sub-interval. Reports false when already paused.
func (s *State) pause(now time.Time) bool {
	if !s.IsActive {
		return false
	}
	s.AccumulatedMs = ElapsedMs(s.AccumulatedMs, s.IntervalStart, now)
	s.IntervalStart = nil
	s.IsActive = false
	return true
}

// resume anchors a new sub-interval at now. Reports false when already active.
func (s *State) resume(now time.Time) bool {
	if s.IsActive {
		return false
	}
	start := now
	s.IntervalStart = &start
	s.IsActive = true
	return true
}
