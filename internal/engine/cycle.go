package engine

import "focustrack/internal/model"

// NextCycle maps a finished interval to the one that follows it.
// Work increments the set counter and is followed by a long break every
// cyclesUntilLongBreak completions, a short break otherwise. Breaks are
// always followed by work and leave the counter alone.
func NextCycle(current model.Cycle, completedInSet, cyclesUntilLongBreak int) (model.Cycle, int) {
	if cyclesUntilLongBreak < 1 {
		cyclesUntilLongBreak = 1
	}
	if current.IsBreak() {
		return model.CycleWork, completedInSet
	}

	completedInSet++
	if completedInSet%cyclesUntilLongBreak == 0 {
		return model.CycleLongBreak, completedInSet
	}
	return model.CycleShortBreak, completedInSet
}
