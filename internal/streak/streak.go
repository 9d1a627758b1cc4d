package streak

// PausePeriod is an inclusive range of days that neither breaks nor, on its
// own, starts a streak.
type PausePeriod struct {
	Start Date
	End   Date
}

func (p PausePeriod) Contains(d Date) bool {
	return d >= p.Start && d <= p.End
}

// Result is the streak judgment for one day.
type Result struct {
	CurrentStreak int  `json:"currentStreak"`
	TodayCounted  bool `json:"todayCounted"`
}

// Compute walks backward from today counting consecutive days that have a
// session or fall inside a pause period.
//
// Today counts only when it has a session; a sessionless today neither
// counts nor breaks the streak. Pause days count only when they bridge back
// to an earlier session day, so a pause cannot extend a streak by itself.
// Pause periods may overlap or arrive in any order. Days not written as
// canonical YYYY-MM-DD are ignored, and a non-canonical today yields zero.
func Compute(sessionDates map[Date]struct{}, pauses []PausePeriod, today Date) Result {
	if len(sessionDates) == 0 || !today.Valid() {
		return Result{}
	}

	earliest := today
	for d := range sessionDates {
		if d < earliest && d.Valid() {
			earliest = d
		}
	}

	_, todayCounted := sessionDates[today]
	count := 0
	if todayCounted {
		count = 1
	}

	day := today.AddDays(-1)

	bridged := 0
	for day >= earliest {
		if _, ok := sessionDates[day]; ok {
			count += bridged + 1
			bridged = 0
		} else if paused(day, pauses) {
			bridged++
		} else {
			break
		}
		day = day.AddDays(-1)
	}

	return Result{CurrentStreak: count, TodayCounted: todayCounted}
}

func paused(d Date, pauses []PausePeriod) bool {
	for _, p := range pauses {
		if p.Contains(d) {
			return true
		}
	}
	return false
}
