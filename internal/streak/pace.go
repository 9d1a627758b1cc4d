package streak

import (
	"math"
	"time"
)

// Record is the slice of a logged session the calculators need.
type Record struct {
	StartTime       time.Time
	DurationSeconds int
}

// Dates collects the calendar days on which sessions started.
func Dates(records []Record, loc *time.Location) map[Date]struct{} {
	dates := make(map[Date]struct{}, len(records))
	for _, r := range records {
		dates[DateOf(r.StartTime, loc)] = struct{}{}
	}
	return dates
}

// TodayFocusSeconds sums the sessions that started on day. Sessions that
// cross midnight are attributed to the day they started.
func TodayFocusSeconds(records []Record, day Date, loc *time.Location) int {
	total := 0
	for _, r := range records {
		if DateOf(r.StartTime, loc) == day && r.DurationSeconds > 0 {
			total += r.DurationSeconds
		}
	}
	return total
}

// Pace compares logged effort on a goal against an even spread of its
// target between start and deadline.
type Pace struct {
	TargetSeconds        int  `json:"targetSeconds"`
	LoggedSeconds        int  `json:"loggedSeconds"`
	ExpectedSeconds      int  `json:"expectedSeconds"`
	VarianceSeconds      int  `json:"varianceSeconds"`
	RemainingSeconds     int  `json:"remainingSeconds"`
	DaysRemaining        int  `json:"daysRemaining"`
	RequiredDailySeconds int  `json:"requiredDailySeconds"`
	OnTrack              bool `json:"onTrack"`
}

// GoalPace computes pace for a goal running from start to deadline, both
// inclusive, as seen on today.
func GoalPace(targetSeconds, loggedSeconds int, start, deadline, today Date) Pace {
	if targetSeconds < 0 {
		targetSeconds = 0
	}
	if loggedSeconds < 0 {
		loggedSeconds = 0
	}

	totalDays := start.DaysUntil(deadline) + 1
	elapsedDays := start.DaysUntil(today) + 1
	if elapsedDays < 0 {
		elapsedDays = 0
	}

	expected := targetSeconds
	if totalDays > 0 && elapsedDays < totalDays {
		expected = int(math.Round(float64(targetSeconds) * float64(elapsedDays) / float64(totalDays)))
	}

	remaining := targetSeconds - loggedSeconds
	if remaining < 0 {
		remaining = 0
	}

	daysRemaining := today.DaysUntil(deadline) + 1
	if daysRemaining < 0 {
		daysRemaining = 0
	}

	required := remaining
	if daysRemaining > 0 {
		required = int(math.Ceil(float64(remaining) / float64(daysRemaining)))
	}

	return Pace{
		TargetSeconds:        targetSeconds,
		LoggedSeconds:        loggedSeconds,
		ExpectedSeconds:      expected,
		VarianceSeconds:      loggedSeconds - expected,
		RemainingSeconds:     remaining,
		DaysRemaining:        daysRemaining,
		RequiredDailySeconds: required,
		OnTrack:              loggedSeconds >= expected,
	}
}
