package overtime

import (
	"sort"
	"time"

	"github.com/username/git-overtime-tracker/internal/schedule"
	"github.com/username/git-overtime-tracker/pkg/dateutil"
)

// DayOvertime is the overtime breakdown of one calendar date, in minutes per
// category. Days where every category is zero are never emitted.
type DayOvertime struct {
	Date            string
	BeforeMorning   int
	AfterMorning    int
	BeforeAfternoon int
	Afterwork       int
	Night           int
	Saturday        int
	Sunday          int
	Total           int
}

// dayTracker collects the interesting boundary times of one date. Times are
// "HH:MM" strings with "" meaning unset. The weekend and night categories
// track a min/max pair; a lone event leaves the max unset and the category
// contributes nothing. The four shift-boundary categories track a single
// bound: the earliest arrival before morning, the latest lingering time
// after morning end, the earliest return before afternoon start, and the
// latest departure after work.
type dayTracker struct {
	date time.Time

	firstBeforeMorning   string
	lastAfterMorning     string
	firstBeforeAfternoon string
	lastAfterwork        string

	nightMin, nightMax string
	satMin, satMax     string
	sunMin, sunMax     string
}

// Aggregator folds a stream of classified events into per-day overtime
// spans. It measures the span of off-hours activity (first arrival to shift
// start, shift end to last departure) rather than summing per-event minutes,
// so a burst of commits is not counted as a multiple of the real extra time.
//
// One Aggregator serves one pass; it is not safe for concurrent use. Input
// order is irrelevant because only running bounds are kept.
type Aggregator struct {
	sched *schedule.Schedule
	days  map[string]*dayTracker
}

// NewAggregator creates an aggregator bound to a working-hours schedule.
func NewAggregator(s *schedule.Schedule) *Aggregator {
	return &Aggregator{
		sched: s,
		days:  make(map[string]*dayTracker),
	}
}

// Add routes one event into its date's tracker. Weekend events only need the
// flags the classifier produced; everything else is re-resolved against the
// schedule. Events on weekdays with no assigned window are dropped: they
// carry no measurable duration.
func (a *Aggregator) Add(ev Event, isSaturday, isSunday bool) {
	key := dateutil.FormatDate(ev.Date)
	tr, ok := a.days[key]
	if !ok {
		tr = &dayTracker{date: ev.Date}
		a.days[key] = tr
	}

	if isSaturday {
		spanUpdate(&tr.satMin, &tr.satMax, ev.Time)
		return
	}
	if isSunday {
		spanUpdate(&tr.sunMin, &tr.sunMax, ev.Time)
		return
	}

	window, ok := a.sched.WindowFor(ev.Date)
	if !ok {
		return
	}

	t := ev.Time

	switch {
	case inNightWindow(t, a.sched.NightStart, a.sched.NightEnd):
		spanUpdate(&tr.nightMin, &tr.nightMax, t)

	case t < window.MorningStart:
		if tr.firstBeforeMorning == "" || t < tr.firstBeforeMorning {
			tr.firstBeforeMorning = t
		}

	case t > window.MorningEnd && t < window.AfternoonStart:
		sinceMorning := dateutil.MinutesBetween(window.MorningEnd, t)
		untilAfternoon := dateutil.MinutesBetween(t, window.AfternoonStart)
		if sinceMorning < untilAfternoon {
			if tr.lastAfterMorning == "" || t > tr.lastAfterMorning {
				tr.lastAfterMorning = t
			}
		} else {
			if tr.firstBeforeAfternoon == "" || t < tr.firstBeforeAfternoon {
				tr.firstBeforeAfternoon = t
			}
		}

	case t > window.AfternoonEnd:
		if tr.lastAfterwork == "" || t > tr.lastAfterwork {
			tr.lastAfterwork = t
		}
	}
}

// spanUpdate maintains an earliest/latest pair. The max stays unset until a
// second distinct bound is seen, so single-event days contribute a zero span.
func spanUpdate(min, max *string, t string) {
	if *min == "" {
		*min = t
		return
	}
	if t < *min {
		if *max == "" {
			*max = *min
		}
		*min = t
		return
	}
	if *max == "" || t > *max {
		*max = t
	}
}

// Finalize converts every tracked bound into minutes, emits the days with a
// non-zero total sorted ascending by date, and discards the trackers.
func (a *Aggregator) Finalize() []DayOvertime {
	result := make([]DayOvertime, 0, len(a.days))

	for key, tr := range a.days {
		day := DayOvertime{Date: key}

		if window, ok := a.sched.WindowFor(tr.date); ok {
			if tr.firstBeforeMorning != "" {
				day.BeforeMorning = dateutil.MinutesBetween(tr.firstBeforeMorning, window.MorningStart)
			}
			if tr.lastAfterMorning != "" {
				day.AfterMorning = dateutil.MinutesBetween(window.MorningEnd, tr.lastAfterMorning)
			}
			if tr.firstBeforeAfternoon != "" {
				day.BeforeAfternoon = dateutil.MinutesBetween(tr.firstBeforeAfternoon, window.AfternoonStart)
			}
			if tr.lastAfterwork != "" {
				day.Afterwork = dateutil.MinutesBetween(window.AfternoonEnd, tr.lastAfterwork)
			}
		}

		day.Night = spanMinutes(tr.nightMin, tr.nightMax)
		day.Saturday = spanMinutes(tr.satMin, tr.satMax)
		day.Sunday = spanMinutes(tr.sunMin, tr.sunMax)

		day.Total = day.BeforeMorning + day.AfterMorning + day.BeforeAfternoon +
			day.Afterwork + day.Night + day.Saturday + day.Sunday

		if day.Total > 0 {
			result = append(result, day)
		}
	}

	a.days = make(map[string]*dayTracker)

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date < result[j].Date
	})

	return result
}

func spanMinutes(min, max string) int {
	if min == "" || max == "" {
		return 0
	}
	return dateutil.MinutesBetween(min, max)
}
