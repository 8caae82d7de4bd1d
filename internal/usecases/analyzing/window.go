package analyzing

import (
	"errors"
	"fmt"
	"time"
)

// Period is a symbolic look-back token selected on the dashboard.
type Period string

const (
	PeriodWeek     Period = "1w"
	PeriodMonth    Period = "1m"
	PeriodHalfYear Period = "6m"
	PeriodYear     Period = "1y"
)

// Look-back day counts per token. Pure day subtraction, no calendar-aware
// month arithmetic: the dashboard compares "N days ago", not "last month".
var periodDays = map[Period]int{
	PeriodWeek:     7,
	PeriodMonth:    30,
	PeriodHalfYear: 180,
	PeriodYear:     365,
}

var (
	ErrInvalidPeriod = errors.New("analyzing: invalid period token")
	ErrInvalidWindow = errors.New("analyzing: window start is after its end")
)

// Periods lists the supported tokens in widening order.
func Periods() []Period {
	return []Period{PeriodWeek, PeriodMonth, PeriodHalfYear, PeriodYear}
}

// Window is a resolved look-back interval anchored at "now".
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ResolveWindow maps a period token to a concrete window ending at now.
func ResolveWindow(period Period, now time.Time) (Window, error) {
	days, ok := periodDays[period]
	if !ok {
		return Window{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
	}

	return Window{
		Start: now.AddDate(0, 0, -days),
		End:   now,
	}, nil
}

// Validate guards against externally supplied windows. ResolveWindow can not
// produce an inverted window, but ComputeDelta accepts any Window value.
func (w Window) Validate() error {
	if w.Start.After(w.End) {
		return fmt.Errorf("%w: start=%s end=%s",
			ErrInvalidWindow,
			w.Start.Format(time.DateOnly),
			w.End.Format(time.DateOnly),
		)
	}
	return nil
}
