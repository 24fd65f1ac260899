package analytics

import (
	"errors"
	"fmt"
	"time"
)

const (
	MaxWindowDays = 366

	// MonthsInSeries is how many calendar months the monthly revenue
	// series covers, ending in the window's last month.
	MonthsInSeries   = 12
	MonthLabelLayout = "Jan 2006"
)

var (
	ErrInvalidWindow  = errors.New("invalid window")
	ErrInvalidRequest = errors.New("invalid request")
)

// Window is an inclusive range of whole UTC calendar days.
type Window struct {
	Start time.Time
	End   time.Time
	Days  int
}

func day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func isDay(t time.Time) bool {
	return t.Location() == time.UTC && t.Equal(day(t))
}

// NewWindow returns the window of the given number of days ending on the
// day of now.
func NewWindow(days int, now time.Time) (Window, error) {
	if days < 1 || days > MaxWindowDays {
		return Window{}, fmt.Errorf("%w: days must be between 1 and %d, got %d", ErrInvalidWindow, MaxWindowDays, days)
	}
	end := day(now)
	return Window{Start: end.AddDate(0, 0, -(days - 1)), End: end, Days: days}, nil
}

// NewWindowBetween returns the window covering start through end, both
// included.
func NewWindowBetween(start, end time.Time) (Window, error) {
	s, e := day(start), day(end)
	if e.Before(s) {
		return Window{}, fmt.Errorf("%w: start %s is after end %s", ErrInvalidWindow, s.Format(time.DateOnly), e.Format(time.DateOnly))
	}
	days := int(e.Sub(s).Hours()/24) + 1
	if days > MaxWindowDays {
		return Window{}, fmt.Errorf("%w: window spans %d days, max is %d", ErrInvalidWindow, days, MaxWindowDays)
	}
	return Window{Start: s, End: e, Days: days}, nil
}

// Validate requires Start and End to be UTC midnights exactly Days-1 days
// apart. Windows from NewWindow and NewWindowBetween always are.
func (w Window) Validate() error {
	if !isDay(w.Start) || !isDay(w.End) {
		return fmt.Errorf("%w: start and end must be UTC midnights, got %s and %s", ErrInvalidWindow, w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339))
	}
	if w.Days < 1 || w.Days > MaxWindowDays {
		return fmt.Errorf("%w: days must be between 1 and %d, got %d", ErrInvalidWindow, MaxWindowDays, w.Days)
	}
	if !w.Start.AddDate(0, 0, w.Days-1).Equal(w.End) {
		return fmt.Errorf("%w: %s..%s does not span %d days", ErrInvalidWindow, w.Start.Format(time.DateOnly), w.End.Format(time.DateOnly), w.Days)
	}
	return nil
}

// Dates lists every day of the window, oldest first.
func (w Window) Dates() []time.Time {
	dates := make([]time.Time, w.Days)
	for i := range dates {
		dates[i] = w.Start.AddDate(0, 0, i)
	}
	return dates
}

func (w Window) Contains(t time.Time) bool {
	d := day(t)
	return !d.Before(w.Start) && !d.After(w.End)
}

// MonthStart is the first day of the monthly series.
func (w Window) MonthStart() time.Time {
	return time.Date(w.End.Year(), w.End.Month()-MonthsInSeries+1, 1, 0, 0, 0, 0, time.UTC)
}

// MonthLabels returns labels such as "Jan 2026" for the calendar months
// of the monthly series, in calendar order.
func (w Window) MonthLabels() []string {
	first := w.MonthStart()
	labels := make([]string, MonthsInSeries)
	for i := range labels {
		labels[i] = first.AddDate(0, i, 0).Format(MonthLabelLayout)
	}
	return labels
}
