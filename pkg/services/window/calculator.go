package window

import (
	"fmt"
	"time"

	"github.com/de-tools/reportbot/pkg/models/domain"
)

const daysPerWeek = 7

// Compute returns the reporting window weeksBack periods before now.
//
// weeksBack == 0 spans the last breakpoint up to now. Any other value spans the
// weeksBack-th full week before the last breakpoint, bounded by breakpoints on
// both ends.
func Compute(schedule domain.ReportingSchedule, weeksBack int, now time.Time) (domain.TimeWindow, error) {
	loc, err := schedule.Location()
	if err != nil {
		return domain.TimeWindow{}, err
	}
	return compute(schedule, loc, weeksBack, now)
}

// LastBreakpoint returns the most recent breakpoint at or before now.
func LastBreakpoint(schedule domain.ReportingSchedule, now time.Time) (time.Time, error) {
	loc, err := schedule.Location()
	if err != nil {
		return time.Time{}, err
	}
	return lastBreakpoint(schedule, loc, now), nil
}

func compute(
	schedule domain.ReportingSchedule,
	loc *time.Location,
	weeksBack int,
	now time.Time,
) (domain.TimeWindow, error) {
	if weeksBack < 0 {
		return domain.TimeWindow{}, fmt.Errorf("%w: %d", domain.ErrInvalidWeeksBack, weeksBack)
	}

	now = now.In(loc)
	last := lastBreakpoint(schedule, loc, now)

	if weeksBack == 0 {
		return domain.TimeWindow{Start: last, End: now}, nil
	}

	return domain.TimeWindow{
		Start: last.AddDate(0, 0, -daysPerWeek*weeksBack),
		End:   last.AddDate(0, 0, -daysPerWeek*(weeksBack-1)),
	}, nil
}

func lastBreakpoint(schedule domain.ReportingSchedule, loc *time.Location, now time.Time) time.Time {
	now = now.In(loc)

	// ISO week: Monday=1 .. Sunday=7
	weekday := int(now.Weekday())
	if weekday == 0 {
		weekday = 7
	}

	year, month, day := now.Date()
	bp := time.Date(
		year, month, day+schedule.ISOWeekday()-weekday,
		schedule.Hour, schedule.Minute, 0, 0,
		loc,
	)

	if bp.After(now) {
		bp = bp.AddDate(0, 0, -daysPerWeek)
	}
	return bp
}

// Calculator binds a schedule to a clock.
type Calculator struct {
	schedule domain.ReportingSchedule
	loc      *time.Location
	now      func() time.Time
}

type Option func(*Calculator)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Calculator) {
		c.now = now
	}
}

func NewCalculator(schedule domain.ReportingSchedule, opts ...Option) (*Calculator, error) {
	loc, err := schedule.Location()
	if err != nil {
		return nil, err
	}

	c := &Calculator{
		schedule: schedule,
		loc:      loc,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Calculator) Schedule() domain.ReportingSchedule {
	return c.schedule
}

func (c *Calculator) Location() *time.Location {
	return c.loc
}

// Now returns the calculator's clock reading in the schedule's zone.
func (c *Calculator) Now() time.Time {
	return c.now().In(c.loc)
}

// Window computes the window for weeksBack relative to the calculator's clock.
func (c *Calculator) Window(weeksBack int) (domain.TimeWindow, error) {
	return compute(c.schedule, c.loc, weeksBack, c.now())
}

func (c *Calculator) LastBreakpoint() time.Time {
	return lastBreakpoint(c.schedule, c.loc, c.now())
}
