package domain

import "time"

// TimeWindow is one reporting period. Start never exceeds End.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

func (w TimeWindow) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// IsEmpty reports a zero-width window, e.g. "now" sitting exactly on the breakpoint.
func (w TimeWindow) IsEmpty() bool {
	return !w.Start.Before(w.End)
}

// ContainsHalfOpen tests start <= t < end at millisecond resolution.
func (w TimeWindow) ContainsHalfOpen(t time.Time) bool {
	ms := t.UnixMilli()
	return ms >= w.Start.UnixMilli() && ms < w.End.UnixMilli()
}

// ContainsClosed tests start <= t <= end at millisecond resolution.
func (w TimeWindow) ContainsClosed(t time.Time) bool {
	ms := t.UnixMilli()
	return ms >= w.Start.UnixMilli() && ms <= w.End.UnixMilli()
}

// In returns the window with both bounds expressed in loc.
func (w TimeWindow) In(loc *time.Location) TimeWindow {
	return TimeWindow{Start: w.Start.In(loc), End: w.End.In(loc)}
}
