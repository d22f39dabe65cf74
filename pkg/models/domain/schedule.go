package domain

import (
	"fmt"
	"time"
)

// ReportingSchedule describes the weekly breakpoint every reporting window is anchored to.
type ReportingSchedule struct {
	Timezone string `mapstructure:"timezone" json:"timezone" validate:"required,timezone"`
	Weekday  int    `mapstructure:"reminderDay" json:"reminderDay" validate:"min=0,max=7"` // ISO, 0 is read as Sunday
	Hour     int    `mapstructure:"reminderHour" json:"reminderHour" validate:"min=0,max=23"`
	Minute   int    `mapstructure:"reminderMinute" json:"reminderMinute" validate:"min=0,max=59"`
}

// ISOWeekday returns the breakpoint weekday as Monday=1..Sunday=7.
func (s ReportingSchedule) ISOWeekday() int {
	if s.Weekday == 0 {
		return 7
	}
	return s.Weekday
}

func (s ReportingSchedule) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", s.Timezone, err)
	}
	return loc, nil
}

func (s ReportingSchedule) String() string {
	return fmt.Sprintf("%s %02d:%02d (%s)", time.Weekday(s.ISOWeekday()%7), s.Hour, s.Minute, s.Timezone)
}
