package schedule

import "time"

// Calendar answers which concrete dates a weekly schedule makes bookable.
// It is pure and safe for concurrent use.
type Calendar struct {
	horizonDays int
	now         func() time.Time
}

func NewCalendar(horizonDays int) *Calendar {
	return &Calendar{
		horizonDays: horizonDays,
		now:         time.Now,
	}
}

// today returns the current civil date at midnight UTC.
func (c *Calendar) today() time.Time {
	y, m, d := c.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// checkHorizon rejects dates past the configured horizon. Past dates are not
// an error here: they make a date unbookable, they are not a caller bug.
func (c *Calendar) checkHorizon(date time.Time) error {
	if date.After(c.today().AddDate(0, 0, c.horizonDays)) {
		return ErrOutOfRange
	}
	return nil
}

// IsBookable reports whether the date is offered at all. It fails closed:
// past dates and weekdays with no declared window are both false.
func (c *Calendar) IsBookable(date string, weekly WeeklySchedule) (bool, error) {
	d, err := parseDate(date)
	if err != nil {
		return false, err
	}
	if err := c.checkHorizon(d); err != nil {
		return false, err
	}
	if d.Before(c.today()) {
		return false, nil
	}
	for _, w := range weekly {
		if w.Weekday == d.Weekday() {
			return true, nil
		}
	}
	return false, nil
}

// WindowsFor returns the windows whose weekday matches the date, in the order
// they were declared in the provider's schedule.
func (c *Calendar) WindowsFor(date string, weekly WeeklySchedule) ([]Window, error) {
	d, err := parseDate(date)
	if err != nil {
		return nil, err
	}
	if err := c.checkHorizon(d); err != nil {
		return nil, err
	}

	var windows []Window
	for _, w := range weekly {
		if w.Weekday == d.Weekday() {
			windows = append(windows, w)
		}
	}
	return windows, nil
}
