package agent

import "time"

// SlotPolicy describes the default meeting slot used when a plan gives no time window.
type SlotPolicy struct {
	Location *time.Location
	Weekday  time.Weekday
	Hour     int
	Minute   int
	Duration time.Duration
}

// DefaultSlotPolicy is Tuesday 14:00 for 30 minutes in loc (UTC when nil).
func DefaultSlotPolicy(loc *time.Location) SlotPolicy {
	if loc == nil {
		loc = time.UTC
	}
	return SlotPolicy{
		Location: loc,
		Weekday:  time.Tuesday,
		Hour:     14,
		Minute:   0,
		Duration: 30 * time.Minute,
	}
}

// LoadSlotPolicy resolves the zone name, falling back to UTC when it is unknown.
func LoadSlotPolicy(zone string) (SlotPolicy, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return DefaultSlotPolicy(time.UTC), err
	}
	return DefaultSlotPolicy(loc), nil
}

// Next returns the first slot on the policy weekday strictly after the current
// day in the policy zone. On the target weekday itself it jumps a full week.
func (p SlotPolicy) Next(now time.Time) (start, end time.Time) {
	loc := p.Location
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)

	daysAhead := (int(p.Weekday) - int(local.Weekday()) + 7) % 7
	if daysAhead == 0 {
		daysAhead = 7
	}
	start = time.Date(local.Year(), local.Month(), local.Day()+daysAhead, p.Hour, p.Minute, 0, 0, loc)
	return start, start.Add(p.Duration)
}

// NextISO formats Next as RFC 3339 strings.
func (p SlotPolicy) NextISO(now time.Time) (startISO, endISO string) {
	start, end := p.Next(now)
	return start.Format(time.RFC3339), end.Format(time.RFC3339)
}
