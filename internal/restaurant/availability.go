package restaurant

import "time"

// ISOWeekday maps t's weekday to 1=Monday .. 7=Sunday.
func ISOWeekday(t time.Time) int {
	if t.Weekday() == time.Sunday {
		return 7
	}
	return int(t.Weekday())
}

// ClockString formats t as zero-padded "HH:MM", the form used by
// WorkingHour and MenuPlan bounds.
func ClockString(t time.Time) string {
	return t.Format("15:04")
}

// CurrentWorkingHour returns the entry for now's ISO weekday, or nil.
func CurrentWorkingHour(now time.Time, hours []WorkingHour) *WorkingHour {
	day := ISOWeekday(now)
	for i := range hours {
		if hours[i].Day == day {
			wh := hours[i]
			return &wh
		}
	}
	return nil
}

// IsCurrentlyOpen compares now against today's window with inclusive
// lexicographic "HH:MM" bounds. Windows crossing midnight (Open > Close)
// never match; this is a known limitation.
func IsCurrentlyOpen(now time.Time, hours []WorkingHour) bool {
	wh := CurrentWorkingHour(now, hours)
	if wh == nil || wh.IsClosed {
		return false
	}
	clock := ClockString(now)
	return wh.Open <= clock && clock <= wh.Close
}

func IsActive(s State) bool {
	return s.IsActive && s.LicenseIsActive && !s.Hide
}

func CanOrderOnline(s State, now time.Time) bool {
	return s.OnlineOrder && IsActive(s) && IsCurrentlyOpen(now, s.WorkingHours)
}

func CanOrderInPerson(s State, now time.Time) bool {
	return s.InPersonOrder && IsActive(s) && IsCurrentlyOpen(now, s.WorkingHours)
}

// Availability is a point-in-time snapshot of the ordering gates.
type Availability struct {
	IsActive           bool         `json:"isActive"`
	IsCurrentlyOpen    bool         `json:"isCurrentlyOpen"`
	CanOrderOnline     bool         `json:"canOrderOnline"`
	CanOrderInPerson   bool         `json:"canOrderInPerson"`
	CurrentWorkingHour *WorkingHour `json:"currentWorkingHour"`
	EvaluatedAt        time.Time    `json:"evaluatedAt"`
}

func Evaluate(s State, now time.Time) Availability {
	return Availability{
		IsActive:           IsActive(s),
		IsCurrentlyOpen:    IsCurrentlyOpen(now, s.WorkingHours),
		CanOrderOnline:     CanOrderOnline(s, now),
		CanOrderInPerson:   CanOrderInPerson(s, now),
		CurrentWorkingHour: CurrentWorkingHour(now, s.WorkingHours),
		EvaluatedAt:        now,
	}
}
