package attendance

import "time"

// StandardWorkDayHours is the length of a regular working day. Hours beyond it
// count as overtime.
const StandardWorkDayHours = 8.0

func (a Attendance) HasCheckedIn() bool {
	return a.CheckIn.Time != nil
}

func (a Attendance) HasCheckedOut() bool {
	return a.CheckOut.Time != nil
}

// RecomputeHours derives WorkingHours and OvertimeHours from the check-in and
// check-out times minus every completed break. Both are zero while either leg
// is missing.
func (a *Attendance) RecomputeHours() {
	if !a.HasCheckedIn() || !a.HasCheckedOut() {
		a.WorkingHours = 0
		a.OvertimeHours = 0
		return
	}

	worked := a.CheckOut.Time.Sub(*a.CheckIn.Time)
	for _, b := range a.Breaks {
		if b.Start != nil && b.End != nil {
			worked -= b.End.Sub(*b.Start)
		}
	}

	a.WorkingHours = max(0, worked.Hours())
	a.OvertimeHours = max(0, a.WorkingHours-StandardWorkDayHours)
}

// OpenBreak returns the index of the break that has started but not ended, or -1.
func (a Attendance) OpenBreak() int {
	for i, b := range a.Breaks {
		if b.Start != nil && b.End == nil {
			return i
		}
	}
	return -1
}

// Day returns the calendar date of t in loc, as midnight UTC.
func Day(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CountsAsPresent reports whether s is paid as a present day.
func (s Status) CountsAsPresent() bool {
	return s == StatusPresent || s == StatusLate
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusHalfDay, StatusOnLeave:
		return true
	}
	return false
}

func (l Location) IsValid() bool {
	switch l {
	case LocationOffice, LocationRemote, LocationField:
		return true
	}
	return false
}
