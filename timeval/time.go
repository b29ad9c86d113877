// Package timeval implements the engine's fixed-point epoch clock: a
// timestamp composed of years-since-1970, day-of-year, hour, minute, second
// and a sub-second fraction, with O(1) conversion to micro/nanoseconds since
// epoch via the closed-form leap-day count.
package timeval

import "fmt"

// SubsecondFraction is the static denominator of the sub-second field, in
// nanoseconds. A Time's SubSecond is always in [0, SubsecondFraction).
const SubsecondFraction uint32 = 1_000_000_000

var daysInMonth = [12]uint16{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// Time is a monotonic composition of (year, day-of-year, hour, minute,
// second, sub-second). All fields are normalized after New or Update.
type Time struct {
	Year      uint16 // years since 1970
	Day       uint16 // day of year, 0-based
	Hour      uint8
	Minute    uint8
	Second    uint8
	SubSecond uint32 // numerator over SubsecondFraction
}

// IsLeap reports whether the given full calendar year is a leap year.
func IsLeap(year uint32) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// DaysInYear returns 365 or 366 for the given full calendar year.
func DaysInYear(year uint32) uint16 {
	if IsLeap(year) {
		return 366
	}
	return 365
}

func daysInMonthOf(year uint32, month uint8) uint16 {
	if month == 1 && IsLeap(year) {
		return 29
	}
	return daysInMonth[month]
}

// New constructs a normalized Time from its raw components.
func New(year, day uint16, hour, minute, second uint8, subSecond uint32) Time {
	t := Time{Year: year, Day: day, Hour: hour, Minute: minute, Second: second}
	t.Update(subSecond)
	return t
}

// Now returns the current wall-clock time as a Time.
func Now() Time {
	return FromNanosEpoch(uint64(nowFunc().UnixNano()))
}

// Update advances t by subSeconds (a delta expressed as a numerator over
// SubsecondFraction) and normalizes every higher field in turn.
func (t *Time) Update(subSeconds uint32) {
	sub := uint64(t.SubSecond) + uint64(subSeconds)
	second := uint64(t.Second)
	minute := uint64(t.Minute)
	hour := uint64(t.Hour)
	day := uint64(t.Day)
	year := uint64(t.Year)

	if sub >= uint64(SubsecondFraction) {
		second += sub / uint64(SubsecondFraction)
		sub %= uint64(SubsecondFraction)
	}
	if second >= 60 {
		minute += second / 60
		second %= 60
	}
	if minute >= 60 {
		hour += minute / 60
		minute %= 60
	}
	if hour >= 24 {
		day += hour / 24
		hour %= 24
	}

	daysInYear := uint64(DaysInYear(uint32(year) + 1970))
	for day >= daysInYear {
		year++
		day -= daysInYear
		daysInYear = uint64(DaysInYear(uint32(year) + 1970))
	}

	t.Year = uint16(year)
	t.Day = uint16(day)
	t.Hour = uint8(hour)
	t.Minute = uint8(minute)
	t.Second = uint8(second)
	t.SubSecond = uint32(sub)
}

// Add returns t+d as a new Time. Carries are applied field by field, low to
// high (sub-second up through day and year), mirroring Update's
// normalization.
func (t Time) Add(d Time) Time {
	r := t

	sub := uint64(r.SubSecond) + uint64(d.SubSecond)
	carrySec := sub / uint64(SubsecondFraction)
	r.SubSecond = uint32(sub % uint64(SubsecondFraction))

	sec := uint64(r.Second) + uint64(d.Second) + carrySec
	carryMin := sec / 60
	r.Second = uint8(sec % 60)

	minute := uint64(r.Minute) + uint64(d.Minute) + carryMin
	carryHour := minute / 60
	r.Minute = uint8(minute % 60)

	hour := uint64(r.Hour) + uint64(d.Hour) + carryHour
	carryDay := hour / 24
	r.Hour = uint8(hour % 24)

	day := uint64(r.Day) + uint64(d.Day) + carryDay
	year := uint64(r.Year)
	daysInYear := uint64(DaysInYear(uint32(year) + 1970))
	for day >= daysInYear {
		year++
		day -= daysInYear
		daysInYear = uint64(DaysInYear(uint32(year) + 1970))
	}
	r.Day = uint16(day)
	r.Year = uint16(year) + uint16(d.Year)

	return r
}

// Future returns t advanced by the given number of seconds.
func (t Time) Future(seconds float64) Time {
	return FromNanosEpoch(t.ToNanosEpoch() + uint64(seconds*float64(SubsecondFraction)))
}

// Subtract returns (a - b) in signed microseconds.
func Subtract(a, b Time) int64 {
	return int64(a.ToMicrosEpoch()) - int64(b.ToMicrosEpoch())
}

// HasElapsed reports whether t is at or after other.
func (t Time) HasElapsed(other Time) bool {
	return Subtract(t, other) >= 0
}

// Align sets t's components to the given values and returns the signed
// drift (new − old) in microseconds.
func (t *Time) Align(subSecond uint32, second, minute, hour uint8, day, year uint16) int64 {
	aligned := Time{Year: year, Day: day, Hour: hour, Minute: minute, Second: second, SubSecond: subSecond}
	drift := Subtract(aligned, *t)
	*t = aligned
	return drift
}

func countLeaps(year uint32) uint32 {
	return year/4 - year/100 + year/400
}

// ToMicrosEpoch converts t to microseconds since 1970-01-01T00:00:00 in O(1)
// using the closed-form leap-day count.
func (t Time) ToMicrosEpoch() uint64 {
	return t.toEpoch(1_000_000) + uint64(t.SubSecond)/(uint64(SubsecondFraction)/1_000_000)
}

// ToNanosEpoch converts t to nanoseconds since epoch in O(1).
func (t Time) ToNanosEpoch() uint64 {
	return t.toEpoch(1_000_000_000) + uint64(t.SubSecond)
}

func (t Time) toEpoch(unitsPerSecond uint64) uint64 {
	fullYear := uint32(1970) + uint32(t.Year)
	var leapYears uint32
	if t.Year > 0 {
		leapYears = countLeaps(fullYear-1) - countLeaps(1969)
	}
	totalDays := uint64(t.Year)*365 + uint64(leapYears) + uint64(t.Day)

	total := totalDays * 86400 * unitsPerSecond
	total += uint64(t.Hour) * 3600 * unitsPerSecond
	total += uint64(t.Minute) * 60 * unitsPerSecond
	total += uint64(t.Second) * unitsPerSecond
	return total
}

// FromNanosEpoch constructs a Time from nanoseconds since 1970-01-01.
func FromNanosEpoch(nanos uint64) Time {
	subSecond := uint32(nanos % uint64(SubsecondFraction))
	totalSeconds := nanos / uint64(SubsecondFraction)

	second := uint8(totalSeconds % 60)
	totalMinutes := totalSeconds / 60
	minute := uint8(totalMinutes % 60)
	totalHours := totalMinutes / 60
	hour := uint8(totalHours % 24)
	totalDays := totalHours / 24

	year := uint32(1970)
	for totalDays >= uint64(DaysInYear(year)) {
		totalDays -= uint64(DaysInYear(year))
		year++
	}

	return Time{
		Year:      uint16(year - 1970),
		Day:       uint16(totalDays),
		Hour:      hour,
		Minute:    minute,
		Second:    second,
		SubSecond: subSecond,
	}
}

// ConvertDayOfYearToMonthDay resolves a 0-based day-of-year into a 0-based
// month and day-of-month for the given full calendar year. An out-of-range
// dayOfYear yields (0, 0); there is no error return here.
func ConvertDayOfYearToMonthDay(year uint32, dayOfYear uint16) (month, day uint8) {
	if dayOfYear >= DaysInYear(year) {
		return 0, 0
	}
	remaining := dayOfYear
	for remaining >= daysInMonthOf(year, month) {
		remaining -= daysInMonthOf(year, month)
		month++
	}
	return month, uint8(remaining)
}

// PrintShortTime renders t as "YYYY-MM-DD HH:MM:SS".
func (t Time) PrintShortTime() string {
	month, day := ConvertDayOfYearToMonthDay(uint32(t.Year)+1970, t.Day)
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d",
		int(t.Year)+1970, month+1, day+1, t.Hour, t.Minute, t.Second)
}
