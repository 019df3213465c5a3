package session

import (
	"fmt"
	"time"
)

const (
	// shiftSecs moves every wall-clock value forward by 4 hours so that a
	// night leg opening at 21:00 sorts before the next morning's legs.
	// In shifted space 20:00 wall-clock is second 0 and the trading day is
	// one contiguous span; comparisons are plain integer ordering.
	shiftSecs  = 4 * 60 * 60
	secsPerDay = 24 * 60 * 60

	// nightOpenShifted is 21:00 wall-clock in shifted seconds. Every night
	// leg on the Chinese futures exchanges opens exactly at 21:00.
	nightOpenShifted = (21*3600 + shiftSecs) % secsPerDay

	// Morning legs open between 06:00 and 11:00 wall-clock (09:00/09:15/
	// 09:30 in practice; the window is widened for manually added warm-up
	// slices).
	morningLoShifted = (6*3600 + shiftSecs) % secsPerDay
	morningHiShifted = (11*3600 + shiftSecs) % secsPerDay
)

// ShiftedTime is a time of day in shifted seconds: wall-clock seconds
// since midnight plus shiftSecs, modulo one day. All marker arithmetic
// happens in this space.
type ShiftedTime uint32

// FromClock builds a ShiftedTime from wall-clock hour/minute/second.
// Values outside the usual clock ranges are reduced modulo one day.
func FromClock(hour, minute, sec int) ShiftedTime {
	raw := hour*3600 + minute*60 + sec
	return ShiftedTime(((raw % secsPerDay) + secsPerDay + shiftSecs) % secsPerDay)
}

// FromTime normalizes the clock reading of t. A nonzero sub-second part
// rounds up to the next whole second: bar intervals are right-closed, so
// 15:00:00.000 belongs to the closing bar while 15:00:00.500 starts the
// next one.
func FromTime(t time.Time) ShiftedTime {
	sec := t.Hour()*3600 + t.Minute()*60 + t.Second()
	if t.Nanosecond() > 0 {
		sec++
	}
	return ShiftedTime((sec + shiftSecs) % secsPerDay)
}

// FromShifted wraps an already-shifted second count.
func FromShifted(sec uint32) ShiftedTime {
	return ShiftedTime(sec % secsPerDay)
}

// Seconds returns the shifted second count.
func (s ShiftedTime) Seconds() uint32 { return uint32(s) }

// Nominal returns the wall-clock value as a duration since midnight.
func (s ShiftedTime) Nominal() time.Duration {
	return time.Duration((uint32(s)+secsPerDay-shiftSecs)%secsPerDay) * time.Second
}

// Clock returns the wall-clock hour, minute and second.
func (s ShiftedTime) Clock() (hour, minute, sec int) {
	n := (uint32(s) + secsPerDay - shiftSecs) % secsPerDay
	return int(n / 3600), int(n % 3600 / 60), int(n % 60)
}

func (s ShiftedTime) String() string {
	h, m, sec := s.Clock()
	if sec == 0 {
		return fmt.Sprintf("%02d:%02d", h, m)
	}
	return fmt.Sprintf("%02d:%02d:%02d", h, m, sec)
}
