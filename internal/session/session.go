package session

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrInvalidSlice reports a slice whose normalized end does not exceed
// its start, or hour/minute fields outside their valid ranges.
var ErrInvalidSlice = errors.New("invalid session slice")

// Session is one instrument's set of daily trading windows. It starts
// open: AddSlice accumulates raw windows in any order. Seal sorts and
// merges them into the canonical marker sequence; after that the
// session is immutable and safe to share across goroutines.
//
// Markers are shifted seconds. Even indexes open a slice, odd indexes
// close it; the sequence is strictly ascending, so no two slices
// overlap or touch.
type Session struct {
	markers []uint32
	pending [][2]uint32
	sealed  bool

	dayBegin     ShiftedTime
	dayEnd       ShiftedTime
	morningBegin ShiftedTime
}

// New returns an empty open session. Day bounds default to the common
// 09:00~15:00 until slices are sealed in.
func New() *Session {
	return &Session{
		dayBegin:     FromClock(9, 0, 0),
		dayEnd:       FromClock(15, 0, 0),
		morningBegin: FromClock(9, 0, 0),
	}
}

// AddSlice records the window [start, end) given as wall-clock hours
// and minutes. The end may cross midnight when the start is a night
// open (e.g. 21:00~02:30). Returns ErrInvalidSlice when a field is out
// of range or the shifted end does not exceed the shifted start.
func (s *Session) AddSlice(startHour, startMinute, endHour, endMinute int) error {
	return s.AddSliceClock(startHour, startMinute, 0, endHour, endMinute, 0)
}

// AddSliceClock is AddSlice at second granularity, for boundaries like
// an 08:59:30 call-auction open.
func (s *Session) AddSliceClock(startHour, startMinute, startSec, endHour, endMinute, endSec int) error {
	if s.sealed {
		return fmt.Errorf("add slice: session is sealed")
	}
	for _, h := range []int{startHour, endHour} {
		if h < 0 || h > 23 {
			return fmt.Errorf("%w: hour %d out of range", ErrInvalidSlice, h)
		}
	}
	for _, m := range []int{startMinute, endMinute, startSec, endSec} {
		if m < 0 || m > 59 {
			return fmt.Errorf("%w: minute/second %d out of range", ErrInvalidSlice, m)
		}
	}
	begin := FromClock(startHour, startMinute, startSec)
	end := FromClock(endHour, endMinute, endSec)
	if end <= begin {
		return fmt.Errorf("%w: begin %s must precede end %s", ErrInvalidSlice, begin, end)
	}
	s.pending = append(s.pending, [2]uint32{begin.Seconds(), end.Seconds()})
	return nil
}

// Seal turns the accumulated slices into the canonical marker sequence:
// sorted ascending, overlapping or touching slices merged. Idempotent;
// the session is immutable afterwards.
func (s *Session) Seal() {
	if s.sealed {
		return
	}
	if len(s.pending) > 0 {
		sort.Slice(s.pending, func(i, j int) bool {
			if s.pending[i][0] != s.pending[j][0] {
				return s.pending[i][0] < s.pending[j][0]
			}
			return s.pending[i][1] < s.pending[j][1]
		})
		markers := make([]uint32, 0, 2*len(s.pending))
		begin, end := s.pending[0][0], s.pending[0][1]
		for _, p := range s.pending[1:] {
			if p[0] <= end {
				if p[1] > end {
					end = p[1]
				}
				continue
			}
			markers = append(markers, begin, end)
			begin, end = p[0], p[1]
		}
		s.markers = append(markers, begin, end)
		s.pending = nil
	}
	s.fixDayBounds()
	s.sealed = true
}

// FromMarkers reconstructs a sealed session from a canonical marker
// sequence as returned by Markers.
func FromMarkers(markers []uint32) (*Session, error) {
	if len(markers)%2 != 0 {
		return nil, fmt.Errorf("%w: odd marker count %d", ErrInvalidSlice, len(markers))
	}
	for i := 1; i < len(markers); i++ {
		if markers[i] <= markers[i-1] {
			return nil, fmt.Errorf("%w: markers not strictly ascending at index %d", ErrInvalidSlice, i)
		}
	}
	if len(markers) > 0 && markers[len(markers)-1] >= secsPerDay {
		return nil, fmt.Errorf("%w: marker %d beyond one day", ErrInvalidSlice, markers[len(markers)-1])
	}
	s := New()
	s.markers = append([]uint32(nil), markers...)
	s.fixDayBounds()
	s.sealed = true
	return s, nil
}

func (s *Session) fixDayBounds() {
	if len(s.markers) == 0 {
		return
	}
	s.dayBegin = ShiftedTime(s.markers[0])
	s.dayEnd = ShiftedTime(s.markers[len(s.markers)-1])
	s.morningBegin = s.dayBegin
	for i := 0; i < len(s.markers); i += 2 {
		if s.markers[i] >= morningLoShifted && s.markers[i] < morningHiShifted {
			s.morningBegin = ShiftedTime(s.markers[i])
			break
		}
	}
}

// Markers returns a copy of the canonical marker sequence.
func (s *Session) Markers() []uint32 {
	return append([]uint32(nil), s.markers...)
}

// SliceCount returns the number of merged slices.
func (s *Session) SliceCount() int { return len(s.markers) / 2 }

// Sealed reports whether Seal has run.
func (s *Session) Sealed() bool { return s.sealed }

// DayBegin is the session's first open as a duration since midnight:
// 21:00 for instruments with a night leg, 09:00/09:15/09:30 otherwise.
func (s *Session) DayBegin() time.Duration { return s.dayBegin.Nominal() }

// DayEnd is the session's last close as a duration since midnight.
func (s *Session) DayEnd() time.Duration { return s.dayEnd.Nominal() }

// MorningBegin is the first open falling in the morning window
// (06:00-11:00 wall-clock); equals DayBegin for sessions without a
// night leg.
func (s *Session) MorningBegin() time.Duration { return s.morningBegin.Nominal() }

// HasNight reports whether any slice opens at the 21:00 night open.
func (s *Session) HasNight() bool {
	for i := 0; i < len(s.markers); i += 2 {
		if s.markers[i] == nightOpenShifted {
			return true
		}
	}
	return false
}

// InSession reports whether the clock reading of t falls inside a
// slice. Exactly at a slice begin it honors includeBegin, exactly at a
// slice end it honors includeEnd; between slices it is always false.
func (s *Session) InSession(t time.Time, includeBegin, includeEnd bool) bool {
	return s.contains(FromTime(t).Seconds(), includeBegin, includeEnd)
}

// InSessionClock is InSession for a bare wall-clock reading.
func (s *Session) InSessionClock(hour, minute, sec int, includeBegin, includeEnd bool) bool {
	return s.contains(FromClock(hour, minute, sec).Seconds(), includeBegin, includeEnd)
}

func (s *Session) contains(sec uint32, includeBegin, includeEnd bool) bool {
	i := sort.Search(len(s.markers), func(i int) bool { return s.markers[i] >= sec })
	if i == len(s.markers) {
		return false
	}
	if s.markers[i] == sec {
		if i%2 == 0 {
			return includeBegin
		}
		return includeEnd
	}
	// markers[i] > sec: inside a slice iff i closes one.
	return i%2 == 1
}

// AnyInSession reports whether any instant of [start, end] falls inside
// a slice. With includeBeginEnd the interval counts as overlapping when
// it merely touches a slice boundary.
func (s *Session) AnyInSession(start, end time.Time, includeBeginEnd bool) bool {
	return s.overlaps(FromTime(start).Seconds(), FromTime(end).Seconds(), includeBeginEnd)
}

// AnyInSessionClock is AnyInSession for bare wall-clock readings.
func (s *Session) AnyInSessionClock(startHour, startMinute, endHour, endMinute int, includeBeginEnd bool) bool {
	return s.overlaps(FromClock(startHour, startMinute, 0).Seconds(), FromClock(endHour, endMinute, 0).Seconds(), includeBeginEnd)
}

func (s *Session) overlaps(a, b uint32, includeBeginEnd bool) bool {
	n := len(s.markers) / 2
	// First slice whose close is not before the interval; slices are
	// disjoint and sorted, so only that one can overlap.
	k := sort.Search(n, func(i int) bool {
		if includeBeginEnd {
			return s.markers[2*i+1] >= a
		}
		return s.markers[2*i+1] > a
	})
	if k == n {
		return false
	}
	if includeBeginEnd {
		return s.markers[2*k] <= b
	}
	return s.markers[2*k] < b
}

// Render lists the slices ascending in wall-clock terms, e.g.
// "21:00~02:30, 09:00~10:15, 10:30~11:30, 13:30~15:00" rendered in
// shifted order so the night leg comes first.
func (s *Session) Render() string {
	parts := make([]string, 0, len(s.markers)/2)
	for i := 0; i+1 < len(s.markers); i += 2 {
		parts = append(parts, fmt.Sprintf("%s~%s", ShiftedTime(s.markers[i]), ShiftedTime(s.markers[i+1])))
	}
	return strings.Join(parts, ", ")
}

func (s *Session) String() string {
	return fmt.Sprintf("day_begin:%s, morning_begin:%s, day_end:%s [%s]",
		s.dayBegin, s.morningBegin, s.dayEnd, s.Render())
}
