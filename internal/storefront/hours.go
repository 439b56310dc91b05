package storefront

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/zencartio/zencart/internal/domain"
)

// Weekdays holds the Portuguese weekday names used in schedule rows,
// indexed by time.Weekday.
var Weekdays = [7]string{
	"Domingo",
	"Segunda",
	"Terça",
	"Quarta",
	"Quinta",
	"Sexta",
	"Sábado",
}

// WeekdayName returns the schedule name for t's weekday.
func WeekdayName(t time.Time) string {
	return Weekdays[int(t.Weekday())]
}

// ValidWeekday reports whether day is one of the known schedule names.
func ValidWeekday(day string) bool {
	for _, d := range Weekdays {
		if strings.EqualFold(d, day) {
			return true
		}
	}
	return false
}

// ParseClock converts an H:MM or HH:MM wall-clock string to minutes
// since midnight.
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	sep := strings.IndexByte(s, ':')
	if sep <= 0 || sep > 2 || sep == len(s)-1 {
		return 0, errors.Errorf("invalid clock value %q", s)
	}
	var h, m int
	for _, r := range s[:sep] {
		if r < '0' || r > '9' {
			return 0, errors.Errorf("invalid clock value %q", s)
		}
		h = h*10 + int(r-'0')
	}
	mm := s[sep+1:]
	if len(mm) != 2 {
		return 0, errors.Errorf("invalid clock value %q", s)
	}
	for _, r := range mm {
		if r < '0' || r > '9' {
			return 0, errors.Errorf("invalid clock value %q", s)
		}
		m = m*10 + int(r-'0')
	}
	if h > 23 || m > 59 {
		return 0, errors.Errorf("invalid clock value %q", s)
	}
	return h*60 + m, nil
}

// IsOpenAt reports whether a unit with the given weekly schedule is open
// at t. A day marked closed, a missing day row or a malformed time all
// read as closed. Open and close are compared inclusively on the same
// day; overnight windows are not supported.
func IsOpenAt(hours []domain.BusinessHour, t time.Time) bool {
	day := WeekdayName(t)
	for _, h := range hours {
		if !strings.EqualFold(h.Day, day) {
			continue
		}
		if h.Closed() {
			return false
		}
		open, err := ParseClock(h.Open)
		if err != nil {
			return false
		}
		closeAt, err := ParseClock(h.Close)
		if err != nil {
			return false
		}
		now := t.Hour()*60 + t.Minute()
		return now >= open && now <= closeAt
	}
	return false
}

// Availability is the checkout gate state for a unit.
type Availability int

const (
	// Open means the unit is inside business hours.
	Open Availability = iota
	// ClosedAcceptsLate means the unit is closed but the store takes
	// orders outside business hours, so checkout proceeds.
	ClosedAcceptsLate
	// ClosedBlocked means the unit is closed and checkout must not
	// produce an order link.
	ClosedBlocked
)

// GateCheckout decides whether checkout may proceed right now.
func GateCheckout(store *domain.Store, unit *domain.Unit, now time.Time) Availability {
	if IsOpenAt(unit.BusinessHours, now) {
		return Open
	}
	if store.AcceptsOrdersOutsideBusinessHours {
		return ClosedAcceptsLate
	}
	return ClosedBlocked
}
