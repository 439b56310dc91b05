package storefront

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/zencartio/zencart/internal/domain"
)

// 2024-01-03 is a Wednesday (Quarta), 2024-01-06 a Saturday (Sábado).
func wednesday(hour, min int) time.Time {
	return time.Date(2024, 1, 3, hour, min, 0, 0, time.UTC)
}

func weekdaySchedule() []domain.BusinessHour {
	hours := []domain.BusinessHour{
		{Day: "Domingo", Open: "closed"},
		{Day: "Sábado", Open: "closed"},
	}
	for _, day := range []string{"Segunda", "Terça", "Quarta", "Quinta", "Sexta"} {
		hours = append(hours, domain.BusinessHour{Day: day, Open: "9:00", Close: "17:00"})
	}
	return hours
}

func TestParseClock(t *testing.T) {
	m, err := ParseClock("9:30")
	assert.NoError(t, err)
	assert.Equal(t, 9*60+30, m)

	m, err = ParseClock("17:05")
	assert.NoError(t, err)
	assert.Equal(t, 17*60+5, m)

	for _, bad := range []string{"", "9", "9:5", "25:00", "12:60", "ab:cd", ":30"} {
		_, err := ParseClock(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestIsOpenAt(t *testing.T) {
	sched := weekdaySchedule()

	assert.True(t, IsOpenAt(sched, wednesday(10, 0)))
	assert.True(t, IsOpenAt(sched, wednesday(9, 0)), "opening minute is inclusive")
	assert.True(t, IsOpenAt(sched, wednesday(17, 0)), "closing minute is inclusive")
	assert.False(t, IsOpenAt(sched, wednesday(18, 0)))
	assert.False(t, IsOpenAt(sched, wednesday(8, 59)))

	saturday := time.Date(2024, 1, 6, 10, 0, 0, 0, time.UTC)
	assert.False(t, IsOpenAt(sched, saturday), "closed marker wins")
}

func TestIsOpenAtMissingOrBrokenRows(t *testing.T) {
	assert.False(t, IsOpenAt(nil, wednesday(10, 0)))
	broken := []domain.BusinessHour{{Day: "Quarta", Open: "nonsense", Close: "17:00"}}
	assert.False(t, IsOpenAt(broken, wednesday(10, 0)))
}

func TestGateCheckout(t *testing.T) {
	unit := &domain.Unit{BusinessHours: weekdaySchedule()}
	store := &domain.Store{}

	assert.Equal(t, Open, GateCheckout(store, unit, wednesday(12, 0)))
	assert.Equal(t, ClosedBlocked, GateCheckout(store, unit, wednesday(20, 0)))

	store.AcceptsOrdersOutsideBusinessHours = true
	assert.Equal(t, ClosedAcceptsLate, GateCheckout(store, unit, wednesday(20, 0)))
	assert.Equal(t, Open, GateCheckout(store, unit, wednesday(12, 0)))
}
