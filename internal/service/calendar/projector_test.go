package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TourGuide-AvailabilityService/internal/domain"
	"github.com/m04kA/TourGuide-AvailabilityService/pkg/types"
)

var today = time.Date(2026, 10, 16, 15, 45, 0, 0, time.UTC)

func slotOn(id string, daysFromToday int, start, end types.TimeString) *domain.AvailabilitySlot {
	return &domain.AvailabilitySlot{
		ID:           id,
		SpecificDate: domain.DateOnly(today).AddDate(0, 0, daysFromToday),
		StartTime:    start,
		EndTime:      end,
		Capacity:     4,
		IsAvailable:  true,
	}
}

func TestBucket_EmptyInputYieldsSevenAscendingDays(t *testing.T) {
	groups := Bucket(nil, today)

	require.Len(t, groups, domain.CalendarDays)
	for i, g := range groups {
		assert.Equal(t, domain.DateOnly(today).AddDate(0, 0, i), g.Date)
		assert.True(t, g.IsEmpty())
		assert.NotNil(t, g.Slots)
	}
	assert.Equal(t, "2026-10-16", groups[0].DateKey())
	assert.Equal(t, "2026-10-22", groups[6].DateKey())
}

func TestBucket_GroupsAndOrdersRegardlessOfInputOrder(t *testing.T) {
	slots := []*domain.AvailabilitySlot{
		slotOn("d3-late", 3, "15:00", "17:00"),
		slotOn("d0", 0, "09:00", "10:00"),
		slotOn("d3-early", 3, "08:00", "09:30"),
		slotOn("d6", 6, "10:00", "11:00"),
		slotOn("d3-early-long", 3, "08:00", "12:00"),
	}

	groups := Bucket(slots, today)

	require.Len(t, groups, 7)
	require.Len(t, groups[0].Slots, 1)
	assert.Equal(t, "d0", groups[0].Slots[0].ID)

	require.Len(t, groups[3].Slots, 3)
	assert.Equal(t, "d3-early", groups[3].Slots[0].ID)
	assert.Equal(t, "d3-early-long", groups[3].Slots[1].ID)
	assert.Equal(t, "d3-late", groups[3].Slots[2].ID)

	require.Len(t, groups[6].Slots, 1)
	assert.Equal(t, "d6", groups[6].Slots[0].ID)

	for i := 1; i < len(groups); i++ {
		assert.True(t, groups[i-1].Date.Before(groups[i].Date))
	}
}

func TestBucket_DropsSlotsOutsideWindow(t *testing.T) {
	slots := []*domain.AvailabilitySlot{
		slotOn("past", -1, "09:00", "10:00"),
		slotOn("day7", 7, "09:00", "10:00"),
		nil,
	}

	total := 0
	for _, g := range Bucket(slots, today) {
		total += len(g.Slots)
	}
	assert.Zero(t, total)
}

func TestBucket_IgnoresTimeOfDayInSlotDate(t *testing.T) {
	slot := slotOn("s", 2, "09:00", "10:00")
	slot.SpecificDate = slot.SpecificDate.Add(18 * time.Hour)

	groups := Bucket([]*domain.AvailabilitySlot{slot}, today)
	require.Len(t, groups[2].Slots, 1)
}

func TestBucket_DoesNotMutateInput(t *testing.T) {
	slots := []*domain.AvailabilitySlot{
		slotOn("b", 1, "12:00", "13:00"),
		slotOn("a", 1, "08:00", "09:00"),
	}
	original := []*domain.AvailabilitySlot{slots[0], slots[1]}
	snapshot := *slots[0]

	first := Bucket(slots, today)
	first[1].Slots[0].Capacity = 99

	second := Bucket(slots, today)

	assert.Equal(t, original, slots)
	assert.Equal(t, snapshot, *slots[0])
	assert.Equal(t, 4, second[1].Slots[0].Capacity)
	assert.Equal(t, "a", second[1].Slots[0].ID)
}

func TestActionsFor(t *testing.T) {
	slot := slotOn("s", 0, "09:00", "10:00")
	assert.Equal(t, SlotActions{CanEdit: true, CanEditCapacity: true, CanToggle: true, CanDelete: true}, ActionsFor(slot))

	slot.TouristCount = 2
	assert.Equal(t, SlotActions{CanEdit: true, CanEditCapacity: false, CanToggle: true, CanDelete: false}, ActionsFor(slot))
}
