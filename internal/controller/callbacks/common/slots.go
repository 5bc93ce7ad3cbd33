package common

import (
	"sort"
	"time"

	"github.com/Freeeeeet/availability_engine/internal/model"
)

const dateLayout = "2006-01-02"

// DaySlots слоты одного календарного дня в поясе зрителя
type DaySlots struct {
	Date  time.Time
	Key   string
	Slots []model.Slot
}

// GroupByDate раскладывает слоты по дням в поясе loc, дни и слоты по возрастанию
func GroupByDate(slots []model.Slot, loc *time.Location) []DaySlots {
	sorted := make([]model.Slot, len(slots))
	copy(sorted, slots)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start.Equal(sorted[j].Start) {
			return sorted[i].Duration < sorted[j].Duration
		}
		return sorted[i].Start.Before(sorted[j].Start)
	})

	var days []DaySlots
	for _, s := range sorted {
		local := s.Start.In(loc)
		key := local.Format(dateLayout)
		if n := len(days); n == 0 || days[n-1].Key != key {
			days = append(days, DaySlots{
				Date: time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc),
				Key:  key,
			})
		}
		days[len(days)-1].Slots = append(days[len(days)-1].Slots, s)
	}
	return days
}

// FindDay ищет день по ключу YYYY-MM-DD
func FindDay(days []DaySlots, key string) (DaySlots, bool) {
	for _, d := range days {
		if d.Key == key {
			return d, true
		}
	}
	return DaySlots{}, false
}

// WeekStartOf полночь первого дня недели, содержащей t, в поясе t
func WeekStartOf(t time.Time, weekStart time.Weekday) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	back := (int(day.Weekday()) - int(weekStart) + 7) % 7
	return day.AddDate(0, 0, -back)
}

// SlotsBetween слоты, начинающиеся в [from, to)
func SlotsBetween(slots []model.Slot, from, to time.Time) []model.Slot {
	var out []model.Slot
	for _, s := range slots {
		if !s.Start.Before(from) && s.Start.Before(to) {
			out = append(out, s)
		}
	}
	return out
}

// BookableHost хост, чьё время показывается в боте. Для командных событий
// с раздельной доступностью берём владельца, если у него есть часы,
// иначе хоста с наименьшим id. 0 означает общую доступность события.
func BookableHost(event *model.Event) int64 {
	if !event.Availability.IsTeamPerHost() {
		return 0
	}
	if _, ok := event.Availability.UsersAvailability[event.HostID]; ok {
		return event.HostID
	}
	ids := make([]int64, 0, len(event.Availability.UsersAvailability))
	for id := range event.Availability.UsersAvailability {
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return event.HostID
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids[0]
}
