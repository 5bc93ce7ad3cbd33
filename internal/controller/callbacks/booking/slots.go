package booking

import (
	"github.com/Freeeeeet/availability_engine/internal/controller/callbacks/common"
	"github.com/Freeeeeet/availability_engine/internal/model"
	"github.com/Freeeeeet/availability_engine/internal/service"
)

// loadSlots загружает событие и все его свободные слоты для пользователя
func loadSlots(hc *common.HandlerContext, eventID int64) (*model.Event, []model.Slot, error) {
	event, err := hc.Handler.EventService.Get(hc.Ctx, eventID)
	if err != nil {
		return nil, nil, err
	}

	slots, err := hc.Handler.AvailabilityService.Slots(hc.Ctx, service.SlotsRequest{
		EventID:        event.ID,
		HostID:         common.BookableHost(event),
		ViewerTimezone: hc.Timezone(),
	})
	if err != nil {
		return nil, nil, err
	}
	return event, slots, nil
}

// attendeeName имя участника из профиля Telegram
func attendeeName(u *model.User) string {
	name := u.FirstName
	if u.LastName != "" {
		name += " " + u.LastName
	}
	if name == "" && u.Username != "" {
		name = "@" + u.Username
	}
	return name
}
