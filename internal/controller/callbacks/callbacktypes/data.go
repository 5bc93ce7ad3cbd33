package callbacktypes

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Префиксы callback data. Telegram ограничивает data 64 байтами.
const (
	PrefixEvent         = "event"          // event:<event_id>[:<page>]
	PrefixDay           = "day"            // day:<event_id>:<YYYY-MM-DD>
	PrefixBook          = "book"           // book:<event_id>:<unix>:<duration>
	PrefixWeek          = "week"           // week:<event_id>[:<offset>]
	PrefixCancelBooking = "cancel_booking" // cancel_booking:<uuid>
	PrefixConfirmCancel = "confirm_cancel" // confirm_cancel:<uuid>

	Noop       = "noop"
	BackToMain = "back_to_main"
	MyEvents   = "my_events"
	MyBookings = "my_bookings"
)

func EventData(eventID int64, page int) string {
	if page <= 0 {
		return fmt.Sprintf("%s:%d", PrefixEvent, eventID)
	}
	return fmt.Sprintf("%s:%d:%d", PrefixEvent, eventID, page)
}

func DayData(eventID int64, date string) string {
	return fmt.Sprintf("%s:%d:%s", PrefixDay, eventID, date)
}

func BookData(eventID int64, start time.Time, duration int) string {
	return fmt.Sprintf("%s:%d:%d:%d", PrefixBook, eventID, start.Unix(), duration)
}

func WeekData(eventID int64, offset int) string {
	if offset == 0 {
		return fmt.Sprintf("%s:%d", PrefixWeek, eventID)
	}
	return fmt.Sprintf("%s:%d:%d", PrefixWeek, eventID, offset)
}

func CancelBookingData(id uuid.UUID) string {
	return PrefixCancelBooking + ":" + id.String()
}

func ConfirmCancelData(id uuid.UUID) string {
	return PrefixConfirmCancel + ":" + id.String()
}

// Data разобранная callback data: префикс и позиционные аргументы
type Data struct {
	Prefix string
	Args   []string
}

// ParseData разбирает "prefix:arg1:arg2"
func ParseData(raw string) Data {
	parts := strings.Split(raw, ":")
	return Data{Prefix: parts[0], Args: parts[1:]}
}

// Int64 возвращает i-й аргумент как int64
func (d Data) Int64(i int) (int64, error) {
	if i >= len(d.Args) {
		return 0, fmt.Errorf("%s: missing argument %d", d.Prefix, i)
	}
	return strconv.ParseInt(d.Args[i], 10, 64)
}

// IntOr возвращает i-й аргумент как int или def, если аргумента нет
func (d Data) IntOr(i, def int) (int, error) {
	if i >= len(d.Args) {
		return def, nil
	}
	return strconv.Atoi(d.Args[i])
}

// String возвращает i-й аргумент
func (d Data) String(i int) (string, error) {
	if i >= len(d.Args) || d.Args[i] == "" {
		return "", fmt.Errorf("%s: missing argument %d", d.Prefix, i)
	}
	return d.Args[i], nil
}

// UUID возвращает i-й аргумент как uuid
func (d Data) UUID(i int) (uuid.UUID, error) {
	s, err := d.String(i)
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(s)
}
