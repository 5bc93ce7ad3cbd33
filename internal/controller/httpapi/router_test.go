package httpapi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Freeeeeet/availability_engine/internal/availability"
	"github.com/Freeeeeet/availability_engine/internal/model"
	"github.com/Freeeeeet/availability_engine/internal/service"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	schedules *MockScheduleService
	events    *MockEventService
	slots     *MockSlotService
	bookings  *MockBookingService
	users     *MockUserService
	router    http.Handler
}

func newFixture() *fixture {
	f := &fixture{
		schedules: new(MockScheduleService),
		events:    new(MockEventService),
		slots:     new(MockSlotService),
		bookings:  new(MockBookingService),
		users:     new(MockUserService),
	}
	h := NewHandler(f.schedules, f.events, f.slots, f.bookings, f.users, zap.NewNop())
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("# metrics"))
	})
	f.router = NewRouter(h, RouterOptions{Metrics: metrics})
	return f
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

type testEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *apiError       `json:"error"`
}

func parse(t *testing.T, rr *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	var env testEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	return env
}

func TestRouter_Health(t *testing.T) {
	f := newFixture()

	rr := f.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, parse(t, rr).Success)

	rr = f.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "# metrics", rr.Body.String())
}

func TestRouter_Schedules(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		f := newFixture()
		f.schedules.On("Create", mock.Anything, mock.MatchedBy(func(s *model.Schedule) bool {
			return s.OwnerID == 10 && s.Name == "Work" && s.Timezone == "Europe/Berlin"
		})).Return(&model.Schedule{ID: 3, OwnerID: 10, Name: "Work"}, nil)

		rr := f.do(http.MethodPost, "/api/v1/schedules",
			`{"owner_id":10,"name":"Work","timezone":"Europe/Berlin","weekly_hours":{"monday":{"off":false,"times":[{"start":"09:00","end":"17:00"}]}}}`)

		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		var s model.Schedule
		require.NoError(t, json.Unmarshal(parse(t, rr).Data, &s))
		assert.Equal(t, int64(3), s.ID)
	})

	t.Run("Missing Name", func(t *testing.T) {
		f := newFixture()

		rr := f.do(http.MethodPost, "/api/v1/schedules", `{"owner_id":10,"timezone":"UTC","weekly_hours":{}}`)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Equal(t, "name", parse(t, rr).Error.Field)
		f.schedules.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Unknown Timezone", func(t *testing.T) {
		f := newFixture()

		rr := f.do(http.MethodPost, "/api/v1/schedules", `{"owner_id":10,"name":"W","timezone":"Moon/Base","weekly_hours":{}}`)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Equal(t, "timezone", parse(t, rr).Error.Field)
	})

	t.Run("Invalid Schedule", func(t *testing.T) {
		f := newFixture()
		f.schedules.On("Create", mock.Anything, mock.Anything).
			Return(nil, &availability.InvalidScheduleError{Field: "weekly_hours.friday", Reason: "missing"})

		rr := f.do(http.MethodPost, "/api/v1/schedules", `{"owner_id":10,"name":"W","timezone":"UTC","weekly_hours":{}}`)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		body := parse(t, rr)
		assert.Equal(t, "invalid_schedule", body.Error.Code)
		assert.Equal(t, "weekly_hours.friday", body.Error.Field)
	})

	t.Run("List Requires Owner", func(t *testing.T) {
		f := newFixture()

		rr := f.do(http.MethodGet, "/api/v1/schedules", "")

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("Not Found", func(t *testing.T) {
		f := newFixture()
		f.schedules.On("Get", mock.Anything, int64(9)).Return(nil, fmt.Errorf("schedule 9: %w", service.ErrNotFound))

		rr := f.do(http.MethodGet, "/api/v1/schedules/9", "")

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Delete Referenced", func(t *testing.T) {
		f := newFixture()
		f.schedules.On("Delete", mock.Anything, int64(1), false).
			Return(&availability.ConflictError{ScheduleID: 1, EventIDs: []int64{5, 6}})

		rr := f.do(http.MethodDelete, "/api/v1/schedules/1", "")

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Equal(t, []int64{5, 6}, parse(t, rr).Error.EventIDs)
	})

	t.Run("Delete Cascade", func(t *testing.T) {
		f := newFixture()
		f.schedules.On("Delete", mock.Anything, int64(1), true).Return(nil)

		rr := f.do(http.MethodDelete, "/api/v1/schedules/1?cascade=true", "")

		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("Mark Date Unavailable", func(t *testing.T) {
		f := newFixture()
		f.schedules.On("MarkUnavailable", mock.Anything, int64(1), "2024-06-10").Return(&model.Schedule{ID: 1}, nil)

		rr := f.do(http.MethodPut, "/api/v1/schedules/1/overrides/2024-06-10", `{"unavailable":true}`)

		assert.Equal(t, http.StatusOK, rr.Code)
		f.schedules.AssertNotCalled(t, "SetOverride", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Override Times", func(t *testing.T) {
		f := newFixture()
		times := []model.TimeSlot{{Start: "10:00", End: "12:00"}}
		f.schedules.On("SetOverride", mock.Anything, int64(1), "2024-06-10", times).Return(&model.Schedule{ID: 1}, nil)

		rr := f.do(http.MethodPut, "/api/v1/schedules/1/overrides/2024-06-10", `{"times":[{"start":"10:00","end":"12:00"}]}`)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Partial Update", func(t *testing.T) {
		f := newFixture()
		f.schedules.On("Update", mock.Anything, int64(1), mock.MatchedBy(func(u service.ScheduleUpdate) bool {
			return u.Name != nil && *u.Name == "Evenings" && u.Timezone == nil && u.WeeklyHours == nil
		})).Return(&model.Schedule{ID: 1, Name: "Evenings"}, nil)

		rr := f.do(http.MethodPatch, "/api/v1/schedules/1", `{"name":"Evenings"}`)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Bad ID", func(t *testing.T) {
		f := newFixture()

		rr := f.do(http.MethodGet, "/api/v1/schedules/abc", "")

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})
}

func TestRouter_Slots(t *testing.T) {
	ten := time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC)

	t.Run("Viewer Timezone And Durations", func(t *testing.T) {
		f := newFixture()
		f.slots.On("Slots", mock.Anything, service.SlotsRequest{
			EventID:        5,
			HostID:         10,
			ViewerTimezone: "Europe/Moscow",
			Durations:      []int{30, 60},
			Date:           "2024-06-10",
		}).Return([]model.Slot{{Start: ten, End: ten.Add(30 * time.Minute), Duration: 30}}, nil)

		rr := f.do(http.MethodGet, "/api/v1/events/5/slots?host_id=10&timezone=Europe/Moscow&duration=30,60&date=2024-06-10", "")

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		var slots []slotView
		require.NoError(t, json.Unmarshal(parse(t, rr).Data, &slots))
		require.Len(t, slots, 1)
		assert.Equal(t, "2024-06-10T13:00:00+03:00", slots[0].Start)
		assert.Equal(t, "2024-06-10T13:30:00+03:00", slots[0].End)
	})

	t.Run("Empty Is Array", func(t *testing.T) {
		f := newFixture()
		f.slots.On("Slots", mock.Anything, mock.Anything).Return([]model.Slot{}, nil)

		rr := f.do(http.MethodGet, "/api/v1/events/5/slots", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, string(parse(t, rr).Data))
	})

	t.Run("Bad Timezone", func(t *testing.T) {
		f := newFixture()

		rr := f.do(http.MethodGet, "/api/v1/events/5/slots?timezone=Nowhere/City", "")

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		f.slots.AssertNotCalled(t, "Slots", mock.Anything, mock.Anything)
	})

	t.Run("Bad Duration", func(t *testing.T) {
		f := newFixture()

		rr := f.do(http.MethodGet, "/api/v1/events/5/slots?duration=-5", "")

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("No Availability", func(t *testing.T) {
		f := newFixture()
		f.slots.On("Slots", mock.Anything, mock.Anything).Return(nil, &availability.NoAvailabilityError{ScheduleID: 4})

		rr := f.do(http.MethodGet, "/api/v1/events/5/slots", "")

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "no_availability", parse(t, rr).Error.Code)
	})

	t.Run("Invalid Range", func(t *testing.T) {
		f := newFixture()
		f.slots.On("Slots", mock.Anything, mock.Anything).Return(nil, &availability.RangeError{Reason: "in the past"})

		rr := f.do(http.MethodGet, "/api/v1/events/5/slots", "")

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})
}

func TestRouter_Events(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		f := newFixture()
		f.events.On("Create", mock.Anything, mock.MatchedBy(func(e *model.Event) bool {
			return e.HostID == 10 && e.Duration == 30 && e.Availability.ScheduleID == 1
		})).Return(&model.Event{ID: 5, HostID: 10}, nil)

		rr := f.do(http.MethodPost, "/api/v1/events",
			`{"host_id":10,"title":"Intro","duration":30,"availability":{"type":"existing","schedule_id":1}}`)

		assert.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	})

	t.Run("Bad Kind", func(t *testing.T) {
		f := newFixture()

		rr := f.do(http.MethodPost, "/api/v1/events", `{"host_id":10,"title":"Intro","duration":30,"kind":"group"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Equal(t, "kind", parse(t, rr).Error.Field)
	})

	t.Run("Update Range", func(t *testing.T) {
		f := newFixture()
		f.events.On("UpdateRange", mock.Anything, int64(5), model.AvailabilityRange{Type: model.RangeDays, Days: 14}).
			Return(&model.Event{ID: 5}, nil)

		rr := f.do(http.MethodPut, "/api/v1/events/5/range", `{"type":"days","days":14}`)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Malformed Body", func(t *testing.T) {
		f := newFixture()

		rr := f.do(http.MethodPut, "/api/v1/events/5/limits", `{"general":`)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Equal(t, "body", parse(t, rr).Error.Field)
	})
}

func TestRouter_Bookings(t *testing.T) {
	ten := time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC)

	t.Run("Commit", func(t *testing.T) {
		f := newFixture()
		id := uuid.New()
		f.bookings.On("Commit", mock.Anything, mock.MatchedBy(func(r service.CommitRequest) bool {
			return r.EventID == 5 && r.Start.Equal(ten) && r.AttendeeName == "Ann"
		})).Return(&model.Booking{ID: id, EventID: 5, Start: ten}, nil)

		rr := f.do(http.MethodPost, "/api/v1/bookings",
			`{"event_id":5,"start":"2024-06-10T13:00:00+03:00","attendee_name":"Ann","attendee_email":"ann@example.com"}`)

		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		var b model.Booking
		require.NoError(t, json.Unmarshal(parse(t, rr).Data, &b))
		assert.Equal(t, id, b.ID)
	})

	t.Run("Slot Taken", func(t *testing.T) {
		f := newFixture()
		f.bookings.On("Commit", mock.Anything, mock.Anything).Return(nil, service.ErrSlotTaken)

		rr := f.do(http.MethodPost, "/api/v1/bookings", `{"event_id":5,"start":"2024-06-10T10:00:00Z","attendee_name":"Ann"}`)

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Equal(t, "slot_taken", parse(t, rr).Error.Code)
	})

	t.Run("Slot Unavailable", func(t *testing.T) {
		f := newFixture()
		f.bookings.On("Commit", mock.Anything, mock.Anything).Return(nil, service.ErrSlotUnavailable)

		rr := f.do(http.MethodPost, "/api/v1/bookings", `{"event_id":5,"start":"2024-06-10T10:00:00Z","attendee_name":"Ann"}`)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("Bad Email", func(t *testing.T) {
		f := newFixture()

		rr := f.do(http.MethodPost, "/api/v1/bookings", `{"event_id":5,"start":"2024-06-10T10:00:00Z","attendee_name":"Ann","attendee_email":"nope"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Equal(t, "attendee_email", parse(t, rr).Error.Field)
	})

	t.Run("Cancel With Bad ID", func(t *testing.T) {
		f := newFixture()

		rr := f.do(http.MethodPost, "/api/v1/bookings/42/cancel", "")

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("List", func(t *testing.T) {
		f := newFixture()
		from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
		f.bookings.On("ListForHost", mock.Anything, int64(10), from, to).Return(nil, nil)

		rr := f.do(http.MethodGet, "/api/v1/bookings?host_id=10&from=2024-06-01T00:00:00Z&to=2024-07-01T00:00:00Z", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, string(parse(t, rr).Data))
	})
}

func TestRouter_Users(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		f := newFixture()
		f.users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.FirstName == "Ann" && u.Timezone == "Asia/Tokyo"
		})).Return(&model.User{ID: 7, FirstName: "Ann", Timezone: "Asia/Tokyo"}, nil)

		rr := f.do(http.MethodPost, "/api/v1/users", `{"first_name":"Ann","timezone":"Asia/Tokyo"}`)

		assert.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("Missing User", func(t *testing.T) {
		f := newFixture()
		f.users.On("GetByID", mock.Anything, int64(7)).Return(nil, nil)

		rr := f.do(http.MethodGet, "/api/v1/users/7", "")

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
