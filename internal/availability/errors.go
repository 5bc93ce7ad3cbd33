package availability

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidSchedule = errors.New("invalid schedule")
	ErrNoAvailability  = errors.New("no availability")
	ErrInvalidRange    = errors.New("invalid availability range")
	ErrConflict        = errors.New("conflict")
	ErrInvalidDuration = errors.New("duration is not offered by event")
)

// InvalidScheduleError reports malformed weekly hours, overrides or timezone.
type InvalidScheduleError struct {
	Field  string
	Reason string
}

func (e *InvalidScheduleError) Error() string {
	return fmt.Sprintf("invalid schedule: %s: %s", e.Field, e.Reason)
}

func (e *InvalidScheduleError) Unwrap() error { return ErrInvalidSchedule }

// NoAvailabilityError reports a binding that points at a missing schedule or host.
type NoAvailabilityError struct {
	ScheduleID int64
	HostID     int64
	Reason     string
}

func (e *NoAvailabilityError) Error() string {
	switch {
	case e.ScheduleID != 0:
		return fmt.Sprintf("no availability: schedule %d not found", e.ScheduleID)
	case e.Reason != "":
		return "no availability: " + e.Reason
	default:
		return fmt.Sprintf("no availability: host %d has no availability", e.HostID)
	}
}

func (e *NoAvailabilityError) Unwrap() error { return ErrNoAvailability }

// RangeError reports a malformed or fully past availability range.
type RangeError struct {
	Reason string
}

func (e *RangeError) Error() string {
	return "invalid availability range: " + e.Reason
}

func (e *RangeError) Unwrap() error { return ErrInvalidRange }

// ConflictError is returned when deleting a schedule that events still reference.
// The caller may retry with cascade.
type ConflictError struct {
	ScheduleID int64
	EventIDs   []int64
}

func (e *ConflictError) Error() string {
	ids := make([]string, 0, len(e.EventIDs))
	for _, id := range e.EventIDs {
		ids = append(ids, fmt.Sprint(id))
	}
	return fmt.Sprintf("schedule %d is used by events [%s]", e.ScheduleID, strings.Join(ids, ", "))
}

func (e *ConflictError) Unwrap() error { return ErrConflict }
