package valhalla

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// LocalTimeLayout is the engine's wall-clock format. It carries no zone; the
// engine interprets it in the time zone of the location it applies to.
const LocalTimeLayout = "2006-01-02T15:04"

// LocalTime is a wall-clock time serialized in LocalTimeLayout.
type LocalTime struct {
	time.Time
}

// NewLocalTime truncates t to the minute and wraps it.
func NewLocalTime(t time.Time) LocalTime {
	return LocalTime{Time: t.Truncate(time.Minute)}
}

// MarshalJSON implements json.Marshaler.
func (t LocalTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(LocalTimeLayout))
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *LocalTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(LocalTimeLayout, s)
	if err != nil {
		return fmt.Errorf("parsing local time %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}

// DateTimeType selects how the engine interprets a DateTime.
type DateTimeType int

// Date-time modes.
const (
	DateTimeCurrent   DateTimeType = 0
	DateTimeDepartAt  DateTimeType = 1
	DateTimeArriveBy  DateTimeType = 2
	DateTimeInvariant DateTimeType = 3
)

// String returns the mode name.
func (t DateTimeType) String() string {
	switch t {
	case DateTimeCurrent:
		return "current"
	case DateTimeDepartAt:
		return "depart_at"
	case DateTimeArriveBy:
		return "arrive_by"
	case DateTimeInvariant:
		return "invariant"
	default:
		return fmt.Sprintf("DateTimeType(%d)", int(t))
	}
}

// DateTime selects time-aware routing and is sent as the date_time object.
type DateTime struct {
	Type  DateTimeType `json:"type"`
	Value *LocalTime   `json:"value,omitempty"`
}

// CurrentDeparture departs now, in the local time of the first location.
func CurrentDeparture() DateTime {
	return DateTime{Type: DateTimeCurrent}
}

// DepartAt departs at the given local time.
func DepartAt(t time.Time) DateTime {
	v := NewLocalTime(t)
	return DateTime{Type: DateTimeDepartAt, Value: &v}
}

// ArriveBy arrives at the given local time.
func ArriveBy(t time.Time) DateTime {
	v := NewLocalTime(t)
	return DateTime{Type: DateTimeArriveBy, Value: &v}
}

// InvariantAt uses the given time for every edge without time-dependent adjustments.
func InvariantAt(t time.Time) DateTime {
	v := NewLocalTime(t)
	return DateTime{Type: DateTimeInvariant, Value: &v}
}

// validateDateTime checks a DateTime carries a value unless it is current.
func validateDateTime(field string, dt DateTime) error {
	switch dt.Type {
	case DateTimeCurrent:
		return nil
	case DateTimeDepartAt, DateTimeArriveBy, DateTimeInvariant:
		if dt.Value == nil || dt.Value.IsZero() {
			return &ValidationError{Field: field + ".value", Message: "is required for " + dt.Type.String()}
		}
		return nil
	default:
		return &ValidationError{Field: field + ".type", Message: fmt.Sprintf("unknown date-time type %d", int(dt.Type))}
	}
}

// DateTimeSelector accumulates date-time modes set on a builder and resolves
// them at build time. Setting the same mode again replaces its value; setting
// two different modes is a validation error.
type DateTimeSelector struct {
	modes []DateTime
}

// Set records a date-time mode.
func (s *DateTimeSelector) Set(dt DateTime) {
	for i, m := range s.modes {
		if m.Type == dt.Type {
			s.modes[i] = dt
			return
		}
	}
	s.modes = append(s.modes, dt)
}

// Resolve returns the single active mode, nil if none was set, or a validation error.
func (s DateTimeSelector) Resolve(field string) (*DateTime, error) {
	switch len(s.modes) {
	case 0:
		return nil, nil
	case 1:
		dt := s.modes[0]
		if err := validateDateTime(field, dt); err != nil {
			return nil, err
		}
		return &dt, nil
	default:
		names := make([]string, len(s.modes))
		for i, m := range s.modes {
			names[i] = m.Type.String()
		}
		return nil, &ValidationError{Field: field, Message: fmt.Sprintf("only one date-time mode may be set, got %v", names)}
	}
}

// ValidateDateTime checks an already resolved DateTime, for manifests decoded from JSON.
func ValidateDateTime(field string, dt *DateTime) error {
	if dt == nil {
		return nil
	}
	return validateDateTime(field, *dt)
}
