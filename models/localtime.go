package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// All timestamps are fixed to a single zone (Brasília time); the store
// never records an offset, only the wall-clock text. A fixed offset, not
// the IANA location, so the name is the offset too.
var RecordZone = time.FixedZone("-03", -3*60*60)

const (
	// LocalTimeLayout is the canonical data_hora text ("YYYY-MM-DD HH:MM:SS").
	LocalTimeLayout = "2006-01-02 15:04:05"
	// DateLayout is the derived calendar-date form used by filters and grouping.
	DateLayout = "2006-01-02"

	layoutBR = "02/01/2006 15:04:05"
)

// LocalTime wraps time.Time so we can control both JSON un/marshaling and
// how the value is stored: the data_hora column is TEXT, not a native
// timestamp, so the driver sees the canonical layout string.
type LocalTime time.Time

// NowLocal returns the current wall-clock time in the record zone,
// truncated to whole seconds.
func NowLocal() LocalTime {
	return LocalTime(time.Now().In(RecordZone).Truncate(time.Second))
}

// UnmarshalJSON accepts the canonical layout, the legacy Brazilian
// "DD/MM/YYYY HH:MM:SS" form, and RFC3339.
func (lt *LocalTime) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	if t, err := time.ParseInLocation(LocalTimeLayout, s, RecordZone); err == nil {
		*lt = LocalTime(t)
		return nil
	}
	if t, err := time.ParseInLocation(layoutBR, s, RecordZone); err == nil {
		*lt = LocalTime(t)
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("LocalTime.UnmarshalJSON: cannot parse %q: %w", s, err)
	}
	*lt = LocalTime(t.In(RecordZone))
	return nil
}

// MarshalJSON always emits the canonical layout.
func (lt LocalTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(lt.String())
}

func (lt LocalTime) String() string {
	return time.Time(lt).Format(LocalTimeLayout)
}

// Date returns the calendar-date portion ("YYYY-MM-DD").
func (lt LocalTime) Date() string {
	return time.Time(lt).Format(DateLayout)
}

func (lt LocalTime) IsZero() bool {
	return time.Time(lt).IsZero()
}

// Value implements driver.Valuer: the column is TEXT, so the parameter is
// the canonical layout string.
func (lt LocalTime) Value() (driver.Value, error) {
	return lt.String(), nil
}

// Scan implements sql.Scanner for reading the TEXT column back.
func (lt *LocalTime) Scan(src interface{}) error {
	if src == nil {
		*lt = LocalTime(time.Time{})
		return nil
	}

	switch v := src.(type) {
	case time.Time:
		*lt = LocalTime(v.In(RecordZone))
		return nil
	case []byte:
		return lt.scanString(string(v))
	case string:
		return lt.scanString(v)
	default:
		return fmt.Errorf("LocalTime.Scan: unsupported type %T", src)
	}
}

func (lt *LocalTime) scanString(s string) error {
	t, err := time.ParseInLocation(LocalTimeLayout, s, RecordZone)
	if err != nil {
		// Rows written by older script variants used the Brazilian layout.
		t, err = time.ParseInLocation(layoutBR, s, RecordZone)
		if err != nil {
			return fmt.Errorf("LocalTime.Scan: parse %q: %w", s, err)
		}
	}
	*lt = LocalTime(t)
	return nil
}
