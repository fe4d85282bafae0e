package sqlstore

import (
	"fmt"
	"time"
)

var timeLayouts = []string{
	timeLayout,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// timestamp scans a column holding either a native time value or the text
// representation SQLite stores.
type timestamp struct {
	t *time.Time
}

func scanTime(t *time.Time) timestamp {
	return timestamp{t: t}
}

func (ts timestamp) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*ts.t = v.UTC()
		return nil
	case string:
		return ts.parse(v)
	case []byte:
		return ts.parse(string(v))
	case nil:
		*ts.t = time.Time{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into timestamp", src)
	}
}

func (ts timestamp) parse(v string) error {
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, v); err == nil {
			*ts.t = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("cannot parse timestamp %q", v)
}
