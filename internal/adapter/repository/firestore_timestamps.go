package repository

import (
	"encoding/json"
	"time"

	"github.com/gas1730-arch/oi-market/internal/domain/entity"
)

var itemTimestampFields = []string{"createdAt", "endsAt", "endedAt", "reservedAt", "soldAt"}

// decodeItem reads an item document. Documents written by older clients keep
// timestamps as {seconds, nanoseconds} maps, which DataTo cannot decode into
// time.Time, so those go through a normalized copy instead.
func decodeItem(data map[string]interface{}, dataTo func(interface{}) error) (*entity.Item, error) {
	var item entity.Item

	normalized, legacy := normalizeTimestamps(data, itemTimestampFields)
	if !legacy {
		if err := dataTo(&item); err != nil {
			return nil, err
		}
		return &item, nil
	}

	raw, err := json.Marshal(normalized)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// normalizeTimestamps returns a copy of data with every map-shaped timestamp
// in fields replaced by a time.Time. The bool reports whether any was found.
func normalizeTimestamps(data map[string]interface{}, fields []string) (map[string]interface{}, bool) {
	var out map[string]interface{}
	for _, field := range fields {
		m, ok := data[field].(map[string]interface{})
		if !ok {
			continue
		}
		ts, ok := timestampFromMap(m)
		if !ok {
			continue
		}
		if out == nil {
			out = make(map[string]interface{}, len(data))
			for k, v := range data {
				out[k] = v
			}
		}
		out[field] = ts
	}
	if out == nil {
		return data, false
	}
	return out, true
}

func timestampFromMap(m map[string]interface{}) (time.Time, bool) {
	seconds, ok := numberField(m, "seconds", "_seconds")
	if !ok {
		return time.Time{}, false
	}
	nanos, _ := numberField(m, "nanoseconds", "_nanoseconds")
	return time.Unix(seconds, nanos).UTC(), true
}

func numberField(m map[string]interface{}, keys ...string) (int64, bool) {
	for _, key := range keys {
		switch v := m[key].(type) {
		case int64:
			return v, true
		case int:
			return int64(v), true
		case float64:
			return int64(v), true
		}
	}
	return 0, false
}
