package repository

import (
	"encoding/json"
	"fmt"
	"time"
)

// timeLayout sorts lexically in created order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// nowUTC returns the current time in UTC.
func nowUTC() time.Time {
	return time.Now().UTC()
}

// jsonColumn marshals v for a TEXT column.
func jsonColumn(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding column: %w", err)
	}
	return string(raw), nil
}

// scanJSON decodes a TEXT column into v.
func scanJSON(raw string, v any) error {
	if raw == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw), v)
}
