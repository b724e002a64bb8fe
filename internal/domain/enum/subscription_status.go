package enum

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
)

// SubscriptionStatus represents the lifecycle state of a subscription
type SubscriptionStatus int

const (
	SubscriptionStatusActive    SubscriptionStatus = 0
	SubscriptionStatusPaused    SubscriptionStatus = 1
	SubscriptionStatusCancelled SubscriptionStatus = 2
)

func (s SubscriptionStatus) String() string {
	switch s {
	case SubscriptionStatusActive:
		return "active"
	case SubscriptionStatusPaused:
		return "paused"
	case SubscriptionStatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

func (s SubscriptionStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *SubscriptionStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = SubscriptionStatus(i)
		return nil
	}
	switch strings.ToLower(str) {
	case "active":
		*s = SubscriptionStatusActive
	case "paused":
		*s = SubscriptionStatusPaused
	case "cancelled", "canceled":
		*s = SubscriptionStatusCancelled
	}
	return nil
}

func (s SubscriptionStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *SubscriptionStatus) Scan(value interface{}) error {
	if value == nil {
		*s = SubscriptionStatusActive
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = SubscriptionStatus(v)
	case int:
		*s = SubscriptionStatus(v)
	}
	return nil
}
