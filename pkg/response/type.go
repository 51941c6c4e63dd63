package response

import (
	"encoding/json"
	"time"
)

// Resp is the standard JSON response body.
type Resp struct {
	ErrorCode int    `json:"error_code"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	Errors    any    `json:"errors,omitempty"`
}

// UnixMilli is a time that marshals as epoch milliseconds, the unit every
// websocket frame uses for its timestamp.
type UnixMilli time.Time

// MarshalJSON implements json.Marshaler for UnixMilli.
func (t UnixMilli) MarshalJSON() ([]byte, error) {
	tm := time.Time(t)
	if tm.IsZero() {
		return json.Marshal(0)
	}
	return json.Marshal(tm.UnixMilli())
}
