package dto

// CalculateRequest is the invocation payload. Ids may arrive as JSON numbers
// or numeric strings; absent, null or zero ids count as missing.
type CalculateRequest struct {
	Type       string `mapstructure:"type"`
	PersonID   int64  `mapstructure:"personId"`
	VenueID1   int64  `mapstructure:"venueId1"`
	VenueID2   int64  `mapstructure:"venueId2"`
	RecalcFees any    `mapstructure:"recalc_fees"`
}

// Response is the value returned to the invoker.
type Response struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers,omitempty"`
	Body       string            `json:"body"`
}

type SuccessBody struct {
	Success   bool   `json:"success"`
	Type      string `json:"type"`
	Result    any    `json:"result"`
	Duration  int64  `json:"duration"`
	Timestamp string `json:"timestamp"`
}

type FailureBody struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	ErrorKind string `json:"errorKind"`
	Duration  int64  `json:"duration"`
	Timestamp string `json:"timestamp"`
}
