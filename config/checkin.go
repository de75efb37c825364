package config

// CheckinConfig holds configuration for the rep check-in collector.
// Reps' devices push periodic check-ins; pull mode additionally polls
// devices that stay quiet.
type CheckinConfig struct {
	Enabled         bool   `json:"enabled"`
	Mode            string `json:"mode"`
	IntervalSeconds int    `json:"interval_seconds"`
	RequestTopic    string `json:"request_topic"`
	ResponsePrefix  string `json:"response_topic_prefix"`
	CheckinPrefix   string `json:"checkin_topic_prefix"`
	TimeoutSeconds  int    `json:"timeout_seconds"`
}

func (c CheckinConfig) Interval() int {
	if c.IntervalSeconds <= 0 {
		return 60
	}
	return c.IntervalSeconds
}

func (c CheckinConfig) Timeout() int {
	if c.TimeoutSeconds <= 0 {
		return 10
	}
	return c.TimeoutSeconds
}

func (c *CheckinConfig) SetDefaults() {
	if c.Mode == "" {
		c.Mode = "push"
	}
	if c.CheckinPrefix == "" {
		c.CheckinPrefix = "rep/state"
	}
	if c.ResponsePrefix == "" {
		c.ResponsePrefix = "rep/response"
	}
	if c.RequestTopic == "" {
		c.RequestTopic = "rep/checkin/request"
	}
}
