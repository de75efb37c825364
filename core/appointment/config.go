package appointment

// Config exposes the no-show risk weights and reminder settings as tunable
// parameters. The defaults reproduce the production weighting.
type Config struct {
	BusinessStartHour int `json:"business_start_hour"`
	BusinessEndHour   int `json:"business_end_hour"`

	// Risk factors, added when present.
	FarOutDays            int `json:"far_out_days"`
	FarOutPenalty         int `json:"far_out_penalty"`
	OutsideHoursPenalty   int `json:"outside_hours_penalty"`
	ColdTierPenalty       int `json:"cold_tier_penalty"`
	WarmTierPenalty       int `json:"warm_tier_penalty"`
	NoConfirmationPenalty int `json:"no_confirmation_penalty"`
	ReschedulePenalty     int `json:"reschedule_penalty"`
	FridayWeekendPenalty  int `json:"friday_weekend_penalty"`

	// Mitigating factors, subtracted when present.
	SoonBonus      int `json:"soon_bonus"`
	HotTierBonus   int `json:"hot_tier_bonus"`
	ConfirmedBonus int `json:"confirmed_bonus"`
	RepeatBonus    int `json:"repeat_bonus"`
	MorningBonus   int `json:"morning_bonus"`

	// EscalationThreshold gates the 72h reminder: only appointments whose
	// risk score exceeds it get the escalated cadence.
	EscalationThreshold int `json:"escalation_threshold"`

	// TravelBufferMinutes pads the drive time between adjacent in-person
	// meetings when checking slot feasibility.
	TravelBufferMinutes int `json:"travel_buffer_minutes"`
}

// SetDefaults applies the default weight table.
func (c *Config) SetDefaults() {
	if c.BusinessStartHour == 0 {
		c.BusinessStartHour = 9
	}
	if c.BusinessEndHour == 0 {
		c.BusinessEndHour = 17
	}
	if c.FarOutDays == 0 {
		c.FarOutDays = 7
	}
	if c.FarOutPenalty == 0 {
		c.FarOutPenalty = 20
	}
	if c.OutsideHoursPenalty == 0 {
		c.OutsideHoursPenalty = 15
	}
	if c.ColdTierPenalty == 0 {
		c.ColdTierPenalty = 15
	}
	if c.WarmTierPenalty == 0 {
		c.WarmTierPenalty = 8
	}
	if c.NoConfirmationPenalty == 0 {
		c.NoConfirmationPenalty = 10
	}
	if c.ReschedulePenalty == 0 {
		c.ReschedulePenalty = 10
	}
	if c.FridayWeekendPenalty == 0 {
		c.FridayWeekendPenalty = 10
	}
	if c.SoonBonus == 0 {
		c.SoonBonus = 20
	}
	if c.HotTierBonus == 0 {
		c.HotTierBonus = 15
	}
	if c.ConfirmedBonus == 0 {
		c.ConfirmedBonus = 20
	}
	if c.RepeatBonus == 0 {
		c.RepeatBonus = 15
	}
	if c.MorningBonus == 0 {
		c.MorningBonus = 10
	}
	if c.EscalationThreshold == 0 {
		c.EscalationThreshold = 40
	}
	if c.TravelBufferMinutes == 0 {
		c.TravelBufferMinutes = 15
	}
}
