package powerinfo

// BatteryState is the charging state reported in a Status. Values outside
// the constants below are raw strings passed through from the platform.
type BatteryState string

const (
	// Discharging indicates the battery is discharging.
	Discharging BatteryState = "discharging"
	// Charging indicates the battery is charging.
	Charging BatteryState = "charging"
	// Full indicates the battery is full.
	Full BatteryState = "full"
)

// Status is the platform independent battery record served by batteryd.
// Every field is optional; an empty Status marshals to {}.
type Status struct {
	// Percentage is the remaining capacity, 0 to 100.
	Percentage *int `json:"percentage,omitempty"`
	// State is one of the BatteryState constants or a raw platform value.
	State BatteryState `json:"state,omitempty"`
	// TimeToEmpty is a free-form estimate as reported by the platform.
	TimeToEmpty string `json:"timeToEmpty,omitempty"`
}

// IsEmpty reports whether no field is set.
func (s Status) IsEmpty() bool {
	return s.Percentage == nil && s.State == "" && s.TimeToEmpty == ""
}
