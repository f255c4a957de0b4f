package powerinfo

import (
	"strings"
	"time"

	"github.com/distatus/battery"

	"github.com/batteryd/batteryd/pkg/utils/ptr"
)

// FromBattery builds a Status from an OS battery reading, for the
// /battery-info endpoint.
func FromBattery(bat *battery.Battery) Status {
	var s Status
	if bat == nil {
		return s
	}

	if bat.Full > 0 {
		s.Percentage = ptr.To(clampPercentage(bat.Current / bat.Full * 100))
	}

	switch bat.State {
	case battery.Charging:
		s.State = Charging
	case battery.Discharging:
		s.State = Discharging
	case battery.Full:
		s.State = Full
	default:
		s.State = BatteryState(strings.ToLower(bat.State.String()))
	}

	if s.State == Discharging && bat.ChargeRate > 0 && bat.Current > 0 {
		// Current is mWh and ChargeRate mW.
		hours := bat.Current / bat.ChargeRate
		s.TimeToEmpty = time.Duration(hours * float64(time.Hour)).Round(time.Minute).String()
	}

	return s
}
