package powerinfo

import (
	"math"
	"strconv"
	"strings"

	"github.com/batteryd/batteryd/pkg/parser"
	"github.com/batteryd/batteryd/pkg/platform"
	"github.com/batteryd/batteryd/pkg/utils/ptr"
)

// keyTable names the platform-native field holding each Status field.
type keyTable struct {
	Percentage  string
	State       string
	TimeToEmpty string
}

// This is the only place that knows what each tool calls its fields.
var keyTables = map[platform.ID]keyTable{
	platform.Linux: {
		Percentage:  "percentage",
		State:       "state",
		TimeToEmpty: "time to empty",
	},
	platform.Darwin: {
		Percentage:  "0",
		State:       "1",
		TimeToEmpty: "2",
	},
	platform.Windows: {
		Percentage:  "EstimatedChargeRemaining",
		State:       "BatteryStatus",
		TimeToEmpty: "TimeOnBattery",
	},
}

// stateTables map platform state values onto BatteryState. Unlisted
// values pass through unchanged.
var stateTables = map[platform.ID]map[string]BatteryState{
	// upower
	platform.Linux: {
		"charging":       Charging,
		"discharging":    Discharging,
		"fully-charged":  Full,
		"pending-charge": Charging,
	},
	// pmset
	platform.Darwin: {
		"charging":         Charging,
		"discharging":      Discharging,
		"charged":          Full,
		"finishing charge": Charging,
	},
	// Win32_Battery.BatteryStatus:
	// 1=Discharging, 2=AC, 3=Fully Charged, 4=Low, 5=Critical, 6=Charging,
	// 7=Charging and High, 8=Charging and Low, 9=Charging and Critical,
	// 10=Undefined, 11=Partially Charged.
	platform.Windows: {
		"1":  Discharging,
		"2":  Charging,
		"3":  Full,
		"6":  Charging,
		"7":  Charging,
		"8":  Charging,
		"9":  Charging,
		"11": Charging,
	},
}

// Normalize maps the fields parsed for platform id onto a Status. A
// field missing from fields is missing from the result; nothing is
// defaulted.
func Normalize(id platform.ID, fields parser.Fields) Status {
	var s Status

	keys, ok := keyTables[id]
	if !ok {
		return s
	}

	if v, ok := fields[keys.Percentage]; ok {
		if p, ok := ParsePercentage(v); ok {
			s.Percentage = ptr.To(p)
		}
	}

	if v, ok := fields[keys.State]; ok {
		s.State = normalizeState(id, v)
	}

	if v, ok := fields[keys.TimeToEmpty]; ok {
		s.TimeToEmpty = v
	}

	return s
}

// ParsePercentage reads values such as "42", "42%", "73 %" or "57.4%".
// The result is rounded and clamped to [0, 100].
func ParsePercentage(v string) (int, bool) {
	v = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "%"))
	if v == "" {
		return 0, false
	}

	f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", "."), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}

	return clampPercentage(f), true
}

// clampPercentage bounds p to [0, 100] before rounding, so values outside
// the int range never reach the conversion. NaN maps to 0.
func clampPercentage(p float64) int {
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return int(math.Round(p))
}

func normalizeState(id platform.ID, v string) BatteryState {
	if st, ok := stateTables[id][strings.ToLower(v)]; ok {
		return st
	}
	return BatteryState(v)
}
