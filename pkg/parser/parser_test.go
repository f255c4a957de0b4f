package parser

import (
	"reflect"
	"testing"
)

func TestParsersOnEmptyInput(t *testing.T) {
	parsers := map[string]Func{
		"KeyValue":  KeyValue,
		"Delimited": Delimited,
		"Columns":   Columns,
		"Nop":       Nop,
	}
	inputs := []string{"", "\n", "   \n\t\n  ", "\r\n\r\n"}

	for name, parse := range parsers {
		for _, in := range inputs {
			got := parse(in)
			if got == nil {
				t.Errorf("%s(%q) returned nil, want empty mapping", name, in)
				continue
			}
			if len(got) != 0 {
				t.Errorf("%s(%q) = %v, want empty mapping", name, in, got)
			}
		}
	}
}

func TestKeyValue(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Fields
	}{
		{
			name: "basic",
			raw:  "state: discharging\npercentage: 42\n",
			want: Fields{"state": "discharging", "percentage": "42"},
		},
		{
			name: "line without colon is ignored",
			raw:  "state: charging\nnot a pair\npercentage: 80%",
			want: Fields{"state": "charging", "percentage": "80%"},
		},
		{
			name: "duplicate key keeps last value",
			raw:  "state: charging\nstate: discharging",
			want: Fields{"state": "discharging"},
		},
		{
			name: "upower output with indentation",
			raw: "    state:               discharging\n" +
				"    time to empty:       2.3 hours\n" +
				"    percentage:          57%\n",
			want: Fields{"state": "discharging", "time to empty": "2.3 hours", "percentage": "57%"},
		},
		{
			name: "value containing colons is kept whole",
			raw:  "updated: Mon 19 Oct 2026 10:21:03",
			want: Fields{"updated": "Mon 19 Oct 2026 10:21:03"},
		},
		{
			name: "empty key is skipped",
			raw:  ": orphan\nstate: full",
			want: Fields{"state": "full"},
		},
		{
			name: "empty value is kept",
			raw:  "time to empty:",
			want: Fields{"time to empty": ""},
		},
		{
			name: "windows line endings",
			raw:  "state: charging\r\npercentage: 12%\r\n",
			want: Fields{"state": "charging", "percentage": "12%"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KeyValue(tt.raw); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("KeyValue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDelimited(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Fields
	}{
		{
			name: "three fields",
			raw:  "73%;discharging;2:14 remaining",
			want: Fields{"0": "73%", "1": "discharging", "2": "2:14 remaining"},
		},
		{
			name: "pmset spacing",
			raw:  "73%; discharging; 2:14 remaining present: true\n",
			want: Fields{"0": "73%", "1": "discharging", "2": "2:14 remaining present: true"},
		},
		{
			name: "two fields leave the third absent",
			raw:  "100%; charged",
			want: Fields{"0": "100%", "1": "charged"},
		},
		{
			name: "empty position is absent",
			raw:  "55%;;(no estimate)",
			want: Fields{"0": "55%", "2": "(no estimate)"},
		},
		{
			name: "only the first non-blank line is read",
			raw:  "\n  \n81%; AC attached; 0:40 remaining\n99%; charging",
			want: Fields{"0": "81%", "1": "AC attached", "2": "0:40 remaining"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Delimited(tt.raw); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Delimited() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestColumns(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Fields
	}{
		{
			name: "values aligned under headers",
			raw: "EstimatedChargeRemaining BatteryStatus\n" +
				"          87               2",
			want: Fields{"EstimatedChargeRemaining": "87", "BatteryStatus": "2"},
		},
		{
			name: "single line has no data row",
			raw:  "EstimatedChargeRemaining BatteryStatus\n",
			want: Fields{},
		},
		{
			name: "wmic output with carriage returns and trailing blank lines",
			raw: "BatteryStatus  EstimatedChargeRemaining  TimeOnBattery  \r\r\n" +
				"1              64                        3600           \r\r\n" +
				"\r\r\n",
			want: Fields{"BatteryStatus": "1", "EstimatedChargeRemaining": "64", "TimeOnBattery": "3600"},
		},
		{
			name: "truncated data row yields empty values",
			raw: "BatteryStatus  EstimatedChargeRemaining  TimeOnBattery\n" +
				"2              90",
			want: Fields{"BatteryStatus": "2", "EstimatedChargeRemaining": "90", "TimeOnBattery": ""},
		},
		{
			name: "empty cells",
			raw: "Caption  BatteryStatus  TimeOnBattery\n" +
				"         6\n",
			want: Fields{"Caption": "", "BatteryStatus": "6", "TimeOnBattery": ""},
		},
		{
			name: "last column runs to end of data line",
			raw: "Name     Status\n" +
				"BAT0     Charging and High",
			want: Fields{"Name": "BAT0", "Status": "Charging and High"},
		},
		{
			name: "leading blank lines are skipped",
			raw:  "\n\nA  B\n1  2\n",
			want: Fields{"A": "1", "B": "2"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Columns(tt.raw); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Columns() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestColumnsRepeatedHeaderSubstring(t *testing.T) {
	// The search for each token starts one past the previous token's
	// offset, so "Status" resolves inside "BatteryStatus" at offset 7.
	raw := "BatteryStatus Status\n" +
		"1234567890ABCDEFGH"
	want := Fields{"BatteryStatus": "1234567", "Status": "890ABCDEFGH"}
	if got := Columns(raw); !reflect.DeepEqual(got, want) {
		t.Errorf("Columns() = %v, want %v", got, want)
	}

	raw = "ab b\n" +
		"12345"
	want = Fields{"ab": "1", "b": "2345"}
	if got := Columns(raw); !reflect.DeepEqual(got, want) {
		t.Errorf("Columns() = %v, want %v", got, want)
	}
}
