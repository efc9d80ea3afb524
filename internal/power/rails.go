package power

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Reading holds what the PMIC reported for a single rail. Power is only
// known when both halves were observed; a rail missing one of the two stays
// visible for diagnostics but contributes no watts.
type Reading struct {
	Volts    float64
	Amps     float64
	Watts    float64
	HasVolts bool
	HasAmps  bool
}

// Rails maps rail name to its reading.
type Rails map[string]Reading

// valuePattern matches a numeric literal followed by an optional unit
// suffix, e.g. "5.0234V", "512.5mA", "0.87".
var valuePattern = regexp.MustCompile(`^([0-9]*\.?[0-9]+(?:[eE][+-]?[0-9]+)?)([a-zA-Z]*)$`)

// ParseRails parses the raw output of `vcgencmd pmic_read_adc`.
//
// Output formats differ between board revisions. The grammar here accepts
// the union of what has been seen in the wild: whitespace-separated
// KEY=VALUE tokens where the key carries a voltage suffix/keyword
// ("EXT5V_V=5.0234V") or a current one ("EXT5V_A=0.5000A",
// "VDD_CORE_I=1.2A", "BATT_CURR=200mA"). Values with milli units are
// normalized to base units. Malformed tokens are skipped; one garbled token
// must not take out the rest of the line.
func ParseRails(raw string) Rails {
	rails := make(Rails)

	for _, token := range strings.Fields(raw) {
		key, value, ok := strings.Cut(token, "=")
		if !ok || key == "" {
			continue
		}

		num, ok := parseValue(value)
		if !ok {
			continue
		}

		upper := strings.ToUpper(key)
		switch {
		case strings.HasSuffix(upper, "_V") || strings.Contains(upper, "VOLT"):
			name := railName(upper, []string{"_V"}, "VOLT")
			r := rails[name]
			r.Volts = num
			r.HasVolts = true
			rails[name] = r
		case strings.HasSuffix(upper, "_I") || strings.HasSuffix(upper, "_A") || strings.Contains(upper, "CURR"):
			name := railName(upper, []string{"_I", "_A"}, "CURR")
			r := rails[name]
			r.Amps = num
			r.HasAmps = true
			rails[name] = r
		}
	}

	for name, r := range rails {
		if r.HasVolts && r.HasAmps {
			r.Watts = r.Volts * r.Amps
			rails[name] = r
		}
	}

	return rails
}

// TotalWatts sums power over rails where both voltage and current are known.
func (r Rails) TotalWatts() float64 {
	total := 0.0
	for _, reading := range r {
		if reading.HasVolts && reading.HasAmps {
			total += reading.Watts
		}
	}

	return total
}

// Names returns the rail names in sorted order.
func (r Rails) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

func parseValue(value string) (float64, bool) {
	m := valuePattern.FindStringSubmatch(value)
	if m == nil {
		return 0, false
	}

	num, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}

	if strings.HasPrefix(m[2], "m") {
		num /= 1000
	}

	return num, true
}

// railName strips the field marker so the voltage and current halves of a
// rail land on the same key: an exact suffix wins, otherwise the keyword is
// removed wherever it appears ("BATT_VOLT" and "BATT_CURR" both → "BATT_").
func railName(key string, suffixes []string, keyword string) string {
	for _, suffix := range suffixes {
		if strings.HasSuffix(key, suffix) {
			return strings.TrimSuffix(key, suffix)
		}
	}

	return strings.ReplaceAll(key, keyword, "")
}
