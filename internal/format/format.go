// Package format turns raw financial values into display strings.
// Every function treats an invalid null.Float as missing ("N/A") and a valid 0 as a value.
package format

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/guregu/null/v6"
)

// NotAvailable is rendered for missing values
const NotAvailable = "N/A"

const (
	billion = 1e9
	million = 1e6
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func missing(v null.Float) bool {
	return !v.Valid || math.IsNaN(v.Float64) || math.IsInf(v.Float64, 0)
}

// shortest renders v without trailing zeros and without a negative zero
func shortest(v float64) string {
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Currency renders a dollar amount scaled to billions or millions:
// 1.5e9 -> "$1.50B", 2.5e6 -> "$2.50M", 1234.5 -> "$1,234.5", 0 -> "$0".
// Negative amounts carry the sign ahead of the symbol ("-$1.50B").
func Currency(v null.Float) string {
	if missing(v) {
		return NotAvailable
	}
	value := v.Float64
	sign := ""
	if value < 0 {
		sign = "-"
		value = -value
	}

	// round to three fraction digits before picking the scale
	value = math.Round(value*1000) / 1000

	switch {
	case value >= billion:
		return sign + "$" + strconv.FormatFloat(value/billion, 'f', 2, 64) + "B"
	case value >= million:
		return sign + "$" + strconv.FormatFloat(value/million, 'f', 2, 64) + "M"
	}

	if value == 0 {
		sign = ""
	}
	return sign + "$" + humanize.Commaf(value)
}

// GrowthRate renders a percentage with an explicit "+" for positive values: 12.3 -> "+12.3%", -4 -> "-4%"
func GrowthRate(v null.Float) string {
	if missing(v) {
		return NotAvailable
	}
	if v.Float64 > 0 {
		return "+" + shortest(v.Float64) + "%"
	}
	return shortest(v.Float64) + "%"
}

// Multiple renders a valuation multiple: 4 -> "4x", 12.35 -> "12.35x", 0 -> "0x"
func Multiple(v null.Float) string {
	if missing(v) {
		return NotAvailable
	}
	return shortest(v.Float64) + "x"
}

// Percentage renders a fraction as a percentage with two decimals: 0.4312 -> "43.12%"
func Percentage(ratio null.Float) string {
	if missing(ratio) {
		return NotAvailable
	}
	return strconv.FormatFloat(ratio.Float64*100, 'f', 2, 64) + "%"
}

// Millions renders an amount in whole millions of dollars: 1234567890 -> "$1,235M"
func Millions(v null.Float) string {
	if missing(v) {
		return NotAvailable
	}
	m := math.Round(v.Float64 / million)
	if m == 0 {
		return "$0M"
	}
	if m < 0 {
		return "-$" + humanize.Comma(int64(-m)) + "M"
	}
	return "$" + humanize.Comma(int64(m)) + "M"
}

// Shares renders a share count in millions: 15550061000 -> "15,550.06M"
func Shares(v null.Float) string {
	if missing(v) {
		return NotAvailable
	}
	m := math.Round(v.Float64/million*100) / 100
	return humanize.FormatFloat("#,###.##", m) + "M"
}

// EPS renders earnings per share with two decimals: 6.13 -> "$6.13", -0.5 -> "-$0.50"
func EPS(v null.Float) string {
	if missing(v) {
		return NotAvailable
	}
	if v.Float64 < 0 {
		return "-$" + strconv.FormatFloat(-v.Float64, 'f', 2, 64)
	}
	return "$" + strconv.FormatFloat(v.Float64, 'f', 2, 64)
}

// ParseDate parses the date formats sent by the financial-data API
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Date renders an API date as "Sep 30, 2023"; unparseable input is returned unchanged
func Date(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	t, ok := ParseDate(s)
	if !ok {
		return s
	}
	return t.Format("Jan 2, 2006")
}
