package param

import (
	"fmt"
	"strconv"
	"strings"
)

// FrequencyFormatter formats a frequency in Hz, switching to kHz above
// 1000.
func FrequencyFormatter(hz float64) string {
	if hz >= 1000 {
		return fmt.Sprintf("%.2f kHz", hz/1000)
	}
	return fmt.Sprintf("%.1f Hz", hz)
}

// FrequencyParser parses "440 Hz" or "1.2 kHz" style strings.
func FrequencyParser(str string) (float64, error) {
	str = strings.TrimSpace(str)
	if strings.HasSuffix(str, "kHz") || strings.HasSuffix(str, "khz") {
		num := strings.TrimSpace(str[:len(str)-3])
		v, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0, err
		}
		return v * 1000, nil
	}
	str = strings.TrimSuffix(strings.TrimSuffix(str, "Hz"), "hz")
	return strconv.ParseFloat(strings.TrimSpace(str), 64)
}

// PercentFormatter formats a 0..100 value as a percentage.
func PercentFormatter(value float64) string {
	return fmt.Sprintf("%.0f%%", value)
}

// PercentParser parses "75%" style strings.
func PercentParser(str string) (float64, error) {
	str = strings.TrimSuffix(strings.TrimSpace(str), "%")
	return strconv.ParseFloat(str, 64)
}

// TimeFormatter formats a time in seconds, switching to ms below 1 s.
func TimeFormatter(seconds float64) string {
	if seconds < 1.0 {
		return fmt.Sprintf("%.0f ms", seconds*1000)
	}
	return fmt.Sprintf("%.2f s", seconds)
}

// TimeParser parses "250 ms" or "1.5 s" style strings into seconds.
func TimeParser(str string) (float64, error) {
	str = strings.TrimSpace(str)
	if strings.HasSuffix(str, "ms") {
		num := strings.TrimSpace(strings.TrimSuffix(str, "ms"))
		v, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0, err
		}
		return v / 1000, nil
	}
	str = strings.TrimSuffix(str, "s")
	return strconv.ParseFloat(strings.TrimSpace(str), 64)
}

// CentsFormatter formats a detune amount in cents.
func CentsFormatter(cents float64) string {
	return fmt.Sprintf("%+.0f ct", cents)
}

// CentsParser parses "+12 ct" style strings.
func CentsParser(str string) (float64, error) {
	str = strings.TrimSuffix(strings.TrimSpace(str), "ct")
	return strconv.ParseFloat(strings.TrimSpace(str), 64)
}
