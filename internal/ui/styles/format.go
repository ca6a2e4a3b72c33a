package styles

import (
	"fmt"

	"github.com/charmbracelet/x/ansi"
)

// Truncate shortens s to maxWidth cells, ending with an ellipsis. ANSI
// sequences are preserved.
func Truncate(s string, maxWidth int) string {
	if maxWidth < 1 {
		return ""
	}
	return ansi.Truncate(s, maxWidth, "…")
}

// BMICategory returns the WHO category for a BMI value.
func BMICategory(bmi float64) string {
	switch {
	case bmi <= 0:
		return ""
	case bmi < 18.5:
		return "underweight"
	case bmi < 25:
		return "normal"
	case bmi < 30:
		return "overweight"
	default:
		return "obese"
	}
}

// FormatBMI renders a BMI value with its category, e.g. "24.7 (normal)".
func FormatBMI(bmi float64) string {
	if bmi <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f (%s)", bmi, BMICategory(bmi))
}
