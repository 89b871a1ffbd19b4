package tui

import (
	"fmt"
	"strconv"
	"strings"
)

// absent marks a field with no value.
const absent = "—"

func formatRating(v *float64) string {
	if v == nil {
		return absent
	}
	return fmt.Sprintf("%.1f", *v)
}

func formatPrice(v *float64) string {
	if v == nil {
		return absent
	}
	return fmt.Sprintf("$%.2f", *v)
}

func formatWhole(v *int64) string {
	if v == nil {
		return absent
	}
	return strconv.FormatInt(*v, 10)
}

func formatText(v *string) string {
	if v == nil {
		return absent
	}
	return *v
}

func truncate(value string, width int) string {
	value = strings.Join(strings.Fields(value), " ")
	runes := []rune(value)
	if width <= 0 || len(runes) <= width {
		return value
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
