package main

import (
	"fmt"
	"unicode/utf8"
)

// ShortenURL fits url into width characters by replacing its middle with
// an ellipsis. The host and the last path segments are the parts worth
// keeping, so both ends survive.
func ShortenURL(url string, width int) string {
	n := utf8.RuneCountInString(url)
	if n <= width {
		return url
	}
	runes := []rune(url)
	if width <= 1 {
		return string(runes[:max(width, 0)])
	}
	head := (width - 1) / 3
	tail := width - 1 - head
	return string(runes[:head]) + "…" + string(runes[n-tail:])
}

// HumanBytes formats n bytes with a binary unit.
func HumanBytes(n int) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	value := float64(n)
	unit := ""
	for _, u := range []string{"KB", "MB", "GB"} {
		value /= 1024
		unit = u
		if value < 1024 {
			break
		}
	}
	return fmt.Sprintf("%.1f %s", value, unit)
}
