package model

import (
	"fmt"
	"time"
)

// FormatDuration форматирует длительность как h:mm:ss или mm:ss.
// Отрицательные значения приводятся к нулю.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	total := int64(d / time.Second)
	seconds := total % 60
	minutes := total / 60 % 60
	hours := total / 3600

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
