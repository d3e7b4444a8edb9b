package types

import (
	"fmt"
	"time"
)

// FormatDate formats t as YYYY-MM-DD, "-" for the zero time
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(DateLayout)
}

// FormatDateTime formats t as "YYYY-MM-DD HH:mm", "-" for the zero time
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}

// FormatRelativeDate describes t relative to now ("today", "3 days ago", ...).
// Anything older than a year is printed as a plain date.
func FormatRelativeDate(t time.Time, now time.Time) string {
	if t.IsZero() {
		return ""
	}

	days := int(now.Sub(t).Hours() / 24)
	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 30:
		return fmt.Sprintf("%d weeks ago", days/7)
	case days < 365:
		return fmt.Sprintf("%d months ago", days/30)
	}
	return FormatDate(t)
}

// schedule priorities: 1 high, 2 normal, 3 low
var (
	priorityTexts  = map[int]string{1: "High", 2: "Normal", 3: "Low"}
	priorityColors = map[int]string{1: "#E74C3C", 2: "#F39C12", 3: "#27AE60"}
)

func PriorityText(priority int) string {
	if text, ok := priorityTexts[priority]; ok {
		return text
	}
	return priorityTexts[2]
}

func PriorityColor(priority int) string {
	if color, ok := priorityColors[priority]; ok {
		return color
	}
	return priorityColors[2]
}

// notice priorities: 0 general, 1 important, 2 urgent
var (
	noticePriorityTexts  = map[int]string{0: "General", 1: "Important", 2: "Urgent"}
	noticePriorityColors = map[int]string{0: "#6c757d", 1: "#ffc107", 2: "#dc3545"}
)

func NoticePriorityText(priority int) string {
	if text, ok := noticePriorityTexts[priority]; ok {
		return text
	}
	return noticePriorityTexts[0]
}

func NoticePriorityColor(priority int) string {
	if color, ok := noticePriorityColors[priority]; ok {
		return color
	}
	return noticePriorityColors[0]
}

// Event categories as stored by the backend
const (
	CategoryPerformance = "공연"
	CategoryExhibition  = "전시"
	CategoryFestival    = "페스티벌"
	CategoryWorkshop    = "워크샵"
	CategoryOther       = "기타"
)

var categoryColors = map[string]string{
	CategoryPerformance: "#FF6B6B",
	CategoryExhibition:  "#4ECDC4",
	CategoryFestival:    "#45B7D1",
	CategoryWorkshop:    "#96CEB4",
	CategoryOther:       "#FECA57",
}

func CategoryColor(category string) string {
	if color, ok := categoryColors[category]; ok {
		return color
	}
	return "#95A5A6"
}
