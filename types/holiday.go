package types

import (
	"bytes"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type HolidayType string

const (
	HolidayNational    HolidayType = "NATIONAL"
	HolidayPublic      HolidayType = "PUBLIC"
	HolidaySubstitute  HolidayType = "SUBSTITUTE"
	HolidayMemorial    HolidayType = "MEMORIAL"
	HolidayAnniversary HolidayType = "ANNIVERSARY"
)

// ID identifies a holiday. Backend rows carry numeric ids, generated
// fallback rows carry ids like "default-2025-01-01".
type ID string

func (i *ID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*i = ""
		return nil
	}
	if s, err := strconv.Unquote(string(b)); err == nil {
		*i = ID(s)
		return nil
	}
	*i = ID(b)
	return nil
}

func (i ID) String() string {
	return string(i)
}

type Holiday struct {
	Id          ID          `json:"id,omitempty"`
	Name        string      `json:"name" validate:"notblank"`
	HolidayDate Date        `json:"holidayDate" validate:"required"`
	CountryCode string      `json:"countryCode,omitempty"`
	HolidayType HolidayType `json:"holidayType" validate:"required,oneof=NATIONAL PUBLIC SUBSTITUTE MEMORIAL ANNIVERSARY"`
	Description string      `json:"description,omitempty"`
	IsRecurring bool        `json:"isRecurring"`
	Color       string      `json:"color,omitempty" validate:"omitempty,color"`
}

func (h Holiday) Priority() int {
	return HolidayPriority(h.HolidayType)
}

func (h Holiday) String() string {
	return h.Name + " (" + h.HolidayDate.String() + ")"
}

// HolidayList is the answer of a per-year query
type HolidayList struct {
	Year     int       `json:"year"`
	Holidays []Holiday `json:"holidays"`
	Count    int       `json:"count"`
	// Fallback is set when the list comes from the built-in table instead of the backend
	Fallback bool `json:"-"`
}

type HolidayRange struct {
	StartDate Date      `json:"startDate"`
	EndDate   Date      `json:"endDate"`
	Holidays  []Holiday `json:"holidays"`
	Count     int       `json:"count"`
	Fallback  bool      `json:"-"`
}

type HolidaysOnDate struct {
	Date      Date      `json:"date"`
	Holidays  []Holiday `json:"holidays"`
	Count     int       `json:"count"`
	IsHoliday bool      `json:"isHoliday"`
}

type HolidayMonth struct {
	Year     int       `json:"year"`
	Month    int       `json:"month"`
	Holidays []Holiday `json:"holidays"`
	Count    int       `json:"count"`
}

// HolidayStatistics is the admin statistics document for one year
type HolidayStatistics struct {
	GenericResponse
}

func (s HolidayStatistics) TotalCount() int64 {
	return s.Int("totalCount")
}

func (s HolidayStatistics) TypeStatistics() map[string]int64 {
	return s.IntMap("typeStatistics")
}

func (s HolidayStatistics) MonthStatistics() map[string]int64 {
	return s.IntMap("monthStatistics")
}

var holidayPriorities = map[HolidayType]int{
	HolidayNational:    1,
	HolidayPublic:      2,
	HolidaySubstitute:  3,
	HolidayMemorial:    4,
	HolidayAnniversary: 5,
}

// HolidayPriority orders holidays falling on the same day, national holidays first.
// Unknown types sort last.
func HolidayPriority(t HolidayType) int {
	if p, ok := holidayPriorities[t]; ok {
		return p
	}
	return 99
}

var holidayTypeNames = map[HolidayType]string{
	HolidayNational:    "National holiday",
	HolidayPublic:      "Public holiday",
	HolidaySubstitute:  "Substitute holiday",
	HolidayMemorial:    "Memorial day",
	HolidayAnniversary: "Other",
}

func HolidayTypeName(t HolidayType) string {
	if name, ok := holidayTypeNames[t]; ok {
		return name
	}
	return "Other"
}

// GroupHolidaysByDate groups holidays by their YYYY-MM-DD day, each group sorted by priority
func GroupHolidaysByDate(holidays []Holiday) map[string][]Holiday {
	grouped := make(map[string][]Holiday)
	if len(holidays) == 0 {
		return grouped
	}

	for _, holiday := range holidays {
		if holiday.HolidayDate.IsZero() {
			log.Warn().Str("holiday", holiday.Name).Msg("skipping holiday without a date")
			continue
		}
		day := holiday.HolidayDate.String()
		grouped[day] = append(grouped[day], holiday)
	}

	for _, group := range grouped {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Priority() < group[j].Priority()
		})
	}
	return grouped
}

// FilterHolidays keeps the holidays inside [start, end]
func FilterHolidays(holidays []Holiday, start Date, end Date) []Holiday {
	filtered := make([]Holiday, 0, len(holidays))
	for _, holiday := range holidays {
		if holiday.HolidayDate.Within(start, end) {
			filtered = append(filtered, holiday)
		}
	}
	return filtered
}

const (
	DaySunday   = "sunday"
	DaySaturday = "saturday"
	DayWeekday  = "weekday"
)

func DayType(t time.Time) string {
	switch t.Weekday() {
	case time.Sunday:
		return DaySunday
	case time.Saturday:
		return DaySaturday
	default:
		return DayWeekday
	}
}
