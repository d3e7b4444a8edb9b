package calendarApi

import (
	"fmt"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/tomroth04/calendarAPI/types"
)

const fallbackHolidayColor = "#FF6B6B"

// koreanFixedHolidays are the fixed-date Korean holidays used when the
// backend cannot deliver its own data. Lunar holidays are not part of it.
var koreanFixedHolidays = []*cal.Holiday{
	{Name: "신정", Description: "새해 첫날", Type: cal.ObservancePublic, Month: time.January, Day: 1, Func: cal.CalcDayOfMonth},
	{Name: "삼일절", Description: "3·1운동 기념일", Type: cal.ObservancePublic, Month: time.March, Day: 1, Func: cal.CalcDayOfMonth},
	{Name: "어린이날", Description: "어린이날", Type: cal.ObservancePublic, Month: time.May, Day: 5, Func: cal.CalcDayOfMonth},
	{Name: "현충일", Description: "호국영령 추념일", Type: cal.ObservancePublic, Month: time.June, Day: 6, Func: cal.CalcDayOfMonth},
	{Name: "광복절", Description: "일제강점기 해방 기념일", Type: cal.ObservancePublic, Month: time.August, Day: 15, Func: cal.CalcDayOfMonth},
	{Name: "개천절", Description: "단군왕검 건국 기념일", Type: cal.ObservancePublic, Month: time.October, Day: 3, Func: cal.CalcDayOfMonth},
	{Name: "한글날", Description: "한글 창제 기념일", Type: cal.ObservancePublic, Month: time.October, Day: 9, Func: cal.CalcDayOfMonth},
	{Name: "크리스마스", Description: "성탄절", Type: cal.ObservancePublic, Month: time.December, Day: 25, Func: cal.CalcDayOfMonth},
}

// DefaultKoreanHolidays returns the built-in table for year
func DefaultKoreanHolidays(year int) types.HolidayList {
	holidays := make([]types.Holiday, 0, len(koreanFixedHolidays))
	for _, h := range koreanFixedHolidays {
		actual, _ := h.Calc(year)
		if actual.IsZero() {
			continue
		}
		day := types.NewDate(actual.Year(), actual.Month(), actual.Day())
		holidays = append(holidays, types.Holiday{
			Id:          types.ID(fmt.Sprintf("default-%s", day)),
			Name:        h.Name,
			HolidayDate: day,
			CountryCode: "KR",
			HolidayType: types.HolidayPublic,
			Description: h.Description,
			IsRecurring: true,
			Color:       fallbackHolidayColor,
		})
	}

	return types.HolidayList{
		Year:     year,
		Holidays: holidays,
		Count:    len(holidays),
		Fallback: true,
	}
}

// DefaultKoreanHolidaysForRange returns the built-in holidays inside [start, end]
func DefaultKoreanHolidaysForRange(start types.Date, end types.Date) types.HolidayRange {
	var all []types.Holiday
	for year := start.Year(); year <= end.Year(); year++ {
		all = append(all, DefaultKoreanHolidays(year).Holidays...)
	}

	filtered := types.FilterHolidays(all, start, end)
	return types.HolidayRange{
		StartDate: start,
		EndDate:   end,
		Holidays:  filtered,
		Count:     len(filtered),
		Fallback:  true,
	}
}

// fallbackYear is the built-in table for Korea, an empty list anywhere else
func fallbackYear(year int, countryCode string) types.HolidayList {
	if countryCode != "KR" {
		return types.HolidayList{Year: year, Holidays: []types.Holiday{}, Fallback: true}
	}
	return DefaultKoreanHolidays(year)
}

func fallbackRange(start types.Date, end types.Date, countryCode string) types.HolidayRange {
	if countryCode != "KR" {
		return types.HolidayRange{StartDate: start, EndDate: end, Holidays: []types.Holiday{}, Fallback: true}
	}
	return DefaultKoreanHolidaysForRange(start, end)
}
