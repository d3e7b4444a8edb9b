package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHoliday_UnmarshalJSON(t *testing.T) {
	var list HolidayList
	err := json.Unmarshal([]byte(`{
		"year": 2025,
		"count": 2,
		"holidays": [
			{"id": 17, "name": "광복절", "holidayDate": "2025-08-15", "countryCode": "KR", "holidayType": "NATIONAL", "isRecurring": true},
			{"id": "default-2025-10-09", "name": "한글날", "holidayDate": "2025-10-09", "holidayType": "PUBLIC"}
		]
	}`), &list)
	require.NoError(t, err)

	require.Len(t, list.Holidays, 2)
	assert.Equal(t, ID("17"), list.Holidays[0].Id)
	assert.Equal(t, ID("default-2025-10-09"), list.Holidays[1].Id)
	assert.Equal(t, HolidayNational, list.Holidays[0].HolidayType)
	assert.Equal(t, "2025-08-15", list.Holidays[0].HolidayDate.String())
	assert.False(t, list.Fallback)
}

func TestHolidayPriority(t *testing.T) {
	assert.Equal(t, 1, HolidayPriority(HolidayNational))
	assert.Equal(t, 5, HolidayPriority(HolidayAnniversary))
	assert.Equal(t, 99, HolidayPriority("SOMETHING"))
}

func TestHolidayTypeName(t *testing.T) {
	assert.Equal(t, "Substitute holiday", HolidayTypeName(HolidaySubstitute))
	assert.Equal(t, "Other", HolidayTypeName(""))
}

func TestGroupHolidaysByDate(t *testing.T) {
	holidays := []Holiday{
		{Name: "memorial", HolidayDate: MustParseDate("2025-06-06"), HolidayType: HolidayMemorial},
		{Name: "national", HolidayDate: MustParseDate("2025-06-06"), HolidayType: HolidayNational},
		{Name: "other day", HolidayDate: MustParseDate("2025-06-07"), HolidayType: HolidayPublic},
		{Name: "no date", HolidayType: HolidayPublic},
	}

	grouped := GroupHolidaysByDate(holidays)
	require.Len(t, grouped, 2)
	require.Len(t, grouped["2025-06-06"], 2)
	assert.Equal(t, "national", grouped["2025-06-06"][0].Name)
	assert.Equal(t, "memorial", grouped["2025-06-06"][1].Name)
	assert.Len(t, grouped["2025-06-07"], 1)

	assert.Empty(t, GroupHolidaysByDate(nil))
}

func TestFilterHolidays(t *testing.T) {
	holidays := []Holiday{
		{Name: "a", HolidayDate: MustParseDate("2024-12-25")},
		{Name: "b", HolidayDate: MustParseDate("2025-01-01")},
		{Name: "c", HolidayDate: MustParseDate("2025-01-31")},
		{Name: "d", HolidayDate: MustParseDate("2025-03-01")},
	}
	filtered := FilterHolidays(holidays, MustParseDate("2025-01-01"), MustParseDate("2025-01-31"))
	require.Len(t, filtered, 2)
	assert.Equal(t, "b", filtered[0].Name)
	assert.Equal(t, "c", filtered[1].Name)
}

func TestDayType(t *testing.T) {
	assert.Equal(t, DaySunday, DayType(time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, DaySaturday, DayType(time.Date(2025, 1, 4, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, DayWeekday, DayType(time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)))
}

func TestHolidayStatistics(t *testing.T) {
	stats := HolidayStatistics{NewGenericResponse([]byte(`{"year":2025,"totalCount":15,"typeStatistics":{"PUBLIC":10},"monthStatistics":{"1":3}}`))}
	assert.Equal(t, int64(15), stats.TotalCount())
	assert.Equal(t, map[string]int64{"PUBLIC": 10}, stats.TypeStatistics())
	assert.Equal(t, map[string]int64{"1": 3}, stats.MonthStatistics())
}
