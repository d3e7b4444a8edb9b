package calendarApi

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomroth04/calendarAPI/types"
)

const januaryHolidays = `{"holidays":[
	{"id":1,"name":"Boxing Day","holidayDate":"2024-12-26","countryCode":"KR","holidayType":"PUBLIC"},
	{"id":2,"name":"New Year","holidayDate":"2025-01-01","countryCode":"KR","holidayType":"NATIONAL"},
	{"id":3,"name":"Seollal","holidayDate":"2025-01-29","countryCode":"KR","holidayType":"NATIONAL"},
	{"id":4,"name":"Seollal holiday","holidayDate":"2025-01-31","countryCode":"KR","holidayType":"SUBSTITUTE"},
	{"id":5,"name":"Independence Day","holidayDate":"2025-03-01","countryCode":"KR","holidayType":"NATIONAL"}
]}`

func TestGetHolidaysByDateRange_InclusiveWindow(t *testing.T) {
	var query map[string]string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/holidays/range", r.URL.Path)
		query = map[string]string{
			"startDate":   r.URL.Query().Get("startDate"),
			"endDate":     r.URL.Query().Get("endDate"),
			"countryCode": r.URL.Query().Get("countryCode"),
		}
		writeJSON(w, http.StatusOK, januaryHolidays)
	}))

	start, end := types.MustParseDate("2025-01-01"), types.MustParseDate("2025-01-31")
	r := c.GetHolidaysByDateRange(context.Background(), start, end, "")

	assert.Equal(t, map[string]string{"startDate": "2025-01-01", "endDate": "2025-01-31", "countryCode": "KR"}, query)
	assert.False(t, r.Fallback)
	require.Equal(t, 3, r.Count)

	var days []string
	for _, h := range r.Holidays {
		days = append(days, h.HolidayDate.String())
		assert.False(t, h.HolidayDate.Before(start))
		assert.False(t, h.HolidayDate.After(end))
	}
	assert.Equal(t, []string{"2025-01-01", "2025-01-29", "2025-01-31"}, days)
}

func TestGetHolidaysByDateRange_CacheHit(t *testing.T) {
	var calls atomic.Int32
	clock := newFakeClock(time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC))
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusOK, januaryHolidays)
	}), WithClock(clock.Now))

	start, end := types.MustParseDate("2025-01-01"), types.MustParseDate("2025-01-31")
	first := c.GetHolidaysByDateRange(context.Background(), start, end, "KR")
	second := c.GetHolidaysByDateRange(context.Background(), start, end, "KR")

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, first, second)
	assert.True(t, c.Cache().Contains(rangeCacheKey(start, end, "KR")))

	clock.Advance(30 * time.Minute)
	c.GetHolidaysByDateRange(context.Background(), start, end, "KR")
	assert.Equal(t, int32(2), calls.Load())
}

func TestGetHolidaysByDateRange_FallbackOnFailure(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, `{}`)
	}))

	start, end := types.MustParseDate("2025-01-01"), types.MustParseDate("2025-03-31")
	r := c.GetHolidaysByDateRange(context.Background(), start, end, "KR")

	assert.True(t, r.Fallback)
	require.Equal(t, 2, r.Count)
	assert.Equal(t, "2025-01-01", r.Holidays[0].HolidayDate.String())
	assert.Equal(t, "2025-03-01", r.Holidays[1].HolidayDate.String())

	// fallback results are not cached
	assert.False(t, c.Cache().Contains(rangeCacheKey(start, end, "KR")))

	_, err := c.FetchHolidaysByDateRange(context.Background(), start, end, "KR")
	assert.Equal(t, KindServer, KindOf(err))
}

func TestGetHolidaysByYear(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/api/holidays/year/2025", r.URL.Path)
		assert.Equal(t, "KR", r.URL.Query().Get("countryCode"))
		writeJSON(w, http.StatusOK, `{"data":{"holidays":[
			{"id":"a1","name":"New Year","holidayDate":"2025-01-01","holidayType":"NATIONAL"}
		]}}`)
	}))

	list := c.GetHolidaysByYear(context.Background(), 2025, "")
	require.Equal(t, 1, list.Count)
	assert.Equal(t, types.ID("a1"), list.Holidays[0].Id)
	assert.False(t, list.Fallback)

	c.GetHolidaysByYear(context.Background(), 2025, "KR")
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetHolidaysByYear_FallbackOnFailure(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusServiceUnavailable, `{}`)
	}))

	assert.Equal(t, DefaultKoreanHolidays(2025), c.GetHolidaysByYear(context.Background(), 2025, "KR"))

	other := c.GetHolidaysByYear(context.Background(), 2025, "JP")
	assert.True(t, other.Fallback)
	assert.Empty(t, other.Holidays)
}

func TestGetHolidaysByDate(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/holidays/date/2025-01-01":
			writeJSON(w, http.StatusOK, `[{"id":2,"name":"New Year","holidayDate":"2025-01-01","holidayType":"NATIONAL"}]`)
		default:
			writeJSON(w, http.StatusNotFound, `{}`)
		}
	}))

	got := c.GetHolidaysByDate(context.Background(), types.MustParseDate("2025-01-01"))
	assert.True(t, got.IsHoliday)
	assert.Equal(t, 1, got.Count)

	got = c.GetHolidaysByDate(context.Background(), types.MustParseDate("2025-01-02"))
	assert.False(t, got.IsHoliday)
	assert.NotNil(t, got.Holidays)
	assert.Empty(t, got.Holidays)
}

func TestGetHolidaysByMonthAndToday(t *testing.T) {
	clock := newFakeClock(time.Date(2025, 5, 5, 8, 0, 0, 0, time.UTC))
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/holidays/month/2025/5":
			writeJSON(w, http.StatusOK, `{"holidays":[{"id":1,"name":"어린이날","holidayDate":"2025-05-05","holidayType":"NATIONAL"},{"id":2,"name":"부처님오신날","holidayDate":"2025-05-05","holidayType":"NATIONAL"}]}`)
		case "/api/holidays/today":
			writeJSON(w, http.StatusOK, `{"holidays":[{"id":1,"name":"어린이날","holidayDate":"2025-05-05","holidayType":"NATIONAL"}]}`)
		default:
			writeJSON(w, http.StatusInternalServerError, `{}`)
		}
	}), WithClock(clock.Now))

	month := c.GetHolidaysByMonth(context.Background(), 2025, 5)
	assert.Equal(t, 2, month.Count)
	assert.Equal(t, 5, month.Month)

	month = c.GetHolidaysByMonth(context.Background(), 2025, 6)
	assert.Equal(t, 0, month.Count)
	assert.NotNil(t, month.Holidays)

	today := c.GetTodayHolidays(context.Background())
	assert.True(t, today.IsHoliday)
	assert.Equal(t, "2025-05-05", today.Date.String())
}

func TestCreateHoliday(t *testing.T) {
	var received map[string]any
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/holidays", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		if received["name"] == "Duplicate" {
			writeJSON(w, http.StatusConflict, `{}`)
			return
		}
		writeJSON(w, http.StatusCreated, `{"data":{"id":42,"name":"Founding Day","holidayDate":"2025-10-03","holidayType":"NATIONAL"}}`)
	}))
	c.Cache().Set(yearCacheKey(2025, "KR"), types.HolidayList{})

	holiday := types.Holiday{
		Name:        "Founding Day",
		HolidayDate: types.MustParseDate("2025-10-03"),
		CountryCode: "KR",
		HolidayType: types.HolidayNational,
		Color:       "#FF6B6B",
	}
	created, err := c.CreateHoliday(context.Background(), holiday)
	require.NoError(t, err)
	assert.Equal(t, types.ID("42"), created.Id)
	assert.Equal(t, "2025-10-03", received["holidayDate"])
	assert.Equal(t, 0, c.Cache().Status().Size)

	holiday.Name = "Duplicate"
	_, err = c.CreateHoliday(context.Background(), holiday)
	require.Error(t, err)
	assert.Equal(t, "This holiday already exists.", ErrorMessage(err))
}

func TestCreateHoliday_Validation(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	_, err := c.CreateHoliday(context.Background(), types.Holiday{Name: " ", HolidayType: "HARVEST", Color: "red"})
	require.Error(t, err)

	var validationErr *types.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Len(t, validationErr.Errors, 4)
	assert.Equal(t, int32(0), calls.Load())
}

func TestUpdateAndDeleteHoliday_NotFound(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/holidays/7", r.URL.Path)
		writeJSON(w, http.StatusNotFound, `{}`)
	}))

	holiday := types.Holiday{Name: "x", HolidayDate: types.MustParseDate("2025-01-01"), HolidayType: types.HolidayPublic}
	_, err := c.UpdateHoliday(context.Background(), "7", holiday)
	assert.Equal(t, "This holiday does not exist.", ErrorMessage(err))

	err = c.DeleteHoliday(context.Background(), "7")
	assert.Equal(t, "This holiday does not exist.", ErrorMessage(err))
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestGetHolidayStatistics(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/admin/holidays/stats/2025" {
			writeJSON(w, http.StatusOK, `{"success":true,"data":{"year":2025,"totalCount":15,"typeStatistics":{"NATIONAL":11,"SUBSTITUTE":4},"monthStatistics":{"1":3,"5":2}}}`)
			return
		}
		writeJSON(w, http.StatusInternalServerError, `{}`)
	}))

	stats := c.GetHolidayStatistics(context.Background(), 2025)
	assert.Equal(t, int64(15), stats.TotalCount())
	assert.Equal(t, map[string]int64{"NATIONAL": 11, "SUBSTITUTE": 4}, stats.TypeStatistics())
	assert.Equal(t, int64(2), stats.MonthStatistics()["5"])

	empty := c.GetHolidayStatistics(context.Background(), 2030)
	assert.Equal(t, int64(0), empty.TotalCount())
	assert.Empty(t, empty.TypeStatistics())
}

func TestSyncHolidaysFromPublicAPI(t *testing.T) {
	var synced []string
	clock := newFakeClock(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/admin/holidays/sync/2026":
			assert.Equal(t, http.MethodPost, r.Method)
			synced = append(synced, r.URL.Path)
			writeJSON(w, http.StatusOK, `{"success":true,"message":"15 holidays imported"}`)
		case "/api/admin/holidays/test-connection/2026":
			writeJSON(w, http.StatusBadGateway, `{"message":"service key rejected"}`)
		default:
			writeJSON(w, http.StatusNotFound, `{}`)
		}
	}), WithClock(clock.Now))
	c.Cache().Set("holidays-year-2026-KR", types.HolidayList{})

	res, err := c.SyncCurrentYearHolidays(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "15 holidays imported", res.Message())
	assert.Len(t, synced, 1)
	assert.Equal(t, 0, c.Cache().Status().Size)

	_, err = c.TestPublicAPIConnection(context.Background(), 2026)
	assert.Equal(t, "service key rejected", ErrorMessage(err))
}
