package calendarApi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"github.com/tomroth04/calendarAPI/types"
)

func (c *Client) country(countryCode string) string {
	if countryCode == "" {
		return c.cfg.CountryCode
	}
	return countryCode
}

func (c *Client) today() types.Date {
	return types.DateOf(c.now())
}

// decodeHolidays reads the holiday array of a list answer, bare arrays included
func decodeHolidays(body []byte) ([]types.Holiday, error) {
	return decodeList[types.Holiday](body, "holidays", "data.holidays", "data")
}

// FetchHolidaysByYear returns the backend's holidays for year, served from the
// cache while fresh. Unlike GetHolidaysByYear it reports failures.
func (c *Client) FetchHolidaysByYear(ctx context.Context, year int, countryCode string) (types.HolidayList, error) {
	countryCode = c.country(countryCode)
	key := yearCacheKey(year, countryCode)

	if cached, ok := c.cache.Get(key); ok {
		if list, ok := cached.(types.HolidayList); ok {
			c.logger.Debug().Int("year", year).Msg("holidays served from cache")
			return list, nil
		}
	}

	body, err := c.execute(
		c.request(ctx).
			SetPathParam("year", strconv.Itoa(year)).
			SetQueryParam("countryCode", countryCode),
		resty.MethodGet, "/holidays/year/{year}",
	)
	if err != nil {
		return types.HolidayList{}, withFallbackMessage(err, "failed to load holidays")
	}

	holidays, err := decodeHolidays(body)
	if err != nil {
		return types.HolidayList{}, err
	}

	list := types.HolidayList{Year: year, Holidays: holidays, Count: len(holidays)}
	c.cache.Set(key, list)
	c.logger.Info().Int("year", year).Int("count", list.Count).Msg("holidays loaded")
	return list, nil
}

// GetHolidaysByYear never fails: when the backend cannot answer, the built-in
// table is returned with Fallback set.
func (c *Client) GetHolidaysByYear(ctx context.Context, year int, countryCode string) types.HolidayList {
	list, err := c.FetchHolidaysByYear(ctx, year, countryCode)
	if err != nil {
		c.logger.Warn().Err(err).Int("year", year).Msg("using default holidays")
		return fallbackYear(year, c.country(countryCode))
	}
	return list
}

// FetchHolidaysByDateRange returns the holidays inside [start, end], both ends included
func (c *Client) FetchHolidaysByDateRange(ctx context.Context, start types.Date, end types.Date, countryCode string) (types.HolidayRange, error) {
	countryCode = c.country(countryCode)
	key := rangeCacheKey(start, end, countryCode)

	if cached, ok := c.cache.Get(key); ok {
		if r, ok := cached.(types.HolidayRange); ok {
			c.logger.Debug().Stringer("start", start).Stringer("end", end).Msg("holidays served from cache")
			return r, nil
		}
	}

	body, err := c.execute(
		c.request(ctx).SetQueryParams(map[string]string{
			"startDate":   start.String(),
			"endDate":     end.String(),
			"countryCode": countryCode,
		}),
		resty.MethodGet, "/holidays/range",
	)
	if err != nil {
		return types.HolidayRange{}, withFallbackMessage(err, "failed to load holidays")
	}

	holidays, err := decodeHolidays(body)
	if err != nil {
		return types.HolidayRange{}, err
	}

	holidays = types.FilterHolidays(holidays, start, end)
	r := types.HolidayRange{StartDate: start, EndDate: end, Holidays: holidays, Count: len(holidays)}
	c.cache.Set(key, r)
	c.logger.Info().Stringer("start", start).Stringer("end", end).Int("count", r.Count).Msg("holidays loaded")
	return r, nil
}

// GetHolidaysByDateRange never fails, see GetHolidaysByYear
func (c *Client) GetHolidaysByDateRange(ctx context.Context, start types.Date, end types.Date, countryCode string) types.HolidayRange {
	r, err := c.FetchHolidaysByDateRange(ctx, start, end, countryCode)
	if err != nil {
		c.logger.Warn().Err(err).Stringer("start", start).Stringer("end", end).Msg("using default holidays")
		return fallbackRange(start, end, c.country(countryCode))
	}
	return r
}

// GetHolidaysByDate answers an empty result when the backend fails
func (c *Client) GetHolidaysByDate(ctx context.Context, date types.Date) types.HolidaysOnDate {
	empty := types.HolidaysOnDate{Date: date, Holidays: []types.Holiday{}}

	body, err := c.execute(
		c.request(ctx).SetPathParam("date", date.String()),
		resty.MethodGet, "/holidays/date/{date}",
	)
	if err != nil {
		c.logger.Warn().Err(err).Stringer("date", date).Msg("failed to load holidays for date")
		return empty
	}
	return holidaysOnDate(body, date)
}

// GetTodayHolidays answers an empty result when the backend fails
func (c *Client) GetTodayHolidays(ctx context.Context) types.HolidaysOnDate {
	today := c.today()
	empty := types.HolidaysOnDate{Date: today, Holidays: []types.Holiday{}}

	body, err := c.execute(c.request(ctx), resty.MethodGet, "/holidays/today")
	if err != nil {
		c.logger.Warn().Err(err).Msg("failed to load today's holidays")
		return empty
	}
	return holidaysOnDate(body, today)
}

func holidaysOnDate(body []byte, date types.Date) types.HolidaysOnDate {
	holidays, err := decodeHolidays(body)
	if err != nil {
		return types.HolidaysOnDate{Date: date, Holidays: []types.Holiday{}}
	}
	return types.HolidaysOnDate{
		Date:      date,
		Holidays:  holidays,
		Count:     len(holidays),
		IsHoliday: len(holidays) > 0,
	}
}

// GetHolidaysByMonth answers an empty result when the backend fails. month is 1-12.
func (c *Client) GetHolidaysByMonth(ctx context.Context, year int, month int) types.HolidayMonth {
	result := types.HolidayMonth{Year: year, Month: month, Holidays: []types.Holiday{}}

	body, err := c.execute(
		c.request(ctx).SetPathParams(map[string]string{
			"year":  strconv.Itoa(year),
			"month": strconv.Itoa(month),
		}),
		resty.MethodGet, "/holidays/month/{year}/{month}",
	)
	if err != nil {
		c.logger.Warn().Err(err).Int("year", year).Int("month", month).Msg("failed to load holidays for month")
		return result
	}

	holidays, err := decodeHolidays(body)
	if err != nil {
		return result
	}
	result.Holidays = holidays
	result.Count = len(holidays)
	return result
}

// CreateHoliday adds a holiday (admin). The cache is dropped on success.
func (c *Client) CreateHoliday(ctx context.Context, holiday types.Holiday) (types.Holiday, error) {
	if err := types.Validate(holiday); err != nil {
		return types.Holiday{}, err
	}

	body, err := c.execute(c.request(ctx).SetBody(holiday), resty.MethodPost, "/holidays")
	if err != nil {
		err = withStatusMessage(err, http.StatusConflict, "This holiday already exists.")
		return types.Holiday{}, withFallbackMessage(err, "Failed to add the holiday.")
	}
	c.cache.InvalidateAll()

	var created types.Holiday
	if err := decode(pickObject(body), &created); err != nil {
		return types.Holiday{}, err
	}
	return created, nil
}

// UpdateHoliday replaces a holiday (admin). The cache is dropped on success.
func (c *Client) UpdateHoliday(ctx context.Context, id types.ID, holiday types.Holiday) (types.Holiday, error) {
	if err := types.Validate(holiday); err != nil {
		return types.Holiday{}, err
	}

	body, err := c.execute(
		c.request(ctx).SetPathParam("id", id.String()).SetBody(holiday),
		resty.MethodPut, "/holidays/{id}",
	)
	if err != nil {
		err = withStatusMessage(err, http.StatusNotFound, "This holiday does not exist.")
		return types.Holiday{}, withFallbackMessage(err, "Failed to update the holiday.")
	}
	c.cache.InvalidateAll()

	var updated types.Holiday
	if err := decode(pickObject(body), &updated); err != nil {
		return types.Holiday{}, err
	}
	return updated, nil
}

// DeleteHoliday removes a holiday (admin). The cache is dropped on success.
func (c *Client) DeleteHoliday(ctx context.Context, id types.ID) error {
	_, err := c.execute(
		c.request(ctx).SetPathParam("id", id.String()),
		resty.MethodDelete, "/holidays/{id}",
	)
	if err != nil {
		err = withStatusMessage(err, http.StatusNotFound, "This holiday does not exist.")
		return withFallbackMessage(err, "Failed to delete the holiday.")
	}
	c.cache.InvalidateAll()
	return nil
}

// GetHolidayStatistics returns the admin statistics for year, empty ones when the backend fails
func (c *Client) GetHolidayStatistics(ctx context.Context, year int) types.HolidayStatistics {
	body, err := c.execute(
		c.request(ctx).SetPathParam("year", strconv.Itoa(year)),
		resty.MethodGet, "/admin/holidays/stats/{year}",
	)
	if err != nil {
		c.logger.Warn().Err(err).Int("year", year).Msg("failed to load holiday statistics")
		return emptyHolidayStatistics(year)
	}

	stats := types.NewGenericResponse(body).Data()
	if !stats.Exists() {
		return emptyHolidayStatistics(year)
	}
	return types.HolidayStatistics{GenericResponse: stats}
}

func emptyHolidayStatistics(year int) types.HolidayStatistics {
	raw := `{"year":` + strconv.Itoa(year) + `,"totalCount":0,"typeStatistics":{},"monthStatistics":{}}`
	return types.HolidayStatistics{GenericResponse: types.GenericResponse{R: gjson.Parse(raw)}}
}

// TestPublicAPIConnection asks the backend to check the public holiday data service (admin)
func (c *Client) TestPublicAPIConnection(ctx context.Context, year int) (types.GenericResponse, error) {
	body, err := c.execute(
		c.request(ctx).SetPathParam("year", strconv.Itoa(year)),
		resty.MethodGet, "/admin/holidays/test-connection/{year}",
	)
	if err != nil {
		return types.GenericResponse{}, withServerMessage(err, "Public holiday API connection test failed.")
	}
	return types.NewGenericResponse(body), nil
}

// SyncHolidaysFromPublicAPI makes the backend import year from the public
// holiday data service (admin). The cache is dropped on success.
func (c *Client) SyncHolidaysFromPublicAPI(ctx context.Context, year int) (types.GenericResponse, error) {
	body, err := c.execute(
		c.request(ctx).SetPathParam("year", strconv.Itoa(year)),
		resty.MethodPost, "/admin/holidays/sync/{year}",
	)
	if err != nil {
		return types.GenericResponse{}, withFallbackMessage(err, "Failed to synchronise holidays for "+strconv.Itoa(year)+".")
	}
	c.cache.InvalidateAll()
	c.logger.Info().Int("year", year).Msg("holidays synchronised from public api")
	return types.NewGenericResponse(body), nil
}

// SyncCurrentYearHolidays synchronises the year of the client's clock
func (c *Client) SyncCurrentYearHolidays(ctx context.Context) (types.GenericResponse, error) {
	return c.SyncHolidaysFromPublicAPI(ctx, c.now().Year())
}

// ClearHolidayCache drops every cached holiday answer
func (c *Client) ClearHolidayCache() {
	c.cache.InvalidateAll()
	c.logger.Info().Msg("holiday cache cleared")
}
