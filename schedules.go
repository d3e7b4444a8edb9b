package calendarApi

import (
	"context"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"github.com/tomroth04/calendarAPI/types"
)

const (
	defaultUpcomingDays = 7
	defaultListLimit    = 10
)

func decodeSchedules(body []byte) ([]types.Schedule, error) {
	return decodeList[types.Schedule](body, "schedules", "data.schedules", "data")
}

func decodeSchedule(body []byte) (types.Schedule, error) {
	var s types.Schedule
	err := decode(pickObject(body), &s)
	return s, err
}

// GetAllSchedules lists every schedule ordered by sortBy (types.SortByDate
// when empty). Network and server failures are retried twice, waiting a
// little longer before each new attempt.
func (c *Client) GetAllSchedules(ctx context.Context, sortBy string) ([]types.Schedule, error) {
	if sortBy == "" {
		sortBy = types.SortByDate
	}

	var body []byte
	attempt := 0
	operation := func() error {
		attempt++
		var err error
		body, err = c.execute(
			c.request(ctx).SetQueryParam("sortBy", sortBy),
			resty.MethodGet, "/schedules",
		)
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		c.logger.Warn().Err(err).
			Int("attempt", attempt).
			Dur("retryIn", wait).
			Msg("schedule list failed, retrying")
	}

	if err := backoff.RetryNotify(operation, newRetryPolicy(ctx, c.retryStep, scheduleRetryAttempts), notify); err != nil {
		return nil, withFallbackMessage(err, "Failed to load schedules.")
	}
	return decodeSchedules(body)
}

func (c *Client) GetScheduleByID(ctx context.Context, id int64) (types.Schedule, error) {
	body, err := c.execute(
		c.request(ctx).SetPathParam("id", strconv.FormatInt(id, 10)),
		resty.MethodGet, "/schedules/{id}",
	)
	if err != nil {
		return types.Schedule{}, withFallbackMessage(err, "Failed to load the schedule.")
	}
	return decodeSchedule(body)
}

// CreateSchedule adds a schedule (admin)
func (c *Client) CreateSchedule(ctx context.Context, schedule types.Schedule) (types.Schedule, error) {
	if err := types.Validate(schedule); err != nil {
		return types.Schedule{}, err
	}

	body, err := c.execute(c.request(ctx).SetBody(schedule), resty.MethodPost, "/schedules")
	if err != nil {
		return types.Schedule{}, withFallbackMessage(err, "Failed to add the schedule.")
	}
	return decodeSchedule(body)
}

// UpdateSchedule replaces a schedule (admin)
func (c *Client) UpdateSchedule(ctx context.Context, id int64, schedule types.Schedule) (types.Schedule, error) {
	if err := types.Validate(schedule); err != nil {
		return types.Schedule{}, err
	}

	body, err := c.execute(
		c.request(ctx).SetPathParam("id", strconv.FormatInt(id, 10)).SetBody(schedule),
		resty.MethodPut, "/schedules/{id}",
	)
	if err != nil {
		return types.Schedule{}, withFallbackMessage(err, "Failed to update the schedule.")
	}
	return decodeSchedule(body)
}

// DeleteSchedule removes a schedule (admin)
func (c *Client) DeleteSchedule(ctx context.Context, id int64) error {
	_, err := c.execute(
		c.request(ctx).SetPathParam("id", strconv.FormatInt(id, 10)),
		resty.MethodDelete, "/schedules/{id}",
	)
	return withFallbackMessage(err, "Failed to delete the schedule.")
}

func (c *Client) listSchedules(req *resty.Request, path string, failure string) ([]types.Schedule, error) {
	body, err := c.execute(req, resty.MethodGet, path)
	if err != nil {
		return nil, withFallbackMessage(err, failure)
	}
	return decodeSchedules(body)
}

func (c *Client) GetSchedulesByDate(ctx context.Context, date types.Date) ([]types.Schedule, error) {
	return c.listSchedules(
		c.request(ctx).SetPathParam("date", date.String()),
		"/schedules/date/{date}", "Failed to load the schedules of this day.",
	)
}

// GetSchedulesByMonth lists the schedules of a month, month is 1-12
func (c *Client) GetSchedulesByMonth(ctx context.Context, year int, month int) ([]types.Schedule, error) {
	schedules, err := c.listSchedules(
		c.request(ctx).SetPathParams(map[string]string{
			"year":  strconv.Itoa(year),
			"month": strconv.Itoa(month),
		}),
		"/schedules/month/{year}/{month}", "Failed to load the schedules of this month.",
	)
	if err != nil {
		c.logger.Error().Err(err).Int("year", year).Int("month", month).Msg("monthly schedules failed")
		return nil, err
	}
	c.logger.Debug().Int("year", year).Int("month", month).Int("count", len(schedules)).Msg("monthly schedules loaded")
	return schedules, nil
}

// GetSchedulesByDateRange lists the schedules inside [start, end]
func (c *Client) GetSchedulesByDateRange(ctx context.Context, start types.Date, end types.Date) ([]types.Schedule, error) {
	return c.listSchedules(
		c.request(ctx).SetQueryParams(map[string]string{
			"start": start.String(),
			"end":   end.String(),
		}),
		"/schedules/range", "Failed to load schedules.",
	)
}

// GetUpcomingSchedules lists the schedules of the next days, 7 when days is not positive
func (c *Client) GetUpcomingSchedules(ctx context.Context, days int) ([]types.Schedule, error) {
	if days <= 0 {
		days = defaultUpcomingDays
	}
	return c.listSchedules(
		c.request(ctx).SetQueryParam("days", strconv.Itoa(days)),
		"/schedules/upcoming", "Failed to load upcoming schedules.",
	)
}

func (c *Client) GetFeaturedSchedules(ctx context.Context, limit int) ([]types.Schedule, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return c.listSchedules(
		c.request(ctx).SetQueryParam("limit", strconv.Itoa(limit)),
		"/schedules/featured", "Failed to load featured events.",
	)
}

func (c *Client) GetTodaySchedules(ctx context.Context) ([]types.Schedule, error) {
	return c.listSchedules(c.request(ctx), "/schedules/today", "Failed to load today's schedules.")
}

func (c *Client) SearchSchedules(ctx context.Context, title string) ([]types.Schedule, error) {
	return c.listSchedules(
		c.request(ctx).SetQueryParam("title", title),
		"/schedules/search", "Failed to search schedules.",
	)
}

func (c *Client) GetRecentSchedules(ctx context.Context, limit int) ([]types.Schedule, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return c.listSchedules(
		c.request(ctx).SetQueryParam("limit", strconv.Itoa(limit)),
		"/schedules/recent", "Failed to load recent schedules.",
	)
}

// GetScheduleStats returns the admin statistics document as sent by the backend
func (c *Client) GetScheduleStats(ctx context.Context) (types.GenericResponse, error) {
	body, err := c.execute(c.request(ctx), resty.MethodGet, "/schedules/stats")
	if err != nil {
		return types.GenericResponse{}, withFallbackMessage(err, "Failed to load schedule statistics.")
	}
	return types.NewGenericResponse(body).Data(), nil
}

// CheckHealth calls the backend health endpoint
func (c *Client) CheckHealth(ctx context.Context) (types.GenericResponse, error) {
	body, err := c.execute(c.request(ctx), resty.MethodGet, "/schedules/health")
	if err != nil {
		return types.GenericResponse{}, withMessage(err, "Unable to reach the server.")
	}
	return types.NewGenericResponse(body), nil
}
