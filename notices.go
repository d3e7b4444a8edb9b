package calendarApi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-resty/resty/v2"
	"github.com/tomroth04/calendarAPI/types"
)

const defaultActiveNotices = 2

func decodeNotice(body []byte) (types.Notice, error) {
	var n types.Notice
	err := decode(pickObject(body), &n)
	return n, err
}

// GetActiveNotices lists the notices shown to visitors, 2 when limit is not positive
func (c *Client) GetActiveNotices(ctx context.Context, limit int) ([]types.Notice, error) {
	if limit <= 0 {
		limit = defaultActiveNotices
	}

	body, err := c.execute(
		c.request(ctx).SetQueryParam("limit", strconv.Itoa(limit)),
		resty.MethodGet, "/notices/active",
	)
	if err != nil {
		err = withStatusMessage(err, http.StatusBadRequest, "Invalid request, the notice endpoint may not be available on this server.")
		err = withStatusMessage(err, http.StatusNotFound, "The notice endpoint could not be found.")
		return nil, withFallbackMessage(err, "Failed to load notices.")
	}
	return decodeList[types.Notice](body, "notices", "data.notices", "data")
}

// GetAllNotices lists every notice, active or not (admin)
func (c *Client) GetAllNotices(ctx context.Context) ([]types.Notice, error) {
	body, err := c.execute(c.request(ctx), resty.MethodGet, "/notices/admin/all")
	if err != nil {
		return nil, withFallbackMessage(err, "Failed to load the notice list.")
	}
	return decodeList[types.Notice](body, "notices", "data.notices", "data")
}

func (c *Client) GetNoticeByID(ctx context.Context, id int64) (types.Notice, error) {
	body, err := c.execute(
		c.request(ctx).SetPathParam("id", strconv.FormatInt(id, 10)),
		resty.MethodGet, "/notices/{id}",
	)
	if err != nil {
		return types.Notice{}, withFallbackMessage(err, "Failed to load the notice.")
	}
	return decodeNotice(body)
}

func (c *Client) CreateNotice(ctx context.Context, notice types.Notice) (types.Notice, error) {
	if err := types.Validate(notice); err != nil {
		return types.Notice{}, err
	}

	body, err := c.execute(c.request(ctx).SetBody(notice), resty.MethodPost, "/notices/admin")
	if err != nil {
		return types.Notice{}, withFallbackMessage(err, "Failed to create the notice.")
	}
	return decodeNotice(body)
}

func (c *Client) UpdateNotice(ctx context.Context, id int64, notice types.Notice) (types.Notice, error) {
	if err := types.Validate(notice); err != nil {
		return types.Notice{}, err
	}

	body, err := c.execute(
		c.request(ctx).SetPathParam("id", strconv.FormatInt(id, 10)).SetBody(notice),
		resty.MethodPut, "/notices/admin/{id}",
	)
	if err != nil {
		return types.Notice{}, withFallbackMessage(err, "Failed to update the notice.")
	}
	return decodeNotice(body)
}

func (c *Client) DeleteNotice(ctx context.Context, id int64) error {
	_, err := c.execute(
		c.request(ctx).SetPathParam("id", strconv.FormatInt(id, 10)),
		resty.MethodDelete, "/notices/admin/{id}",
	)
	return withFallbackMessage(err, "Failed to delete the notice.")
}

// ToggleNoticeStatus flips a notice between active and inactive, returning it as updated
func (c *Client) ToggleNoticeStatus(ctx context.Context, id int64) (types.Notice, error) {
	body, err := c.execute(
		c.request(ctx).SetPathParam("id", strconv.FormatInt(id, 10)),
		resty.MethodPatch, "/notices/admin/{id}/toggle",
	)
	if err != nil {
		return types.Notice{}, withFallbackMessage(err, "Failed to change the notice status.")
	}
	return decodeNotice(body)
}
