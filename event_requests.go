package calendarApi

import (
	"context"
	"strconv"

	"github.com/go-resty/resty/v2"
	"github.com/rotisserie/eris"
	"github.com/tomroth04/calendarAPI/types"
)

func decodeEventRequest(body []byte) (types.EventRequest, error) {
	var r types.EventRequest
	err := decode(pickObject(body), &r)
	return r, err
}

// SendVerificationCode mails a code that proves ownership of email before an event request
func (c *Client) SendVerificationCode(ctx context.Context, email string) (types.GenericResponse, error) {
	body, err := c.execute(
		c.request(ctx).SetBody(map[string]string{"email": email}),
		resty.MethodPost, "/event-requests/send-verification",
	)
	if err != nil {
		return types.GenericResponse{}, withFallbackMessage(err, "Failed to send the verification code.")
	}
	return types.NewGenericResponse(body), nil
}

func (c *Client) VerifyEmail(ctx context.Context, email string, code string) (types.GenericResponse, error) {
	body, err := c.execute(
		c.request(ctx).SetBody(map[string]string{"email": email, "code": code}),
		resty.MethodPost, "/event-requests/verify-email",
	)
	if err != nil {
		return types.GenericResponse{}, withFallbackMessage(err, "Email verification failed.")
	}
	return types.NewGenericResponse(body), nil
}

// SubmitEventRequest proposes an event for the calendar
func (c *Client) SubmitEventRequest(ctx context.Context, req types.EventRequest) (types.EventRequest, error) {
	if err := types.Validate(req); err != nil {
		return types.EventRequest{}, err
	}

	body, err := c.execute(c.request(ctx).SetBody(req), resty.MethodPost, "/event-requests")
	if err != nil {
		return types.EventRequest{}, withFallbackMessage(err, "Failed to submit the event request.")
	}
	return decodeEventRequest(body)
}

// GetEventRequests lists every submitted request (admin)
func (c *Client) GetEventRequests(ctx context.Context) ([]types.EventRequest, error) {
	body, err := c.execute(c.request(ctx), resty.MethodGet, "/event-requests/admin/list")
	if err != nil {
		return nil, withFallbackMessage(err, "Failed to load event requests.")
	}
	return decodeList[types.EventRequest](body, "requests", "data.requests", "data")
}

func (c *Client) GetEventRequestByID(ctx context.Context, id int64) (types.EventRequest, error) {
	body, err := c.execute(
		c.request(ctx).SetPathParam("id", strconv.FormatInt(id, 10)),
		resty.MethodGet, "/event-requests/admin/{id}",
	)
	if err != nil {
		return types.EventRequest{}, withFallbackMessage(err, "Failed to load the event request.")
	}
	return decodeEventRequest(body)
}

func (c *Client) UpdateRequestStatus(ctx context.Context, id int64, status types.RequestStatus) (types.EventRequest, error) {
	if !status.Valid() {
		return types.EventRequest{}, eris.Errorf("unknown request status %q", status)
	}

	body, err := c.execute(
		c.request(ctx).
			SetPathParam("id", strconv.FormatInt(id, 10)).
			SetBody(map[string]types.RequestStatus{"status": status}),
		resty.MethodPatch, "/event-requests/admin/{id}/status",
	)
	if err != nil {
		return types.EventRequest{}, withFallbackMessage(err, "Failed to change the request status.")
	}
	return decodeEventRequest(body)
}

func (c *Client) DeleteEventRequest(ctx context.Context, id int64) error {
	_, err := c.execute(
		c.request(ctx).SetPathParam("id", strconv.FormatInt(id, 10)),
		resty.MethodDelete, "/event-requests/admin/{id}",
	)
	return withFallbackMessage(err, "Failed to delete the event request.")
}

// ApproveEventRequest accepts a request, publishing schedule as the resulting event
func (c *Client) ApproveEventRequest(ctx context.Context, id int64, schedule types.Schedule) (types.Schedule, error) {
	if err := types.Validate(schedule); err != nil {
		return types.Schedule{}, err
	}

	body, err := c.execute(
		c.request(ctx).SetPathParam("id", strconv.FormatInt(id, 10)).SetBody(schedule),
		resty.MethodPost, "/event-requests/admin/{id}/approve",
	)
	if err != nil {
		return types.Schedule{}, withFallbackMessage(err, "Failed to approve the event request.")
	}
	return decodeSchedule(body)
}
