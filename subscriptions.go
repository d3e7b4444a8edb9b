package calendarApi

import (
	"context"
	"strconv"

	"github.com/go-resty/resty/v2"
	"github.com/tomroth04/calendarAPI/types"
)

func decodeSubscribers(body []byte) ([]types.Subscriber, error) {
	return decodeList[types.Subscriber](body, "subscribers", "data.subscribers", "data")
}

// Subscribe registers an address for the newsletter. The backend answers
// with a confirmation mail, the subscription is active once confirmed.
func (c *Client) Subscribe(ctx context.Context, req types.SubscriptionRequest) (types.GenericResponse, error) {
	if err := types.Validate(req); err != nil {
		return types.GenericResponse{}, err
	}

	body, err := c.execute(c.request(ctx).SetBody(req), resty.MethodPost, "/email-subscriptions")
	if err != nil {
		return types.GenericResponse{}, withFallbackMessage(err, "Failed to register the subscription.")
	}
	return types.NewGenericResponse(body), nil
}

func (c *Client) ConfirmSubscription(ctx context.Context, token string) (types.GenericResponse, error) {
	body, err := c.execute(
		c.request(ctx).SetPathParam("token", token),
		resty.MethodPost, "/email-subscriptions/confirm/{token}",
	)
	if err != nil {
		return types.GenericResponse{}, withFallbackMessage(err, "Failed to confirm the subscription.")
	}
	return types.NewGenericResponse(body), nil
}

func (c *Client) Unsubscribe(ctx context.Context, token string) (types.GenericResponse, error) {
	body, err := c.execute(
		c.request(ctx).SetPathParam("token", token),
		resty.MethodPost, "/email-subscriptions/unsubscribe/{token}",
	)
	if err != nil {
		return types.GenericResponse{}, withFallbackMessage(err, "Failed to cancel the subscription.")
	}
	return types.NewGenericResponse(body), nil
}

// GetSubscribers lists every subscriber (admin). A failure yields an empty list.
func (c *Client) GetSubscribers(ctx context.Context) []types.Subscriber {
	body, err := c.execute(c.request(ctx), resty.MethodGet, "/email-subscriptions/admin")
	if err != nil {
		c.logger.Warn().Err(err).Msg("failed to load subscribers")
		return []types.Subscriber{}
	}

	subscribers, err := decodeSubscribers(body)
	if err != nil {
		c.logger.Warn().Err(err).Msg("failed to decode subscribers")
		return []types.Subscriber{}
	}
	return subscribers
}

func (c *Client) DeleteSubscriber(ctx context.Context, id int64) error {
	_, err := c.execute(
		c.request(ctx).SetPathParam("id", strconv.FormatInt(id, 10)),
		resty.MethodDelete, "/email-subscriptions/{id}",
	)
	return withFallbackMessage(err, "Failed to delete the subscriber.")
}

func (c *Client) UpdateSubscriberStatus(ctx context.Context, id int64, active bool) (types.GenericResponse, error) {
	body, err := c.execute(
		c.request(ctx).
			SetPathParam("id", strconv.FormatInt(id, 10)).
			SetBody(map[string]bool{"isActive": active}),
		resty.MethodPatch, "/email-subscriptions/{id}/status",
	)
	if err != nil {
		return types.GenericResponse{}, withFallbackMessage(err, "Failed to change the subscriber status.")
	}
	return types.NewGenericResponse(body), nil
}

func (c *Client) GetActiveSubscribers(ctx context.Context) ([]types.Subscriber, error) {
	body, err := c.execute(c.request(ctx), resty.MethodGet, "/email-subscriptions/active")
	if err != nil {
		return nil, withFallbackMessage(err, "Failed to load active subscribers.")
	}
	return decodeSubscribers(body)
}

func (c *Client) GetSubscriptionStats(ctx context.Context) (types.GenericResponse, error) {
	body, err := c.execute(c.request(ctx), resty.MethodGet, "/email-subscriptions/stats")
	if err != nil {
		return types.GenericResponse{}, withFallbackMessage(err, "Failed to load subscriber statistics.")
	}
	return types.NewGenericResponse(body).Data(), nil
}
