package calendarApi

import (
	"context"

	"github.com/go-resty/resty/v2"
	"github.com/pquerna/otp/totp"
	"github.com/rotisserie/eris"
	"github.com/tidwall/gjson"
	"github.com/tomroth04/calendarAPI/types"
)

var ErrNoToken = eris.New("no admin token")

// RequestTempPassword asks the backend to mail a temporary password to an admin address
func (c *Client) RequestTempPassword(ctx context.Context, email string) (types.GenericResponse, error) {
	body, err := c.execute(
		c.request(ctx).SetBody(map[string]string{"email": email}),
		resty.MethodPost, "/admin/request-temp-password",
	)
	if err != nil {
		return types.GenericResponse{}, withServerMessage(err, "Failed to request a temporary password.")
	}
	return types.NewGenericResponse(body), nil
}

// Login signs in with a temporary password and keeps the returned token for
// every following request.
func (c *Client) Login(ctx context.Context, email string, password string) (types.AdminSession, error) {
	body, err := c.execute(
		c.request(ctx).SetBody(map[string]string{
			"email":        email,
			"tempPassword": password,
		}),
		resty.MethodPost, "/admin/login",
	)
	if err != nil {
		return types.AdminSession{}, withServerMessage(err, "Login failed.")
	}

	res := gjson.ParseBytes(body)
	session := types.AdminSession{
		Token:   res.Get("token").String(),
		Email:   res.Get("email").String(),
		Message: res.Get("message").String(),
	}
	if session.Token == "" {
		session.Token = res.Get("data.token").String()
	}
	if session.Email == "" {
		session.Email = email
	}

	if session.Token != "" {
		c.tokens.Set(session.Token)
		c.logger.Info().Str("email", email).Msg("admin logged in")
	}
	return session, nil
}

// LoginTOTP logs in with a password derived from a shared TOTP secret, for
// deployments where the temporary password is time based.
func (c *Client) LoginTOTP(ctx context.Context, email string, secret string) (types.AdminSession, error) {
	code, err := totp.GenerateCode(secret, c.now())
	if err != nil {
		return types.AdminSession{}, eris.Wrap(err, "error generating one-time password")
	}
	return c.Login(ctx, email, code)
}

// CheckAuth verifies the held token with the backend. A rejected token is dropped.
func (c *Client) CheckAuth(ctx context.Context) (types.AdminProfile, error) {
	if !c.tokens.Has() {
		return types.AdminProfile{}, ErrNoToken
	}

	body, err := c.execute(c.request(ctx), resty.MethodGet, "/admin/me")
	if err != nil {
		return types.AdminProfile{}, withMessage(err, "Token verification failed.")
	}

	var profile types.AdminProfile
	if err := decode(pickObject(body), &profile); err != nil {
		return types.AdminProfile{}, err
	}
	return profile, nil
}

// Logout ends the session. The token is dropped even when the backend cannot be told.
func (c *Client) Logout(ctx context.Context) {
	defer c.tokens.Clear()

	if _, err := c.execute(c.request(ctx), resty.MethodPost, "/admin/logout"); err != nil {
		c.logger.Warn().Err(err).Msg("logout request failed")
	}
	c.logger.Info().Msg("admin logged out")
}
