package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	custom_error "github.com/opalaxis/beamsolopex-companion/pkg/errors"
	"github.com/opalaxis/beamsolopex-companion/pkg/models"
)

const LoginPath = "/auth/login"

var ErrLoginFailed = errors.New("login failed")

// Login exchanges credentials for a token. The credentials travel as query
// parameters, which is what the backend reads them from. A rejected login
// does not count as an expired session.
func (c *Client) Login(ctx context.Context, email, password string) (models.LoginResponse, error) {
	var resp models.LoginResponse
	query := url.Values{"email": {email}, "password": {password}}

	err := c.do(ctx, request{method: http.MethodPost, path: LoginPath, query: query, anonymous: true}, &resp)
	if err != nil {
		var apiErr *custom_error.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			return resp, err
		}
		return resp, errors.Join(ErrLoginFailed, err)
	}
	if resp.Token == "" {
		return resp, ErrLoginFailed
	}
	if resp.Roles == nil {
		resp.Roles = []string{}
	}
	if resp.Permissions == nil {
		resp.Permissions = []string{}
	}
	return resp, nil
}
