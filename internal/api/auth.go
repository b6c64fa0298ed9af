package api

import (
	"context"
	"net/http"

	"github.com/hoopmatch/internal/domain"
)

// Login authenticates with name and password. The request carries the
// client's current (or fallback) coordinates so the server can record the
// user's last known position. No bearer token is attached.
func (c *Client) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	var resp domain.LoginResponse
	if err := c.callAuthExempt(ctx, http.MethodPost, "/users/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Signup registers a new account. No bearer token is attached.
func (c *Client) Signup(ctx context.Context, req domain.SignupRequest) (*domain.LoginResponse, error) {
	var resp domain.LoginResponse
	if err := c.callAuthExempt(ctx, http.MethodPost, "/users/signup", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateLocation reports the user's current coordinates to the server and
// returns the updated user snapshot.
func (c *Client) UpdateLocation(ctx context.Context, loc domain.Location) (*domain.User, error) {
	body := map[string]float64{
		"locationLat": loc.Latitude,
		"locationLng": loc.Longitude,
	}
	var user domain.User
	if err := c.call(ctx, http.MethodPut, "/users/location", nil, body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
