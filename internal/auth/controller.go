// Package auth drives the authentication flows: login, signup, logout, and
// the global forced re-authentication policy for rejected sessions.
package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hoopmatch/internal/api"
	"github.com/hoopmatch/internal/domain"
	"github.com/hoopmatch/internal/geo"
	"github.com/hoopmatch/internal/session"
)

// Controller owns the session lifecycle
type Controller struct {
	api      *api.Client
	session  *session.Store
	location *geo.Provider
	logger   *slog.Logger

	onForcedLogout []func()
}

// NewController creates an auth controller
func NewController(apiClient *api.Client, sess *session.Store, location *geo.Provider, logger *slog.Logger) *Controller {
	return &Controller{
		api:      apiClient,
		session:  sess,
		location: location,
		logger:   logger,
	}
}

// OnForcedLogout registers a callback fired when the server rejects the
// session and the forced re-auth policy clears it. Views use it to return
// to the login entry point.
func (c *Controller) OnForcedLogout(fn func()) {
	c.onForcedLogout = append(c.onForcedLogout, fn)
}

// HandleUnauthorized implements the global 401 policy: clear the persisted
// session and notify listeners. Wired into the API client; never invoked
// for login or signup themselves, whose 401s mean bad credentials rather
// than a dead session.
func (c *Controller) HandleUnauthorized() {
	if err := c.session.Clear(); err != nil {
		c.logger.Error("failed to clear rejected session", "error", err)
	}
	for _, fn := range c.onForcedLogout {
		fn()
	}
}

// Login authenticates and installs the session. The request carries the
// device's current (or fallback) coordinates so the server records the
// user's last known position at sign-in.
func (c *Controller) Login(ctx context.Context, name, password string) (*domain.User, error) {
	loc := c.location.Current(ctx)

	resp, err := c.api.Login(ctx, domain.LoginRequest{
		Name:        name,
		Password:    password,
		LocationLat: loc.Latitude,
		LocationLng: loc.Longitude,
	})
	if err != nil {
		return nil, err
	}

	user := resp.User()
	if err := c.session.Set(user, resp.Token); err != nil {
		return nil, fmt.Errorf("persisting session: %w", err)
	}

	c.logger.Info("logged in", "user_id", user.ID, "name", user.Name)
	return &user, nil
}

// Signup registers a new account and installs the session, mirroring Login
func (c *Controller) Signup(ctx context.Context, name, password string, hasBall bool) (*domain.User, error) {
	loc := c.location.Current(ctx)

	resp, err := c.api.Signup(ctx, domain.SignupRequest{
		Name:        name,
		Password:    password,
		HasBall:     hasBall,
		LocationLat: loc.Latitude,
		LocationLng: loc.Longitude,
	})
	if err != nil {
		return nil, err
	}

	user := resp.User()
	if err := c.session.Set(user, resp.Token); err != nil {
		return nil, fmt.Errorf("persisting session: %w", err)
	}

	c.logger.Info("signed up", "user_id", user.ID, "name", user.Name)
	return &user, nil
}

// Logout clears the persisted session. Purely local; the server keeps no
// session state beyond the token's own expiry.
func (c *Controller) Logout() error {
	if err := c.session.Clear(); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	c.logger.Info("logged out")
	return nil
}

// SyncLocation samples the device position, reports it to the server, and
// updates the persisted session's coordinates.
func (c *Controller) SyncLocation(ctx context.Context) (domain.Location, error) {
	if !c.session.IsAuthenticated() {
		return domain.Location{}, domain.ErrNotAuthenticated
	}

	loc := c.location.Current(ctx)
	if _, err := c.api.UpdateLocation(ctx, loc); err != nil {
		return domain.Location{}, err
	}
	if err := c.session.UpdateLocation(loc); err != nil {
		return domain.Location{}, err
	}
	return loc, nil
}
