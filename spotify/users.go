package spotify

import (
	"context"
	"net/http"
)

// UserClient reads user profiles.
type UserClient struct {
	d *Dispatcher
}

func NewUserClient(d *Dispatcher) *UserClient {
	return &UserClient{d: d}
}

// CurrentUser returns the profile of the user who granted the session.
func (c *UserClient) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.d.sendJSON(ctx, NewRequest(http.MethodGet, c.d.URL("/me")), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// User returns the public profile of id.
func (c *UserClient) User(ctx context.Context, id string) (*User, error) {
	id, err := requireID("user", id)
	if err != nil {
		return nil, err
	}

	var user User
	if err := c.d.sendJSON(ctx, NewRequest(http.MethodGet, c.d.URL("/users/"+id)), &user); err != nil {
		return nil, err
	}
	return &user, nil
}
