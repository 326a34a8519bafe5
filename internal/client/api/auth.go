package api

import (
	"context"
	"net/http"

	"github.com/atinyakov/ShelterDesk/internal/models"
)

// AdminLogin checks the admin credentials. A rejected login is reported
// through Result.Success, not the error.
func (c *Client) AdminLogin(ctx context.Context, username, password string) (models.Result, error) {
	return c.result(ctx, "admin login", http.MethodPost, "/api/admin/login",
		models.Credentials{Username: username, Password: password})
}

// UserLogin authenticates a site member by e-mail.
func (c *Client) UserLogin(ctx context.Context, email, password string) (models.LoginResult, error) {
	var res models.LoginResult
	err := c.write(ctx, "user login", http.MethodPost, "/api/users/login",
		models.Credentials{Email: email, Password: password}, &res)
	return res, err
}

// UserSignup registers a new site member.
func (c *Client) UserSignup(ctx context.Context, s models.Signup) (models.Result, error) {
	return c.result(ctx, "user signup", http.MethodPost, "/api/users/signup", s)
}

// SubmitAdoption posts the public adoption form.
func (c *Client) SubmitAdoption(ctx context.Context, a models.PublicAdoption) (models.Result, error) {
	return c.result(ctx, "submit adoption", http.MethodPost, "/api/"+Adoptions, a)
}

// SubmitDonation posts the public donation form.
func (c *Client) SubmitDonation(ctx context.Context, d models.PublicDonation) (models.Result, error) {
	return c.result(ctx, "submit donation", http.MethodPost, "/api/"+Donations, d)
}
