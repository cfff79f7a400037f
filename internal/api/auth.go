package api

import (
	"context"
	"net/url"

	"github.com/nkosarev/vidgen/internal/models"
)

// AuthClient is the slice of the auth API the session manager consumes.
type AuthClient interface {
	Login(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, username, email, password string) (*RegisterResult, error)
	Profile(ctx context.Context) (*models.User, error)
}

// RegisterResult is the response to POST /users/register. The backend may
// or may not include a user object alongside the token.
type RegisterResult struct {
	Token string
	User  *models.User
}

// Auth wraps the /users endpoints.
type Auth struct {
	t *Transport
}

func NewAuth(t *Transport) *Auth {
	return &Auth{t: t}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login exchanges credentials for a bearer token. The backend expects
// form-encoded fields here, unlike the rest of the API.
func (a *Auth) Login(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var tr tokenResponse
	if err := a.t.PostForm(ctx, "/users/login", form, &tr); err != nil {
		return "", err
	}
	return tr.AccessToken, nil
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        *struct {
		ID       string `json:"id"`
		UserID   string `json:"user_id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	} `json:"user"`
}

// Register creates an account and returns the issued token plus whatever
// user record the backend chose to include.
func (a *Auth) Register(ctx context.Context, username, email, password string) (*RegisterResult, error) {
	req := registerRequest{Username: username, Email: email, Password: password}

	var rr registerResponse
	if err := a.t.PostJSON(ctx, "/users/register", req, &rr); err != nil {
		return nil, err
	}

	res := &RegisterResult{Token: rr.AccessToken}
	if rr.User != nil {
		id := rr.User.ID
		if id == "" {
			id = rr.User.UserID
		}
		res.User = &models.User{ID: id, Username: rr.User.Username, Email: rr.User.Email}
	}
	return res, nil
}

type profileResponse struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Profile fetches the authenticated user. The backend names the id field
// inconsistently ("id" vs "user_id"); both are probed, first one wins.
func (a *Auth) Profile(ctx context.Context) (*models.User, error) {
	var pr profileResponse
	if err := a.t.GetJSON(ctx, "/users/profile", &pr); err != nil {
		return nil, err
	}

	id := pr.ID
	if id == "" {
		id = pr.UserID
	}
	return &models.User{ID: id, Username: pr.Username, Email: pr.Email}, nil
}
