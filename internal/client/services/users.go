package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/riskcheck/console/internal/client/api"
	"github.com/riskcheck/console/internal/client/models"
	"github.com/riskcheck/console/internal/common"
)

// UserService manages the signed-in user's own account.
type UserService interface {
	UpdateProfile(ctx context.Context, name, email string) (*models.User, error)
	DeleteAccount(ctx context.Context) error
}

type userService struct {
	client *api.Client
	auth   AuthService
}

func NewUserService(client *api.Client, auth AuthService) UserService {
	return &userService{client: client, auth: auth}
}

// profileResponse accepts the updated profile either as envelope data or,
// as older backends send it, at the root of the body.
type profileResponse struct {
	api.Envelope[*models.User]
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u *userService) UpdateProfile(ctx context.Context, name, email string) (*models.User, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" || email == "" {
		return nil, common.ErrEmptyValue
	}

	r, err := api.NewJSONRequest(http.MethodPut, "/user/me", map[string]string{"name": name, "email": email})
	if err != nil {
		return nil, err
	}
	resp, err := u.client.Do(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("update profile error: %w", err)
	}

	const endpoint = "PUT /user/me"
	pr, err := api.Decode[profileResponse](endpoint, resp.Body)
	if err != nil {
		return nil, err
	}
	switch {
	case pr.Data != nil && pr.Data.Email != "":
		return pr.Data, nil
	case pr.Email != "":
		return &models.User{Name: pr.Name, Email: pr.Email}, nil
	}
	return nil, &api.DecodeError{Endpoint: endpoint, Err: errors.New("no profile in response")}
}

// DeleteAccount deletes the account, signs out locally and drops the
// account's cookies.
func (u *userService) DeleteAccount(ctx context.Context) error {
	if _, err := u.client.Do(ctx, api.Request{Method: http.MethodDelete, Path: "/user/me"}); err != nil {
		return fmt.Errorf("delete account error: %w", err)
	}
	// The backend session is gone with the account; only the local clear matters.
	if err := u.auth.Logout(ctx); err != nil && !errors.Is(err, api.ErrUnauthorized) && !errors.Is(err, api.ErrRefreshFailed) {
		return err
	}
	if err := u.client.ClearCookies(ctx); err != nil {
		return fmt.Errorf("clear cookies: %w", err)
	}
	return nil
}
