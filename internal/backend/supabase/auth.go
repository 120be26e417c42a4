package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/mahdyhasan/augmind/internal/backend"
)

type authAPI struct {
	c *Client
}

func (a *authAPI) post(ctx context.Context, path string, payload interface{}, bearer string, dest interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	headers := map[string]string{"Content-Type": "application/json"}
	if bearer != "" {
		headers["Authorization"] = "Bearer " + bearer
	}
	resp, err := a.c.do(ctx, http.MethodPost, path, bytes.NewReader(body), headers)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return a.c.decode(resp, dest)
}

func (a *authAPI) SignInWithPassword(ctx context.Context, email, password string) (*backend.Session, error) {
	var session backend.Session
	err := a.post(ctx, "/auth/v1/token?grant_type=password", map[string]string{
		"email":    email,
		"password": password,
	}, "", &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// signUpResponse covers both provider shapes: a bare identity when email
// confirmation is pending, a full session otherwise.
type signUpResponse struct {
	backend.Identity
	User *backend.Identity `json:"user"`
}

func (a *authAPI) SignUp(ctx context.Context, email, password string, metadata map[string]interface{}) (*backend.Identity, error) {
	var res signUpResponse
	err := a.post(ctx, "/auth/v1/signup", map[string]interface{}{
		"email":    email,
		"password": password,
		"data":     metadata,
	}, "", &res)
	if err != nil {
		return nil, err
	}
	if res.User != nil {
		return res.User, nil
	}
	return &res.Identity, nil
}

func (a *authAPI) SignOut(ctx context.Context, accessToken string) error {
	headers := map[string]string{"Authorization": "Bearer " + accessToken}
	resp, err := a.c.do(ctx, http.MethodPost, "/auth/v1/logout", nil, headers)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return a.c.checkStatus(resp)
}

func (a *authAPI) GetUser(ctx context.Context, accessToken string) (*backend.Identity, error) {
	headers := map[string]string{"Authorization": "Bearer " + accessToken}
	resp, err := a.c.do(ctx, http.MethodGet, "/auth/v1/user", nil, headers)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var identity backend.Identity
	if err := a.c.decode(resp, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

func (a *authAPI) RefreshSession(ctx context.Context, refreshToken string) (*backend.Session, error) {
	var session backend.Session
	err := a.post(ctx, "/auth/v1/token?grant_type=refresh_token", map[string]string{
		"refresh_token": refreshToken,
	}, "", &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (a *authAPI) UpdateUser(ctx context.Context, accessToken string, attrs backend.UserAttributes) (*backend.Identity, error) {
	body, err := json.Marshal(attrs)
	if err != nil {
		return nil, err
	}
	headers := map[string]string{
		"Content-Type":  "application/json",
		"Authorization": "Bearer " + accessToken,
	}
	resp, err := a.c.do(ctx, http.MethodPut, "/auth/v1/user", bytes.NewReader(body), headers)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var identity backend.Identity
	if err := a.c.decode(resp, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

func (a *authAPI) AdminCreateUser(ctx context.Context, email, password string, metadata map[string]interface{}) (*backend.Identity, error) {
	if a.c.serviceKey == "" {
		return nil, &backend.Error{Code: backend.CodeServiceKeyMissing, Status: 0, Message: "admin user creation requires a service key"}
	}
	var identity backend.Identity
	err := a.post(ctx, "/auth/v1/admin/users", map[string]interface{}{
		"email":         email,
		"password":      password,
		"email_confirm": true,
		"user_metadata": metadata,
	}, a.c.serviceKey, &identity)
	if err != nil {
		return nil, err
	}
	return &identity, nil
}

func (a *authAPI) AdminDeleteUser(ctx context.Context, id string) error {
	if a.c.serviceKey == "" {
		return &backend.Error{Code: backend.CodeServiceKeyMissing, Status: 0, Message: "admin user deletion requires a service key"}
	}
	headers := map[string]string{"Authorization": "Bearer " + a.c.serviceKey}
	resp, err := a.c.do(ctx, http.MethodDelete, "/auth/v1/admin/users/"+id, nil, headers)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return a.c.checkStatus(resp)
}
