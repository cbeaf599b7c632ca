package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/klwxsrx/vocab-client/internal/vocab/domain"
	pkghttp "github.com/klwxsrx/vocab-client/pkg/http"
	"github.com/klwxsrx/vocab-client/pkg/session"
)

var (
	loginRoute        = pkghttp.Route{Method: http.MethodPost, URL: "/auth/login"}
	registerRoute     = pkghttp.Route{Method: http.MethodPost, URL: "/auth/register"}
	refreshTokenRoute = pkghttp.Route{Method: http.MethodPost, URL: "/auth/refresh-token"}
	logoutRoute       = pkghttp.Route{Method: http.MethodPost, URL: "/auth/logout"}
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService struct {
	client   pkghttp.Client
	sessions *session.Manager
}

func NewAuthService(client pkghttp.Client, sessions *session.Manager) *AuthService {
	return &AuthService{client: client, sessions: sessions}
}

// Login stores the returned access token, the refresh cookie is kept by the transport.
func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	if err := domain.Validate(req); err != nil {
		return nil, err
	}

	resp, err := s.client.NewRequest(ctx, loginRoute).
		SetBody(req).
		WithoutAuthRecovery().
		Send()
	if pkghttp.IsStatus(err, http.StatusUnauthorized) {
		return nil, fmt.Errorf("auth.login: %w", ErrInvalidCredentials)
	}
	return s.startSession(ctx, "auth.login", resp, err)
}

func (s *AuthService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error) {
	if err := domain.Validate(req); err != nil {
		return nil, err
	}

	resp, err := s.client.NewRequest(ctx, registerRoute).
		SetBody(req).
		WithoutAuthRecovery().
		Send()
	return s.startSession(ctx, "auth.register", resp, err)
}

// RefreshToken renews the session explicitly and stores the new access token.
func (s *AuthService) RefreshToken(ctx context.Context) (*domain.AuthResponse, error) {
	resp, err := sendRefresh(ctx, s.client)
	return s.startSession(ctx, "auth.refreshToken", resp, err)
}

// Logout always clears the local token, the server call only drops the refresh cookie.
func (s *AuthService) Logout(ctx context.Context) error {
	_, callErr := s.client.NewRequest(ctx, logoutRoute).
		WithoutAuthRecovery().
		Send()

	if err := s.sessions.ClearToken(ctx); err != nil {
		return fmt.Errorf("auth.logout: clear token: %w", err)
	}
	return mapError("auth.logout", callErr)
}

func (s *AuthService) startSession(ctx context.Context, op string, resp *pkghttp.Response, err error) (*domain.AuthResponse, error) {
	auth, err := parsePtr[domain.AuthResponse](op, resp, err)
	if err != nil {
		return nil, err
	}
	if auth.AccessToken == "" {
		return nil, fmt.Errorf("%s: %w", op, pkghttp.ErrEmptyAccessToken)
	}

	if err := s.sessions.SetToken(ctx, auth.AccessToken); err != nil {
		return nil, fmt.Errorf("%s: store token: %w", op, err)
	}
	return auth, nil
}

// RefreshAccessToken is the gateway refresher bound to the backend refresh endpoint.
func RefreshAccessToken(ctx context.Context, client pkghttp.Client) (string, error) {
	resp, err := sendRefresh(ctx, client)
	auth, err := parse[domain.AuthResponse]("auth.refreshToken", resp, err)
	if err != nil {
		return "", err
	}
	return auth.AccessToken, nil
}

// sendRefresh carries no bearer, the refresh cookie is the only credential.
func sendRefresh(ctx context.Context, client pkghttp.Client) (*pkghttp.Response, error) {
	return client.NewRequest(ctx, refreshTokenRoute).
		WithoutAuth().
		Send()
}
