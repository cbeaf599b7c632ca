package api

import (
	"context"
	"net/http"

	"github.com/klwxsrx/vocab-client/internal/vocab/domain"
	pkghttp "github.com/klwxsrx/vocab-client/pkg/http"
)

var (
	currentUserRoute    = pkghttp.Route{Method: http.MethodGet, URL: "/users/me"}
	changePasswordRoute = pkghttp.Route{Method: http.MethodPatch, URL: "/users/me/change-password"}
)

type UserService struct {
	client pkghttp.Client
}

func NewUserService(client pkghttp.Client) *UserService {
	return &UserService{client: client}
}

func (s *UserService) GetCurrentUser(ctx context.Context) (*domain.User, error) {
	resp, err := s.client.NewRequest(ctx, currentUserRoute).Send()
	return parsePtr[domain.User]("user.getCurrentUser", resp, err)
}

func (s *UserService) ChangePassword(ctx context.Context, req domain.ChangePasswordRequest) (*domain.GenericMessageResponse, error) {
	if err := domain.Validate(req); err != nil {
		return nil, err
	}

	resp, err := s.client.NewRequest(ctx, changePasswordRoute).
		SetBody(req).
		Send()
	return parsePtr[domain.GenericMessageResponse]("user.changePassword", resp, err)
}
