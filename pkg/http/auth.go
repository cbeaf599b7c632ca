package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/klwxsrx/vocab-client/pkg/log"
	"github.com/klwxsrx/vocab-client/pkg/metric"
	"github.com/klwxsrx/vocab-client/pkg/session"
)

var ErrEmptyAccessToken = errors.New("refresh returned empty access token")

// TokenRefresher obtains a new access token, the client passed in is the one being recovered.
type TokenRefresher func(ctx context.Context, client Client) (string, error)

type AuthOption func(*authGateway)

func WithAuthLogger(logger log.Logger) AuthOption {
	return func(g *authGateway) {
		g.logger = logger
	}
}

func WithAuthMetrics(metrics metric.Metrics) AuthOption {
	return func(g *authGateway) {
		g.metrics = metrics
	}
}

// WithAuthRefresh attaches the session bearer token to every request and recovers
// from an expired token with a single in-flight refresh shared by all callers.
func WithAuthRefresh(sessions *session.Manager, refresher TokenRefresher, opts ...AuthOption) ClientOption {
	return func(c *ClientImpl) {
		g := &authGateway{
			client:    c,
			sessions:  sessions,
			refresher: refresher,
			logger:    log.New(log.LevelDisabled),
			metrics:   metric.NewMetricsStub(),
		}
		for _, opt := range opts {
			opt(g)
		}

		c.middlewares = append(c.middlewares, g.middleware)
	}
}

type authGateway struct {
	client    *ClientImpl
	sessions  *session.Manager
	refresher TokenRefresher
	logger    log.Logger
	metrics   metric.Metrics
}

func (g *authGateway) middleware(next SendFunc) SendFunc {
	return func(ctx context.Context, req *Request) (*Response, error) {
		if req.authMode == authModeNone {
			req.Header.Del(HeaderAuthorization)
			return next(ctx, req)
		}

		sentToken, err := g.sessions.Token(ctx)
		if err != nil {
			return nil, err
		}
		setBearer(req, sentToken)

		resp, err := next(ctx, req)
		if err != nil ||
			resp.StatusCode() != http.StatusUnauthorized ||
			req.retried ||
			req.authMode == authModeNoRecovery {
			return resp, err
		}

		return g.recover(ctx, req, sentToken, resp, next)
	}
}

func (g *authGateway) recover(
	ctx context.Context,
	req *Request,
	sentToken string,
	unauthorized *Response,
	next SendFunc,
) (*Response, error) {
	current, err := g.sessions.Token(ctx)
	if err != nil {
		return nil, err
	}
	if current != sentToken {
		if current == "" {
			return unauthorized, nil
		}
		return g.replay(ctx, req, current, next)
	}

	for {
		if wait, ok := g.sessions.EnqueueWaiter(); ok {
			g.metrics.Increment("http_client_auth_waiters_total")
			select {
			case result := <-wait:
				if result.Err != nil {
					return nil, result.Err
				}
				return g.replay(ctx, req, result.Token, next)
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if g.sessions.BeginRefresh() {
			return g.refresh(ctx, req, sentToken, next)
		}
	}
}

func (g *authGateway) refresh(ctx context.Context, req *Request, sentToken string, next SendFunc) (*Response, error) {
	req.retried = true
	refreshCtx := context.WithoutCancel(ctx)

	// another caller may have completed a cycle between the 401 and BeginRefresh
	if current, err := g.sessions.Token(refreshCtx); err == nil && current != "" && current != sentToken {
		g.sessions.SettleRefresh(current, nil)
		return g.replay(ctx, req, current, next)
	}

	g.logger.Info(ctx, "access token rejected, refreshing session")
	token, err := g.refresher(refreshCtx, g.client)
	if err == nil && token == "" {
		err = ErrEmptyAccessToken
	}
	if err == nil {
		err = g.sessions.SetToken(refreshCtx, token)
	}
	if err != nil {
		return nil, g.teardown(refreshCtx, err)
	}

	waiters := g.sessions.SettleRefresh(token, nil)
	g.metrics.With(metric.Labels{"outcome": "success"}).Increment("http_client_auth_refresh_total")
	g.logger.WithField("waiters", waiters).Info(ctx, "session refreshed")

	return g.replay(ctx, req, token, next)
}

func (g *authGateway) teardown(ctx context.Context, cause error) error {
	err := fmt.Errorf("%w: %w", session.ErrRefreshRejected, cause)

	// the token goes first, a late 401 must not find the flag cleared and the old token still stored
	if clearErr := g.sessions.ClearToken(ctx); clearErr != nil {
		g.logger.WithError(clearErr).Error(ctx, "failed to clear session token")
	}
	waiters := g.sessions.SettleRefresh("", err)

	entry := g.logger.WithError(cause).WithField("waiters", waiters)
	if IsStatus(cause, http.StatusForbidden) {
		entry.Warn(ctx, "refresh credential expired, redirecting to login")
	} else {
		entry.Warn(ctx, "session refresh failed, redirecting to login")
	}
	g.metrics.With(metric.Labels{"outcome": "failure"}).Increment("http_client_auth_refresh_total")

	g.sessions.RedirectToLogin(ctx)
	return err
}

func (g *authGateway) replay(ctx context.Context, req *Request, token string, next SendFunc) (*Response, error) {
	req.retried = true
	setBearer(req, token)
	return next(ctx, req)
}

func setBearer(req *Request, token string) {
	if token == "" {
		req.Header.Del(HeaderAuthorization)
		return
	}
	req.Header.Set(HeaderAuthorization, "Bearer "+token)
}
