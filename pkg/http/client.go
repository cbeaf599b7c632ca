package http

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
)

const (
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"

	contentTypeJSON = "application/json"
)

type (
	Destination string

	Route struct {
		Method string
		URL    string
	}

	ClientOption func(*ClientImpl)

	SendFunc       func(ctx context.Context, req *Request) (*Response, error)
	SendMiddleware func(next SendFunc) SendFunc

	Client interface {
		NewRequest(ctx context.Context, route Route) *Request
		With(opts ...ClientOption) Client
	}

	ClientImpl struct {
		DestinationName string
		RESTClient      *resty.Client

		middlewares []SendMiddleware
		retryPolicy func() backoff.BackOff
		opts        []ClientOption
	}
)

func NewClient(opts ...ClientOption) Client {
	client := &ClientImpl{
		RESTClient: resty.New().SetHeader(HeaderContentType, contentTypeJSON),
		opts:       opts,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

func (c *ClientImpl) NewRequest(ctx context.Context, route Route) *Request {
	return &Request{
		ctx:        ctx,
		client:     c,
		Route:      route,
		PathParams: map[string]string{},
		Query:      url.Values{},
		Header:     http.Header{},
	}
}

func (c *ClientImpl) With(opts ...ClientOption) Client {
	mergedOpts := make([]ClientOption, 0, len(c.opts)+len(opts))
	mergedOpts = append(mergedOpts, c.opts...)
	mergedOpts = append(mergedOpts, opts...)
	return NewClient(mergedOpts...)
}

func (c *ClientImpl) send(ctx context.Context, req *Request) (*Response, error) {
	send := c.execute
	for i := len(c.middlewares) - 1; i >= 0; i-- {
		send = c.middlewares[i](send)
	}
	return send(ctx, req)
}

func (c *ClientImpl) execute(ctx context.Context, req *Request) (*Response, error) {
	if c.retryPolicy == nil || !isIdempotent(req.Route.Method) {
		return c.executeOnce(ctx, req)
	}

	var resp *Response
	err := backoff.Retry(func() error {
		var err error
		resp, err = c.executeOnce(ctx, req)
		if err != nil && ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(c.retryPolicy(), ctx))
	return resp, err
}

func (c *ClientImpl) executeOnce(ctx context.Context, req *Request) (*Response, error) {
	ctx = withClientMetadata(ctx, &clientMetadata{
		Route:       req.Route,
		Destination: c.DestinationName,
	})

	restReq := c.RESTClient.R().
		SetContext(ctx).
		SetHeaderMultiValues(req.Header).
		SetPathParams(req.PathParams).
		SetQueryParamsFromValues(req.Query)
	if req.Body != nil {
		restReq.SetBody(req.Body)
	}

	resp, err := restReq.Execute(req.Route.Method, req.Route.URL)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Route.Method, req.Route.URL, err)
	}
	return &Response{impl: resp}, nil
}

func WithClientDestination(name Destination, baseURL string) ClientOption {
	return func(c *ClientImpl) {
		c.DestinationName = string(name)
		c.RESTClient.SetBaseURL(baseURL)
	}
}

func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *ClientImpl) {
		if timeout > 0 {
			c.RESTClient.SetTimeout(timeout)
		}
	}
}

func WithCookieJar(jar http.CookieJar) ClientOption {
	return func(c *ClientImpl) {
		c.RESTClient.SetCookieJar(jar)
	}
}

func WithRequestHeader(key, value string) ClientOption {
	return func(c *ClientImpl) {
		c.RESTClient.SetHeader(key, value)
	}
}

func WithMiddleware(mw SendMiddleware) ClientOption {
	return func(c *ClientImpl) {
		c.middlewares = append(c.middlewares, mw)
	}
}

// WithTransientRetry retries idempotent requests failed at the transport level,
// responses with any status code are never retried.
func WithTransientRetry(maxElapsed time.Duration) ClientOption {
	return func(c *ClientImpl) {
		if maxElapsed <= 0 {
			return
		}

		c.retryPolicy = func() backoff.BackOff {
			eb := backoff.NewExponentialBackOff()
			eb.InitialInterval = 200 * time.Millisecond
			eb.MaxInterval = maxElapsed / 4
			eb.MaxElapsedTime = maxElapsed
			return eb
		}
	}
}

func isIdempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodPut, http.MethodDelete:
		return true
	default:
		return false
	}
}
