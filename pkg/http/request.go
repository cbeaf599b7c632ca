package http

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

type authMode int

const (
	authModeDefault authMode = iota
	authModeNoRecovery
	authModeNone
)

// Request describes one logical call, the same description is resent on replay.
type Request struct {
	ctx    context.Context
	client *ClientImpl

	Route      Route
	PathParams map[string]string
	Query      url.Values
	Header     http.Header
	Body       any

	retried  bool
	authMode authMode
}

func (r *Request) SetPathParam(name, value string) *Request {
	r.PathParams[name] = value
	return r
}

func (r *Request) SetOptionalQueryParam(name string, value *string) *Request {
	if value != nil {
		r.Query.Set(name, *value)
	}
	return r
}

func (r *Request) SetOptionalIntQueryParam(name string, value *int) *Request {
	if value != nil {
		r.Query.Set(name, strconv.Itoa(*value))
	}
	return r
}

func (r *Request) SetOptionalBoolQueryParam(name string, value *bool) *Request {
	if value != nil {
		r.Query.Set(name, strconv.FormatBool(*value))
	}
	return r
}

func (r *Request) SetHeader(key, value string) *Request {
	r.Header.Set(key, value)
	return r
}

func (r *Request) SetBody(body any) *Request {
	r.Body = body
	return r
}

// WithoutAuthRecovery keeps the bearer header but passes a 401 straight to the caller.
func (r *Request) WithoutAuthRecovery() *Request {
	r.authMode = authModeNoRecovery
	return r
}

// WithoutAuth sends the request with no bearer header and no 401 recovery.
func (r *Request) WithoutAuth() *Request {
	r.authMode = authModeNone
	return r
}

func (r *Request) Retried() bool {
	return r.retried
}

// Send returns a *StatusError for any final status >= 400, the response is returned along with it.
func (r *Request) Send() (*Response, error) {
	resp, err := r.client.send(r.ctx, r)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return resp, newStatusError(r, resp)
	}
	return resp, nil
}

func (r *Request) String() string {
	return fmt.Sprintf("%s %s", r.Route.Method, r.Route.URL)
}
