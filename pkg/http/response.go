package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

type Response struct {
	impl *resty.Response
}

func (r *Response) StatusCode() int {
	return r.impl.StatusCode()
}

func (r *Response) Body() []byte {
	return r.impl.Body()
}

func (r *Response) Header() http.Header {
	return r.impl.Header()
}

func (r *Response) Duration() time.Duration {
	return r.impl.Time()
}

type StatusError struct {
	Method  string
	Path    string
	Code    int
	Message string
	Body    []byte
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("http %s %s: status %d", e.Method, e.Path, e.Code)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func IsStatus(err error, codes ...int) bool {
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		return false
	}
	for _, code := range codes {
		if statusErr.Code == code {
			return true
		}
	}
	return false
}

func newStatusError(req *Request, resp *Response) *StatusError {
	return &StatusError{
		Method:  req.Route.Method,
		Path:    req.Route.URL,
		Code:    resp.StatusCode(),
		Message: errorMessage(resp.Body()),
		Body:    resp.Body(),
	}
}

// errorMessage reads {"message": ..., "error": ...} bodies, falls back to raw text.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		return payload.Error
	}

	const maxRawRunes = 200
	text := strings.TrimSpace(string(body))
	if runes := []rune(text); len(runes) > maxRawRunes {
		text = string(runes[:maxRawRunes])
	}
	return text
}
