package http

import (
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

const DefaultRequestIDHeader = "X-Request-ID"

// WithRequestObservability propagates the context request id, a random one is generated when absent.
func WithRequestObservability(requestIDHeaderName string) ClientOption {
	return func(c *ClientImpl) {
		c.RESTClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			id, ok := RequestID(req.Context())
			if !ok {
				id = uuid.NewString()
			}

			req.SetHeader(requestIDHeaderName, id)
			return nil
		})
	}
}
