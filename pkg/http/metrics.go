package http

import (
	"strconv"

	"github.com/go-resty/resty/v2"

	"github.com/klwxsrx/vocab-client/pkg/metric"
)

func WithRequestMetrics(metrics metric.Metrics) ClientOption {
	return func(c *ClientImpl) {
		c.RESTClient.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
			meta := getClientMetadata(resp.Request.Context())
			destination := meta.Destination
			if destination == "" {
				destination = "none"
			}

			metrics.With(metric.Labels{
				"destination": destination,
				"method":      resp.Request.Method,
				"path":        meta.Route.URL,
				"code":        strconv.Itoa(resp.StatusCode()),
			}).Duration("http_client_request_duration_seconds", resp.Time())
			return nil
		})
	}
}
