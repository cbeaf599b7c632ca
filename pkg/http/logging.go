package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/klwxsrx/vocab-client/pkg/log"
)

const (
	destinationNameLogField = "destinationName"
	requestLogEntry         = "request"
)

func WithRequestLogging(logger log.Logger, infoLevel, errorLevel log.Level) ClientOption {
	return func(c *ClientImpl) {
		c.RESTClient.SetLogger(restyLoggerAdapter{logger})

		c.RESTClient.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
			ctx := resp.Request.Context()
			entry := logger.With(log.Fields{
				requestLogEntry: requestFields(ctx, resp.Request.Method, resp.StatusCode()),
			})

			if resp.StatusCode() >= http.StatusInternalServerError {
				entry.Log(ctx, errorLevel, "http call completed with internal error")
			} else {
				entry.Log(ctx, infoLevel, "http call completed")
			}
			return nil
		})

		c.RESTClient.OnError(func(req *resty.Request, err error) {
			ctx := req.Context()
			logger.
				With(log.Fields{requestLogEntry: requestFields(ctx, req.Method, 0)}).
				WithError(err).
				Log(ctx, errorLevel, "http call completed with error")
		})
	}
}

func requestFields(ctx context.Context, method string, code int) log.Fields {
	meta := getClientMetadata(ctx)
	destination := meta.Destination
	if destination == "" {
		destination = "-"
	}

	fields := log.Fields{
		destinationNameLogField: destination,
		"method":                method,
		"route":                 meta.Route.URL,
	}
	if code != 0 {
		fields["code"] = code
	}
	if id, ok := RequestID(ctx); ok {
		fields["requestID"] = id
	}
	return fields
}

type restyLoggerAdapter struct {
	logger log.Logger
}

func (l restyLoggerAdapter) Errorf(format string, v ...any) {
	l.logger.Error(context.Background(), fmt.Sprintf(format, v...))
}

func (l restyLoggerAdapter) Warnf(format string, v ...any) {
	l.logger.Warn(context.Background(), fmt.Sprintf(format, v...))
}

func (l restyLoggerAdapter) Debugf(format string, v ...any) {
	l.logger.Debug(context.Background(), fmt.Sprintf(format, v...))
}
