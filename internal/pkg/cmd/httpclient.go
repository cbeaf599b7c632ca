package cmd

import (
	nethttp "net/http"
	"net/url"

	"github.com/klwxsrx/vocab-client/pkg/env"
	"github.com/klwxsrx/vocab-client/pkg/http"
	"github.com/klwxsrx/vocab-client/pkg/log"
	"github.com/klwxsrx/vocab-client/pkg/metric"
)

const userAgent = "vocab-client"

type HTTPClientFactory struct {
	opts []http.ClientOption
}

func NewHTTPClientFactory(
	cfg Config,
	jar nethttp.CookieJar,
	metrics metric.Metrics,
	logger log.Logger,
) HTTPClientFactory {
	return HTTPClientFactory{opts: []http.ClientOption{
		http.WithTimeout(cfg.HTTPTimeout),
		http.WithRequestHeader("Accept", "application/json"),
		http.WithRequestHeader("User-Agent", userAgent),
		http.WithTransientRetry(cfg.HTTPRetryMaxElapsed),
		http.WithCookieJar(jar),
		http.WithRequestObservability(http.DefaultRequestIDHeader),
		http.WithRequestMetrics(metrics),
		http.WithRequestLogging(logger, log.LevelDebug, log.LevelWarn),
	}}
}

// MustInitClient resolves the base URL from <DESTINATION>_BASE_URL.
func (f HTTPClientFactory) MustInitClient(dest http.Destination, extraOpts ...http.ClientOption) http.Client {
	baseURL := env.Must(env.Parse[*url.URL](env.Key(string(dest), "baseUrl")))
	return f.InitClient(dest, baseURL.String(), extraOpts...)
}

func (f HTTPClientFactory) InitClient(dest http.Destination, baseURL string, extraOpts ...http.ClientOption) http.Client {
	opts := make([]http.ClientOption, 0, len(f.opts)+len(extraOpts)+1)
	opts = append(opts, http.WithClientDestination(dest, baseURL))
	opts = append(opts, f.opts...)
	opts = append(opts, extraOpts...)
	return http.NewClient(opts...)
}
