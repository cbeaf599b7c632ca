package cmd

import (
	"context"
	"fmt"
	"io"
	nethttp "net/http"
	"net/http/cookiejar"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/klwxsrx/vocab-client/pkg/http"
	"github.com/klwxsrx/vocab-client/pkg/lazy"
	"github.com/klwxsrx/vocab-client/pkg/log"
	"github.com/klwxsrx/vocab-client/pkg/metric"
	"github.com/klwxsrx/vocab-client/pkg/session"
	"github.com/klwxsrx/vocab-client/pkg/tokenstore"
)

const metricsNamespace = "vocab"

type InfrastructureContainer struct {
	Config            Config
	HTTPClientFactory lazy.Loader[HTTPClientFactory]
	TokenStore        lazy.Loader[session.TokenStore]
	CookieJar         lazy.Loader[nethttp.CookieJar]
	MetricsServer     lazy.Loader[http.Server]
	MetricsRegistry   lazy.Loader[*prometheus.Registry]
	Metrics           lazy.Loader[metric.Metrics]
	Logger            lazy.Loader[log.Logger]
}

func NewInfrastructureContainer(ctx context.Context, cfg Config, logger log.Logger) *InfrastructureContainer {
	loggerLoader := lazy.Value(logger)
	registry := metricsRegistryProvider()
	metrics := metricsProvider(registry)
	jar := cookieJarProvider(cfg, loggerLoader)

	return &InfrastructureContainer{
		Config:            cfg,
		HTTPClientFactory: httpClientFactoryProvider(cfg, jar, metrics, loggerLoader),
		TokenStore:        tokenStoreProvider(ctx, cfg),
		CookieJar:         jar,
		MetricsServer:     metricsServerProvider(cfg, registry),
		MetricsRegistry:   registry,
		Metrics:           metrics,
		Logger:            loggerLoader,
	}
}

func (i *InfrastructureContainer) Close(ctx context.Context) {
	i.TokenStore.IfLoaded(func(store session.TokenStore) {
		closer, ok := store.(io.Closer)
		if !ok {
			return
		}
		if err := closer.Close(); err != nil {
			i.Logger.MustLoad().WithError(err).Warn(ctx, "failed to close token store")
		}
	})
}

func metricsRegistryProvider() lazy.Loader[*prometheus.Registry] {
	return lazy.New(func() (*prometheus.Registry, error) {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		return registry, nil
	})
}

func metricsProvider(registry lazy.Loader[*prometheus.Registry]) lazy.Loader[metric.Metrics] {
	return lazy.New(func() (metric.Metrics, error) {
		return metric.NewPrometheus(metricsNamespace, registry.MustLoad()), nil
	})
}

func metricsServerProvider(cfg Config, registry lazy.Loader[*prometheus.Registry]) lazy.Loader[http.Server] {
	return lazy.New(func() (http.Server, error) {
		if cfg.MetricsAddress == "" {
			return nil, fmt.Errorf("metrics server address %s is not set", EnvKey("metricsAddr"))
		}
		return http.NewMetricsServer(cfg.MetricsAddress, registry.MustLoad()), nil
	})
}

// cookieJarProvider persists the refresh cookie to CookieFile for every persistent token store.
// The memory store or an empty CookieFile gets an in-memory jar.
func cookieJarProvider(cfg Config, logger lazy.Loader[log.Logger]) lazy.Loader[nethttp.CookieJar] {
	return lazy.New(func() (nethttp.CookieJar, error) {
		if cfg.TokenStore == TokenStoreMemory || cfg.CookieFile == "" {
			return cookiejar.New(nil)
		}

		return http.NewFileCookieJar(cfg.CookieFile, func(err error) {
			logger.MustLoad().WithError(err).Warn(context.Background(), "failed to persist cookies")
		})
	})
}

func tokenStoreProvider(ctx context.Context, cfg Config) lazy.Loader[session.TokenStore] {
	return lazy.New(func() (session.TokenStore, error) {
		switch cfg.TokenStore {
		case TokenStoreMemory:
			return tokenstore.NewMemory(""), nil
		case TokenStoreFile:
			return tokenstore.NewFile(cfg.TokenFile), nil
		case TokenStoreRedis:
			return tokenstore.OpenRedis(ctx, cfg.RedisURL, cfg.RedisPrefix)
		case TokenStoreSQL:
			return tokenstore.OpenSQL(ctx, cfg.SQL)
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnknownTokenStore, cfg.TokenStore)
		}
	})
}

func httpClientFactoryProvider(
	cfg Config,
	jar lazy.Loader[nethttp.CookieJar],
	metrics lazy.Loader[metric.Metrics],
	logger lazy.Loader[log.Logger],
) lazy.Loader[HTTPClientFactory] {
	return lazy.New(func() (HTTPClientFactory, error) {
		return NewHTTPClientFactory(cfg, jar.MustLoad(), metrics.MustLoad(), logger.MustLoad()), nil
	})
}
