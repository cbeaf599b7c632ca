package vocab

import (
	commoncmd "github.com/klwxsrx/vocab-client/internal/pkg/cmd"
	"github.com/klwxsrx/vocab-client/internal/vocab/api"
	pkghttp "github.com/klwxsrx/vocab-client/pkg/http"
	pkglazy "github.com/klwxsrx/vocab-client/pkg/lazy"
	pkglog "github.com/klwxsrx/vocab-client/pkg/log"
	pkgmetric "github.com/klwxsrx/vocab-client/pkg/metric"
	pkgsession "github.com/klwxsrx/vocab-client/pkg/session"
)

type DependencyContainer struct {
	Sessions     pkglazy.Loader[*pkgsession.Manager]
	Client       pkglazy.Loader[pkghttp.Client]
	AuthService  pkglazy.Loader[*api.AuthService]
	UserService  pkglazy.Loader[*api.UserService]
	EntryService pkglazy.Loader[*api.EntryService]
	QuizService  pkglazy.Loader[*api.QuizService]
	StatsService pkglazy.Loader[*api.StatsService]
}

func NewDependencyContainer(
	tokenStore pkglazy.Loader[pkgsession.TokenStore],
	httpClients pkglazy.Loader[commoncmd.HTTPClientFactory],
	navigator pkgsession.Navigator,
	metrics pkglazy.Loader[pkgmetric.Metrics],
	logger pkglazy.Loader[pkglog.Logger],
) *DependencyContainer {
	sessions := sessionManagerProvider(tokenStore, navigator)
	client := authorizedClientProvider(httpClients, sessions, metrics, logger)

	return &DependencyContainer{
		Sessions: sessions,
		Client:   client,
		AuthService: pkglazy.New(func() (*api.AuthService, error) {
			return api.NewAuthService(client.MustLoad(), sessions.MustLoad()), nil
		}),
		UserService: pkglazy.New(func() (*api.UserService, error) {
			return api.NewUserService(client.MustLoad()), nil
		}),
		EntryService: pkglazy.New(func() (*api.EntryService, error) {
			return api.NewEntryService(client.MustLoad()), nil
		}),
		QuizService: pkglazy.New(func() (*api.QuizService, error) {
			return api.NewQuizService(client.MustLoad()), nil
		}),
		StatsService: pkglazy.New(func() (*api.StatsService, error) {
			return api.NewStatsService(client.MustLoad()), nil
		}),
	}
}

func sessionManagerProvider(
	tokenStore pkglazy.Loader[pkgsession.TokenStore],
	navigator pkgsession.Navigator,
) pkglazy.Loader[*pkgsession.Manager] {
	return pkglazy.New(func() (*pkgsession.Manager, error) {
		store, err := tokenStore.Load()
		if err != nil {
			return nil, err
		}
		return pkgsession.NewManager(store, navigator), nil
	})
}

func authorizedClientProvider(
	httpClients pkglazy.Loader[commoncmd.HTTPClientFactory],
	sessions pkglazy.Loader[*pkgsession.Manager],
	metrics pkglazy.Loader[pkgmetric.Metrics],
	logger pkglazy.Loader[pkglog.Logger],
) pkglazy.Loader[pkghttp.Client] {
	return pkglazy.New(func() (pkghttp.Client, error) {
		return httpClients.MustLoad().MustInitClient(
			api.DestinationVocabAPI,
			pkghttp.WithAuthRefresh(
				sessions.MustLoad(),
				api.RefreshAccessToken,
				pkghttp.WithAuthLogger(logger.MustLoad()),
				pkghttp.WithAuthMetrics(metrics.MustLoad()),
			),
		), nil
	})
}
