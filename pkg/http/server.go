package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	HealthPath  = "/healthz"
	MetricsPath = "/metrics"

	defaultReadHeaderTimeout = 5 * time.Second
)

type Server interface {
	Listener(ctx context.Context) error
	Handler() http.Handler
}

type server struct {
	srv *http.Server
}

// NewMetricsServer exposes the client metrics of a long-running CLI session.
func NewMetricsServer(address string, gatherer prometheus.Gatherer) Server {
	router := mux.NewRouter()
	router.
		Methods(http.MethodGet).
		Path(HealthPath).
		HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set(HeaderContentType, contentTypeJSON)
			w.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(w).Encode(struct {
				Status string `json:"status"`
			}{
				Status: "OK",
			})
		})
	router.
		Methods(http.MethodGet).
		Path(MetricsPath).
		Handler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return server{srv: &http.Server{
		Addr:              address,
		Handler:           router,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
	}}
}

func (s server) Handler() http.Handler {
	return s.srv.Handler
}

func (s server) Listener(ctx context.Context) error {
	serverDoneChan := make(chan error, 1)
	go func() {
		err := s.srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		serverDoneChan <- err
	}()

	var err error
	select {
	case err = <-serverDoneChan:
	case <-ctx.Done():
		err = s.srv.Shutdown(context.Background())
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
	}
	if err != nil {
		return fmt.Errorf("http listener %s: %w", s.srv.Addr, err)
	}
	return nil
}
