package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkghttp "github.com/klwxsrx/vocab-client/pkg/http"
	"github.com/klwxsrx/vocab-client/pkg/metric"
)

type echoPayload struct {
	ID        string `json:"id"`
	Page      string `json:"page"`
	Enabled   string `json:"enabled"`
	RequestID string `json:"requestID"`
	Body      string `json:"body"`
}

func newEchoServer(t *testing.T) *httptest.Server {
	router := mux.NewRouter()
	router.Methods(http.MethodPut).Path("/entries/{id}").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Text string `json:"text"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		writeJSON(w, http.StatusOK, echoPayload{
			ID:        mux.Vars(r)["id"],
			Page:      r.URL.Query().Get("page"),
			Enabled:   r.URL.Query().Get("enabled"),
			RequestID: r.Header.Get(pkghttp.DefaultRequestIDHeader),
			Body:      body.Text,
		})
	})
	router.Methods(http.MethodGet).Path("/crashed").HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(strings.Repeat("é", 250)))
	})
	router.Methods(http.MethodGet).Path("/missing").HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("no such entry"))
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_BuildsRequestFromRoute(t *testing.T) {
	srv := newEchoServer(t)
	client := pkghttp.NewClient(
		pkghttp.WithClientDestination("vocab", srv.URL),
		pkghttp.WithRequestObservability(pkghttp.DefaultRequestIDHeader),
	)

	page := 2
	enabled := true
	ctx := pkghttp.WithRequestID(context.Background(), "req-1")
	resp, err := client.NewRequest(ctx, pkghttp.Route{Method: http.MethodPut, URL: "/entries/{id}"}).
		SetPathParam("id", "42").
		SetOptionalIntQueryParam("page", &page).
		SetOptionalBoolQueryParam("enabled", &enabled).
		SetOptionalQueryParam("q", nil).
		SetBody(map[string]string{"text": "hello"}).
		Send()

	payload, err := pkghttp.ParseResponse(resp, pkghttp.JSONBody[echoPayload](), err)
	require.NoError(t, err)
	assert.Equal(t, echoPayload{
		ID:        "42",
		Page:      "2",
		Enabled:   "true",
		RequestID: "req-1",
		Body:      "hello",
	}, payload)
}

func TestClient_GeneratesRequestID(t *testing.T) {
	srv := newEchoServer(t)
	client := pkghttp.NewClient(
		pkghttp.WithClientDestination("vocab", srv.URL),
		pkghttp.WithRequestObservability(pkghttp.DefaultRequestIDHeader),
	)

	resp, err := client.NewRequest(context.Background(), pkghttp.Route{Method: http.MethodPut, URL: "/entries/{id}"}).
		SetPathParam("id", "1").
		Send()

	payload, err := pkghttp.ParseResponse(resp, pkghttp.JSONBody[echoPayload](), err)
	require.NoError(t, err)
	assert.Len(t, payload.RequestID, 36)
}

func TestClient_StatusErrorFallsBackToRawBody(t *testing.T) {
	srv := newEchoServer(t)
	client := pkghttp.NewClient(pkghttp.WithClientDestination("vocab", srv.URL))

	_, err := client.NewRequest(context.Background(), pkghttp.Route{Method: http.MethodGet, URL: "/missing"}).Send()

	var statusErr *pkghttp.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.Code)
	assert.Equal(t, "no such entry", statusErr.Message)
	assert.True(t, pkghttp.IsStatus(err, http.StatusBadRequest, http.StatusNotFound))
	assert.False(t, pkghttp.IsStatus(err, http.StatusUnauthorized))
}

func TestClient_StatusErrorTruncatesRawBodyOnRuneBoundary(t *testing.T) {
	srv := newEchoServer(t)
	client := pkghttp.NewClient(pkghttp.WithClientDestination("vocab", srv.URL))

	_, err := client.NewRequest(context.Background(), pkghttp.Route{Method: http.MethodGet, URL: "/crashed"}).Send()

	var statusErr *pkghttp.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.True(t, utf8.ValidString(statusErr.Message))
	assert.Equal(t, strings.Repeat("é", 200), statusErr.Message)
	assert.Len(t, statusErr.Body, 500)
}

func TestClient_ParseResponseReportsDecodeFailure(t *testing.T) {
	srv := newEchoServer(t)
	client := pkghttp.NewClient(pkghttp.WithClientDestination("vocab", srv.URL))

	resp, err := client.NewRequest(context.Background(), pkghttp.Route{Method: http.MethodPut, URL: "/entries/{id}"}).
		SetPathParam("id", "1").
		Send()
	_, err = pkghttp.ParseResponse(resp, pkghttp.JSONBody[[]int](), err)

	assert.ErrorIs(t, err, pkghttp.ErrParsingError)
}

func TestClient_RecordsRequestMetrics(t *testing.T) {
	srv := newEchoServer(t)
	registry := prometheus.NewRegistry()
	client := pkghttp.NewClient(
		pkghttp.WithClientDestination("vocab", srv.URL),
		pkghttp.WithRequestMetrics(metric.NewPrometheus("", registry)),
	)

	_, err := client.NewRequest(context.Background(), pkghttp.Route{Method: http.MethodPut, URL: "/entries/{id}"}).
		SetPathParam("id", "7").
		Send()
	require.NoError(t, err)
	_, err = client.NewRequest(context.Background(), pkghttp.Route{Method: http.MethodGet, URL: "/missing"}).Send()
	require.Error(t, err)

	count, err := testutil.GatherAndCount(registry, "http_client_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestClient_WithKeepsOptions(t *testing.T) {
	srv := newEchoServer(t)
	base := pkghttp.NewClient(pkghttp.WithClientDestination("vocab", srv.URL))
	client := base.With(pkghttp.WithRequestObservability(pkghttp.DefaultRequestIDHeader))

	resp, err := client.NewRequest(context.Background(), pkghttp.Route{Method: http.MethodPut, URL: "/entries/{id}"}).
		SetPathParam("id", "9").
		Send()

	payload, err := pkghttp.ParseResponse(resp, pkghttp.JSONBody[echoPayload](), err)
	require.NoError(t, err)
	assert.Equal(t, "9", payload.ID)
	assert.NotEmpty(t, payload.RequestID)
}
