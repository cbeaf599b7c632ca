package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkghttp "github.com/klwxsrx/vocab-client/pkg/http"
)

func TestFileCookieJar_PersistsAcrossRestarts(t *testing.T) {
	var received []string
	router := http.NewServeMux()
	router.HandleFunc("/login", func(w http.ResponseWriter, _ *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "refreshToken", Value: "r1", Path: "/", MaxAge: 3600, HttpOnly: true})
		w.WriteHeader(http.StatusOK)
	})
	router.HandleFunc("/refresh", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("refreshToken"); err == nil {
			received = append(received, c.Value)
		}
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(router)
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "state", "cookies.json")

	jar, err := pkghttp.NewFileCookieJar(path, func(err error) { t.Error(err) })
	require.NoError(t, err)
	first := pkghttp.NewClient(pkghttp.WithClientDestination("vocab", srv.URL), pkghttp.WithCookieJar(jar))
	_, err = first.NewRequest(context.Background(), pkghttp.Route{Method: http.MethodPost, URL: "/login"}).Send()
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reloaded, err := pkghttp.NewFileCookieJar(path, nil)
	require.NoError(t, err)
	second := pkghttp.NewClient(pkghttp.WithClientDestination("vocab", srv.URL), pkghttp.WithCookieJar(reloaded))
	_, err = second.NewRequest(context.Background(), pkghttp.Route{Method: http.MethodPost, URL: "/refresh"}).Send()
	require.NoError(t, err)

	assert.Equal(t, []string{"r1"}, received)
}

func TestFileCookieJar_DropsExpiredCookies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	router := http.NewServeMux()
	router.HandleFunc("/login", func(w http.ResponseWriter, _ *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "refreshToken", Value: "r1", Path: "/", MaxAge: 3600})
	})
	router.HandleFunc("/logout", func(w http.ResponseWriter, _ *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "refreshToken", Value: "", Path: "/", MaxAge: -1})
	})
	srv := httptest.NewServer(router)
	defer srv.Close()

	jar, err := pkghttp.NewFileCookieJar(path, nil)
	require.NoError(t, err)
	client := pkghttp.NewClient(pkghttp.WithClientDestination("vocab", srv.URL), pkghttp.WithCookieJar(jar))

	_, err = client.NewRequest(context.Background(), pkghttp.Route{Method: http.MethodPost, URL: "/login"}).Send()
	require.NoError(t, err)
	_, err = client.NewRequest(context.Background(), pkghttp.Route{Method: http.MethodPost, URL: "/logout"}).Send()
	require.NoError(t, err)

	reloaded, err := pkghttp.NewFileCookieJar(path, nil)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Cookies(mustParseURL(t, srv.URL)))
}

func TestFileCookieJar_LeavesCallerCookiesUntouched(t *testing.T) {
	jar, err := pkghttp.NewFileCookieJar(filepath.Join(t.TempDir(), "cookies.json"), nil)
	require.NoError(t, err)
	u := mustParseURL(t, "http://vocab.local/")
	cookie := &http.Cookie{Name: "refreshToken", Value: "r1", Path: "/", MaxAge: 3600}

	jar.SetCookies(u, []*http.Cookie{cookie})

	assert.Equal(t, 3600, cookie.MaxAge)
	assert.True(t, cookie.Expires.IsZero())
	stored := jar.Cookies(u)
	require.Len(t, stored, 1)
	assert.Equal(t, "r1", stored[0].Value)
}

func TestFileCookieJar_RejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := pkghttp.NewFileCookieJar(path, nil)
	assert.Error(t, err)
}
