package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileCookieJar keeps transport cookies (the server-held refresh credential) across
// process restarts. Client code never inspects the stored cookies.
type FileCookieJar struct {
	path    string
	onError func(error)

	mu      sync.Mutex
	jar     *cookiejar.Jar
	entries map[string][]*http.Cookie
}

func NewFileCookieJar(path string, onError func(error)) (*FileCookieJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	if onError == nil {
		onError = func(error) {}
	}

	j := &FileCookieJar{
		path:    path,
		onError: onError,
		jar:     jar,
		entries: map[string][]*http.Cookie{},
	}
	if err := j.load(); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *FileCookieJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.jar.SetCookies(u, cookies)

	key := originKey(u)
	now := time.Now()
	merged := make([]*http.Cookie, 0, len(j.entries[key])+len(cookies))
	for _, existing := range j.entries[key] {
		if !containsCookie(cookies, existing.Name) {
			merged = append(merged, existing)
		}
	}
	for _, cookie := range cookies {
		if cookie.MaxAge < 0 || (!cookie.Expires.IsZero() && cookie.Expires.Before(now)) {
			continue
		}
		c := *cookie
		if c.MaxAge > 0 && c.Expires.IsZero() {
			c.Expires = now.Add(time.Duration(c.MaxAge) * time.Second)
			c.MaxAge = 0
		}
		merged = append(merged, &c)
	}
	j.entries[key] = merged

	if err := j.persist(); err != nil {
		j.onError(err)
	}
}

func (j *FileCookieJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.jar.Cookies(u)
}

func (j *FileCookieJar) load() error {
	data, err := os.ReadFile(j.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read cookie file: %w", err)
	}

	if err := json.Unmarshal(data, &j.entries); err != nil {
		return fmt.Errorf("decode cookie file %s: %w", j.path, err)
	}
	for origin, cookies := range j.entries {
		u, err := url.Parse(origin)
		if err != nil {
			continue
		}
		j.jar.SetCookies(u, cookies)
	}
	return nil
}

func (j *FileCookieJar) persist() error {
	data, err := json.Marshal(j.entries)
	if err != nil {
		return fmt.Errorf("encode cookies: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(j.path), 0o700); err != nil {
		return fmt.Errorf("create cookie dir: %w", err)
	}

	tmp := j.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write cookie file: %w", err)
	}
	return os.Rename(tmp, j.path)
}

func originKey(u *url.URL) string {
	return (&url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/"}).String()
}

func containsCookie(cookies []*http.Cookie, name string) bool {
	for _, c := range cookies {
		if c.Name == name {
			return true
		}
	}
	return false
}
