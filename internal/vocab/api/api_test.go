package api_test

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/klwxsrx/vocab-client/internal/vocab/api"
	"github.com/klwxsrx/vocab-client/internal/vocab/domain"
	"github.com/klwxsrx/vocab-client/internal/vocab/vocabtest"
	pkghttp "github.com/klwxsrx/vocab-client/pkg/http"
	"github.com/klwxsrx/vocab-client/pkg/session"
	pkgsessionmock "github.com/klwxsrx/vocab-client/pkg/session/mock"
	"github.com/klwxsrx/vocab-client/pkg/tokenstore"
)

const (
	testEmail    = "ana@example.com"
	testPassword = "secret-1"
)

type fixture struct {
	backend  *vocabtest.Backend
	store    *tokenstore.Memory
	sessions *session.Manager
	auth     *api.AuthService
	users    *api.UserService
	entries  *api.EntryService
	quizzes  *api.QuizService
	stats    *api.StatsService
}

func newFixture(t *testing.T, navigator session.Navigator, opts ...vocabtest.Option) *fixture {
	backend := vocabtest.New(t, opts...)
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	store := tokenstore.NewMemory("")
	sessions := session.NewManager(store, navigator)
	client := pkghttp.NewClient(
		pkghttp.WithClientDestination(api.DestinationVocabAPI, backend.URL),
		pkghttp.WithCookieJar(jar),
		pkghttp.WithAuthRefresh(sessions, api.RefreshAccessToken),
	)

	return &fixture{
		backend:  backend,
		store:    store,
		sessions: sessions,
		auth:     api.NewAuthService(client, sessions),
		users:    api.NewUserService(client),
		entries:  api.NewEntryService(client),
		quizzes:  api.NewQuizService(client),
		stats:    api.NewStatsService(client),
	}
}

func (f *fixture) login(t *testing.T) *domain.AuthResponse {
	t.Helper()
	f.backend.SeedUser(testEmail, "Ana", testPassword)

	auth, err := f.auth.Login(context.Background(), domain.LoginRequest{Email: testEmail, Password: testPassword})
	require.NoError(t, err)
	return auth
}

func (f *fixture) token(t *testing.T) string {
	t.Helper()
	token, err := f.sessions.Token(context.Background())
	require.NoError(t, err)
	return token
}

func TestLogin_ExpiredTokenIsRefreshedAndRequestReplayed(t *testing.T) {
	f := newFixture(t, nil)

	auth := f.login(t)
	t1 := f.token(t)
	require.Equal(t, auth.AccessToken, t1)

	f.backend.ExpireAccessTokens()
	page, err := f.entries.List(context.Background(), domain.EntryFilter{})
	require.NoError(t, err)
	assert.Empty(t, page.Content)

	t2 := f.token(t)
	assert.NotEqual(t, t1, t2)
	assert.Equal(t, []vocabtest.RecordedRequest{
		{Method: http.MethodPost, Path: "/auth/login"},
		{Method: http.MethodGet, Path: "/entries", Authorization: "Bearer " + t1},
		{Method: http.MethodPost, Path: "/auth/refresh-token"},
		{Method: http.MethodGet, Path: "/entries", Authorization: "Bearer " + t2},
	}, f.backend.Requests())
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name        string
		req         domain.LoginRequest
		expectErr   error
		expectCalls int
	}{
		{
			name:        "wrong_password",
			req:         domain.LoginRequest{Email: testEmail, Password: "nope"},
			expectErr:   api.ErrInvalidCredentials,
			expectCalls: 1,
		},
		{
			name:      "invalid_email",
			req:       domain.LoginRequest{Email: "ana", Password: testPassword},
			expectErr: domain.ErrValidation,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, nil)
			f.backend.SeedUser(testEmail, "Ana", testPassword)

			_, err := f.auth.Login(context.Background(), tc.req)

			assert.ErrorIs(t, err, tc.expectErr)
			assert.Len(t, f.backend.Requests(), tc.expectCalls)
			assert.Zero(t, f.backend.RefreshCalls())
			assert.Empty(t, f.token(t))
		})
	}
}

func TestRegister_StartsSession(t *testing.T) {
	f := newFixture(t, nil)

	auth, err := f.auth.Register(context.Background(), domain.RegisterRequest{
		Name:     "Bruno",
		Email:    "bruno@example.com",
		Password: "secret-2",
	})
	require.NoError(t, err)
	assert.Equal(t, auth.AccessToken, f.token(t))

	user, err := f.users.GetCurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bruno", user.Name)
	assert.Equal(t, auth.User.ID, user.ID)

	_, err = f.auth.Register(context.Background(), domain.RegisterRequest{
		Name:     "Bruno",
		Email:    "bruno@example.com",
		Password: "secret-2",
	})
	assert.True(t, pkghttp.IsStatus(err, http.StatusConflict))
}

func TestRefreshToken_StoresRenewedToken(t *testing.T) {
	f := newFixture(t, nil)
	f.login(t)
	f.backend.ExpireAccessTokens()

	auth, err := f.auth.RefreshToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, auth.AccessToken, f.token(t))
	assert.Equal(t, testEmail, auth.User.Email)

	_, err = f.users.GetCurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, f.backend.RefreshCalls())

	last := f.backend.Requests()[len(f.backend.Requests())-2]
	assert.Equal(t, "/auth/refresh-token", last.Path)
	assert.Empty(t, last.Authorization)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t, nil)
	f.login(t)

	_, err := f.users.ChangePassword(context.Background(), domain.ChangePasswordRequest{
		CurrentPassword:    "wrong",
		NewPassword:        "secret-3",
		ConfirmNewPassword: "secret-3",
	})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "current password is incorrect")

	msg, err := f.users.ChangePassword(context.Background(), domain.ChangePasswordRequest{
		CurrentPassword:    testPassword,
		NewPassword:        "secret-3",
		ConfirmNewPassword: "secret-3",
	})
	require.NoError(t, err)
	assert.Equal(t, "Password changed successfully", msg.Message)
}

func TestEntryService_Lifecycle(t *testing.T) {
	f := newFixture(t, nil)
	f.login(t)
	ctx := context.Background()

	created, err := f.entries.Create(ctx, domain.EntryCreate{
		Type:         domain.EntryTypeWord,
		Text:         "casa",
		Translations: []domain.Translation{{Text: "house"}, {Text: "home"}},
	})
	require.NoError(t, err)
	assert.True(t, created.Enabled)
	assert.Len(t, created.Translations, 2)

	_, err = f.entries.Create(ctx, domain.EntryCreate{Type: domain.EntryTypePhrase, Text: "bom dia"})
	require.ErrorIs(t, err, domain.ErrValidation)

	text := "casinha"
	updated, err := f.entries.Update(ctx, created.ID, domain.EntryUpdate{
		Text:         &text,
		Translations: []domain.Translation{{Text: "little house"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "casinha", updated.Text)

	toggled, err := f.entries.Toggle(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Enabled)

	enabled := false
	query := "little"
	page, err := f.entries.List(ctx, domain.EntryFilter{Enabled: &enabled, Query: &query})
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, created.ID, page.Content[0].ID)

	enabled = true
	page, err = f.entries.List(ctx, domain.EntryFilter{Enabled: &enabled})
	require.NoError(t, err)
	assert.Empty(t, page.Content)

	require.NoError(t, f.entries.Delete(ctx, created.ID))
	_, err = f.entries.Get(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, f.entries.Delete(ctx, created.ID), domain.ErrNotFound)
}

func TestEntryService_ListPagination(t *testing.T) {
	f := newFixture(t, nil)
	auth := f.login(t)
	for _, text := range []string{"um", "dois", "três"} {
		f.backend.SeedEntry(auth.User.ID, domain.EntryCreate{
			Type:         domain.EntryTypeWord,
			Text:         text,
			Translations: []domain.Translation{{Text: text}},
		}, true)
	}

	pageNum, size := 1, 2
	page, err := f.entries.List(context.Background(), domain.EntryFilter{Page: &pageNum, Size: &size})

	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	assert.True(t, page.Last)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "três", page.Content[0].Text)
}

func TestQuizService_Flow(t *testing.T) {
	f := newFixture(t, nil)
	auth := f.login(t)
	ctx := context.Background()
	entry := f.backend.SeedEntry(auth.User.ID, domain.EntryCreate{
		Type:         domain.EntryTypeWord,
		Text:         "gato",
		Translations: []domain.Translation{{Text: "cat"}},
	}, true)

	quiz, err := f.quizzes.Create(ctx, 5)
	require.NoError(t, err)

	right, err := f.quizzes.Answer(ctx, quiz.ID, domain.QuizAnswer{EntryID: entry.ID, UserAnswer: " Cat "})
	require.NoError(t, err)
	assert.True(t, right.IsCorrect)

	wrong, err := f.quizzes.Answer(ctx, quiz.ID, domain.QuizAnswer{EntryID: entry.ID, UserAnswer: "dog"})
	require.NoError(t, err)
	assert.False(t, wrong.IsCorrect)
	assert.Equal(t, []string{"cat"}, wrong.CorrectTranslations)

	_, err = f.quizzes.Answer(ctx, quiz.ID, domain.QuizAnswer{EntryID: entry.ID})
	require.ErrorIs(t, err, domain.ErrValidation)

	finished, err := f.quizzes.Finish(ctx, quiz.ID)
	require.NoError(t, err)
	assert.True(t, finished.Finished())
	assert.Equal(t, "1/2", finished.Score)
	assert.Equal(t, 50, finished.Accuracy())

	history, err := f.quizzes.List(ctx, nil, nil)
	require.NoError(t, err)
	require.Len(t, history.Content, 1)

	detail, err := f.quizzes.Get(ctx, quiz.ID)
	require.NoError(t, err)
	assert.Len(t, detail.QuizItems, 2)

	stats, err := f.stats.EntryStats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 2, stats[0].TimesDrawn)
	assert.Equal(t, 1, stats[0].TimesCorrect)

	_, err = f.quizzes.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLogout_ClearsSessionAndRefreshCookie(t *testing.T) {
	ctrl := gomock.NewController(t)
	navigator := pkgsessionmock.NewNavigator(ctrl)
	navigator.EXPECT().RedirectToLogin(gomock.Any()).Times(1)

	f := newFixture(t, navigator)
	f.login(t)

	require.NoError(t, f.auth.Logout(context.Background()))
	assert.Empty(t, f.token(t))

	_, err := f.users.GetCurrentUser(context.Background())
	assert.ErrorIs(t, err, session.ErrRefreshRejected)
	assert.Equal(t, 1, f.backend.RefreshCalls())
}

func TestConcurrentExpiredRequestsShareOneRefresh(t *testing.T) {
	const callers = 5

	release := make(chan struct{})
	f := newFixture(t, nil, vocabtest.WithRefreshHook(func() { <-release }))
	f.login(t)
	f.backend.ExpireAccessTokens()

	errs := make(chan error, callers)
	for range callers {
		go func() {
			_, err := f.users.GetCurrentUser(context.Background())
			errs <- err
		}()
	}

	require.Eventually(t, func() bool {
		return f.sessions.Refreshing() && f.sessions.Waiting() == callers-1
	}, 5*time.Second, 5*time.Millisecond)
	close(release)

	for range callers {
		assert.NoError(t, <-errs)
	}
	assert.Equal(t, 1, f.backend.RefreshCalls())
}
