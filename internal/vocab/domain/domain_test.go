package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klwxsrx/vocab-client/internal/vocab/domain"
)

func ptr[T any](v T) *T {
	return &v
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		payload any
		errMsg  string
	}{
		{
			name:    "login_valid",
			payload: domain.LoginRequest{Email: "ana@example.com", Password: "x"},
		},
		{
			name:    "login_invalid_email",
			payload: domain.LoginRequest{Email: "ana", Password: "x"},
			errMsg:  "email must be a valid email",
		},
		{
			name:    "login_missing_password",
			payload: domain.LoginRequest{Email: "ana@example.com"},
			errMsg:  "password is required",
		},
		{
			name:    "register_short_name_and_password",
			payload: domain.RegisterRequest{Name: "A", Email: "ana@example.com", Password: "12345"},
			errMsg:  "name must be at least 2 characters; password must be at least 6 characters",
		},
		{
			name: "entry_valid",
			payload: domain.EntryCreate{
				Type:         domain.EntryTypeWord,
				Text:         "casa",
				Translations: []domain.Translation{{Text: "house"}},
			},
		},
		{
			name: "entry_unknown_type",
			payload: domain.EntryCreate{
				Type:         "SENTENCE",
				Text:         "casa",
				Translations: []domain.Translation{{Text: "house"}},
			},
			errMsg: "type must be one of [WORD PHRASE]",
		},
		{
			name: "entry_without_translations",
			payload: domain.EntryCreate{
				Type:         domain.EntryTypePhrase,
				Text:         "bom dia",
				Translations: []domain.Translation{},
			},
			errMsg: "translations must contain at least 1 item(s)",
		},
		{
			name: "entry_blank_translation",
			payload: domain.EntryCreate{
				Type:         domain.EntryTypePhrase,
				Text:         "bom dia",
				Translations: []domain.Translation{{Text: "good morning"}, {Text: ""}},
			},
			errMsg: "translations[1].text is required",
		},
		{
			name: "entry_update_empty_text",
			payload: domain.EntryUpdate{
				Text:         ptr(""),
				Translations: []domain.Translation{{Text: "house"}},
			},
			errMsg: "text must be at least 1 characters",
		},
		{
			name:    "answer_empty",
			payload: domain.QuizAnswer{EntryID: "e1"},
			errMsg:  "userAnswer is required",
		},
		{
			name:    "quiz_limit_zero",
			payload: domain.QuizCreate{Limit: ptr(0)},
			errMsg:  "limit must be at least 1",
		},
		{
			name: "change_password_mismatch",
			payload: domain.ChangePasswordRequest{
				CurrentPassword:    "old-secret",
				NewPassword:        "new-secret",
				ConfirmNewPassword: "other-secret",
			},
			errMsg: "confirmNewPassword does not match",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := domain.Validate(tc.payload)
			if tc.errMsg == "" {
				assert.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, domain.ErrValidation)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect time.Time
	}{
		{name: "rfc3339", input: `"2024-05-01T10:30:00Z"`, expect: time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)},
		{name: "without_zone", input: `"2024-05-01T10:30:00.5"`, expect: time.Date(2024, 5, 1, 10, 30, 0, 500_000_000, time.Local)},
		{name: "null", input: `null`, expect: time.Time{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var entry struct {
				CreatedAt domain.Timestamp `json:"createdAt"`
			}
			err := json.Unmarshal([]byte(`{"createdAt":`+tc.input+`}`), &entry)

			require.NoError(t, err)
			assert.True(t, tc.expect.Equal(entry.CreatedAt.Time), "got %s", entry.CreatedAt.Time)
		})
	}
}

func TestTimestamp_RejectsGarbage(t *testing.T) {
	var ts domain.Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestEnabledEntries(t *testing.T) {
	entries := []domain.Entry{
		{ID: "1", Enabled: true},
		{ID: "2", Enabled: false},
		{ID: "3", Enabled: true},
	}

	enabled := domain.EnabledEntries(entries)

	require.Len(t, enabled, 2)
	assert.Equal(t, "1", enabled[0].ID)
	assert.Equal(t, "3", enabled[1].ID)
}

func TestQuiz_Accuracy(t *testing.T) {
	assert.Equal(t, 67, domain.Quiz{TotalQuestions: 3, CorrectAnswers: 2}.Accuracy())
	assert.Equal(t, 0, domain.Quiz{}.Accuracy())
}

func TestSummarize(t *testing.T) {
	stats := []domain.EntryStats{
		{ID: "a", TimesDrawn: 10, TimesCorrect: 9, TimesWrong: 1},
		{ID: "b", TimesDrawn: 4, TimesCorrect: 1, TimesWrong: 3},
		{ID: "c", TimesDrawn: 2, TimesCorrect: 2, TimesWrong: 0},
		{ID: "d", TimesDrawn: 6, TimesCorrect: 3, TimesWrong: 3},
	}

	summary := domain.Summarize(stats)

	assert.Equal(t, 22, summary.TotalDrawn)
	assert.Equal(t, 15, summary.TotalCorrect)
	assert.Equal(t, 7, summary.TotalWrong)
	assert.Equal(t, 68, summary.Accuracy)
	assert.Equal(t, []string{"a", "d", "b", "c"}, ids(summary.MostDrawn))
	assert.Equal(t, []string{"a", "d", "b"}, ids(summary.BestAccuracy), "entries drawn less than 3 times are not ranked")
	assert.Equal(t, []string{"b", "d", "a"}, ids(summary.WorstAccuracy))
	assert.Equal(t, 90, summary.MostDrawn[0].Accuracy())
}

func TestSummarize_Empty(t *testing.T) {
	summary := domain.Summarize(nil)

	assert.Zero(t, summary.Accuracy)
	assert.Empty(t, summary.MostDrawn)
}

func ids(stats []domain.EntryStats) []string {
	result := make([]string, 0, len(stats))
	for _, s := range stats {
		result = append(result, s.ID)
	}
	return result
}
