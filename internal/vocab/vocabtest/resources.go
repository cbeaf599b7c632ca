package vocabtest

import (
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/klwxsrx/vocab-client/internal/vocab/domain"
)

const defaultPageSize = 20

func (b *Backend) createEntry(userID string, in domain.EntryCreate) *domain.Entry {
	now := domain.Timestamp{Time: time.Now().UTC()}
	entry := &domain.Entry{
		ID:           uuid.NewString(),
		Type:         in.Type,
		Text:         in.Text,
		Enabled:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
		OwnerID:      userID,
		Translations: withTranslationIDs(in.Translations),
	}
	b.entries = append(b.entries, entry)
	return entry
}

// findEntry requires b.mu to be held.
func (b *Backend) findEntry(userID, id string) *domain.Entry {
	for _, e := range b.entries {
		if e.ID == id && e.OwnerID == userID {
			return e
		}
	}
	return nil
}

func (b *Backend) listEntries(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	needle := strings.ToLower(query.Get("q"))
	var enabled *bool
	if raw := query.Get("enabled"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid enabled filter")
			return
		}
		enabled = &v
	}

	b.mu.Lock()
	matched := make([]domain.Entry, 0, len(b.entries))
	for _, e := range b.entries {
		if e.OwnerID != currentUserID(r) {
			continue
		}
		if enabled != nil && e.Enabled != *enabled {
			continue
		}
		if needle != "" && !entryMatches(e, needle) {
			continue
		}
		matched = append(matched, *e)
	}
	b.mu.Unlock()

	writePage(w, r, matched)
}

func (b *Backend) getEntry(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry := b.findEntry(currentUserID(r), mux.Vars(r)["id"])
	if entry == nil {
		writeError(w, r, http.StatusNotFound, "entry not found")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (b *Backend) createEntryHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.EntryCreate
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "malformed body")
		return
	}
	if err := domain.Validate(req); err != nil {
		writeError(w, r, http.StatusBadRequest, validationMessage(err))
		return
	}

	b.mu.Lock()
	entry := *b.createEntry(currentUserID(r), req)
	b.mu.Unlock()

	writeJSON(w, http.StatusCreated, entry)
}

func (b *Backend) updateEntry(w http.ResponseWriter, r *http.Request) {
	var req domain.EntryUpdate
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "malformed body")
		return
	}
	if err := domain.Validate(req); err != nil {
		writeError(w, r, http.StatusBadRequest, validationMessage(err))
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	entry := b.findEntry(currentUserID(r), mux.Vars(r)["id"])
	if entry == nil {
		writeError(w, r, http.StatusNotFound, "entry not found")
		return
	}
	if req.Text != nil {
		entry.Text = *req.Text
	}
	if req.Type != nil {
		entry.Type = *req.Type
	}
	if req.Enabled != nil {
		entry.Enabled = *req.Enabled
	}
	entry.Translations = withTranslationIDs(req.Translations)
	entry.UpdatedAt = domain.Timestamp{Time: time.Now().UTC()}

	writeJSON(w, http.StatusOK, entry)
}

func (b *Backend) toggleEntry(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry := b.findEntry(currentUserID(r), mux.Vars(r)["id"])
	if entry == nil {
		writeError(w, r, http.StatusNotFound, "entry not found")
		return
	}
	entry.Enabled = !entry.Enabled
	entry.UpdatedAt = domain.Timestamp{Time: time.Now().UTC()}

	writeJSON(w, http.StatusOK, entry)
}

func (b *Backend) deleteEntry(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	userID, id := currentUserID(r), mux.Vars(r)["id"]
	idx := slices.IndexFunc(b.entries, func(e *domain.Entry) bool {
		return e.ID == id && e.OwnerID == userID
	})
	if idx < 0 {
		writeError(w, r, http.StatusNotFound, "entry not found")
		return
	}
	b.entries = slices.Delete(b.entries, idx, idx+1)

	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) createQuiz(w http.ResponseWriter, r *http.Request) {
	var req domain.QuizCreate
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "malformed body")
		return
	}
	if err := domain.Validate(req); err != nil {
		writeError(w, r, http.StatusBadRequest, validationMessage(err))
		return
	}

	quiz := &domain.Quiz{
		ID:        uuid.NewString(),
		UserID:    currentUserID(r),
		StartedAt: domain.Timestamp{Time: time.Now().UTC()},
		QuizItems: []domain.QuizItem{},
	}

	b.mu.Lock()
	b.quizzes = append(b.quizzes, quiz)
	out := *quiz
	b.mu.Unlock()

	writeJSON(w, http.StatusCreated, out)
}

// findQuiz requires b.mu to be held.
func (b *Backend) findQuiz(userID, id string) *domain.Quiz {
	for _, q := range b.quizzes {
		if q.ID == id && q.UserID == userID {
			return q
		}
	}
	return nil
}

func (b *Backend) answerQuiz(w http.ResponseWriter, r *http.Request) {
	var req domain.QuizAnswer
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "malformed body")
		return
	}
	if err := domain.Validate(req); err != nil {
		writeError(w, r, http.StatusBadRequest, validationMessage(err))
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	userID := currentUserID(r)
	quiz := b.findQuiz(userID, mux.Vars(r)["id"])
	if quiz == nil {
		writeError(w, r, http.StatusNotFound, "quiz not found")
		return
	}
	if quiz.Finished() {
		writeError(w, r, http.StatusBadRequest, "quiz already finished")
		return
	}
	entry := b.findEntry(userID, req.EntryID)
	if entry == nil {
		writeError(w, r, http.StatusNotFound, "entry not found")
		return
	}

	correct := make([]string, 0, len(entry.Translations))
	isCorrect := false
	for _, tr := range entry.Translations {
		correct = append(correct, tr.Text)
		if strings.EqualFold(strings.TrimSpace(tr.Text), strings.TrimSpace(req.UserAnswer)) {
			isCorrect = true
		}
	}

	entry.TimesDrawn++
	if isCorrect {
		entry.TimesCorrect++
		quiz.CorrectAnswers++
	} else {
		entry.TimesWrong++
	}
	quiz.TotalQuestions++

	item := domain.QuizItem{
		QuizItemID:          uuid.NewString(),
		EntryID:             entry.ID,
		EntryText:           entry.Text,
		UserAnswer:          req.UserAnswer,
		IsCorrect:           isCorrect,
		CorrectTranslations: correct,
	}
	quiz.QuizItems = append(quiz.QuizItems, item)

	writeJSON(w, http.StatusOK, domain.QuizAnswerResponse{
		QuizItemID:          item.QuizItemID,
		EntryID:             item.EntryID,
		UserAnswer:          item.UserAnswer,
		IsCorrect:           item.IsCorrect,
		CorrectTranslations: item.CorrectTranslations,
	})
}

func (b *Backend) finishQuiz(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	quiz := b.findQuiz(currentUserID(r), mux.Vars(r)["id"])
	if quiz == nil {
		writeError(w, r, http.StatusNotFound, "quiz not found")
		return
	}
	if !quiz.Finished() {
		quiz.FinishedAt = &domain.Timestamp{Time: time.Now().UTC()}
		quiz.Score = fmt.Sprintf("%d/%d", quiz.CorrectAnswers, quiz.TotalQuestions)
	}

	writeJSON(w, http.StatusOK, quiz)
}

func (b *Backend) listQuizzes(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	userID := currentUserID(r)
	quizzes := make([]domain.Quiz, 0, len(b.quizzes))
	for i := len(b.quizzes) - 1; i >= 0; i-- {
		if b.quizzes[i].UserID == userID {
			q := *b.quizzes[i]
			q.QuizItems = nil
			quizzes = append(quizzes, q)
		}
	}
	b.mu.Unlock()

	writePage(w, r, quizzes)
}

func (b *Backend) getQuiz(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	quiz := b.findQuiz(currentUserID(r), mux.Vars(r)["id"])
	if quiz == nil {
		writeError(w, r, http.StatusNotFound, "quiz not found")
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

func (b *Backend) entryStats(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	userID := currentUserID(r)
	stats := make([]domain.EntryStats, 0, len(b.entries))
	for _, e := range b.entries {
		if e.OwnerID != userID {
			continue
		}
		stats = append(stats, domain.EntryStats{
			ID:           e.ID,
			Text:         e.Text,
			Type:         e.Type,
			TimesDrawn:   e.TimesDrawn,
			TimesCorrect: e.TimesCorrect,
			TimesWrong:   e.TimesWrong,
		})
	}
	writeJSON(w, http.StatusOK, stats)
}

func entryMatches(e *domain.Entry, needle string) bool {
	if strings.Contains(strings.ToLower(e.Text), needle) {
		return true
	}
	for _, tr := range e.Translations {
		if strings.Contains(strings.ToLower(tr.Text), needle) {
			return true
		}
	}
	return false
}

func withTranslationIDs(in []domain.Translation) []domain.Translation {
	out := make([]domain.Translation, 0, len(in))
	for _, tr := range in {
		if tr.ID == "" {
			tr.ID = uuid.NewString()
		}
		out = append(out, tr)
	}
	return out
}

func writePage[T any](w http.ResponseWriter, r *http.Request, items []T) {
	page, err := queryInt(r, "page", 0)
	if err != nil || page < 0 {
		writeError(w, r, http.StatusBadRequest, "invalid page")
		return
	}
	size, err := queryInt(r, "size", defaultPageSize)
	if err != nil || size <= 0 {
		writeError(w, r, http.StatusBadRequest, "invalid size")
		return
	}

	from := min(page*size, len(items))
	to := min(from+size, len(items))
	content := items[from:to]
	totalPages := (len(items) + size - 1) / size

	writeJSON(w, http.StatusOK, domain.Page[T]{
		Content:          content,
		Number:           page,
		Size:             size,
		TotalElements:    len(items),
		TotalPages:       totalPages,
		NumberOfElements: len(content),
		First:            page == 0,
		Last:             page >= totalPages-1,
		Empty:            len(content) == 0,
	})
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
