package quiz

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/klwxsrx/vocab-client/internal/vocab/domain"
)

var (
	ErrNoEntries       = errors.New("no enabled entries to quiz on")
	ErrQuizCompleted   = errors.New("quiz already completed")
	ErrAlreadyAnswered = errors.New("current question already answered")
	ErrNotAnswered     = errors.New("current question not answered yet")
)

// Session walks a shuffled subset of enabled entries through one backend quiz.
// It is not safe for concurrent use.
type Session struct {
	api      API
	quiz     domain.Quiz
	entries  []domain.Entry
	index    int
	answered bool
	answers  []domain.QuizAnswerResponse
	finished *domain.Quiz
}

// NewSession keeps enabled entries, shuffles them and truncates to limit, zero limit keeps all.
// A nil rnd uses the global source.
func NewSession(api API, quiz domain.Quiz, entries []domain.Entry, limit int, rnd *rand.Rand) (*Session, error) {
	selected := domain.EnabledEntries(entries)
	if len(selected) == 0 {
		return nil, ErrNoEntries
	}

	shuffle := rand.Shuffle
	if rnd != nil {
		shuffle = rnd.Shuffle
	}
	shuffle(len(selected), func(i, j int) {
		selected[i], selected[j] = selected[j], selected[i]
	})
	if limit > 0 && limit < len(selected) {
		selected = selected[:limit]
	}

	return &Session{
		api:     api,
		quiz:    quiz,
		entries: selected,
	}, nil
}

func (s *Session) Quiz() domain.Quiz {
	return s.quiz
}

func (s *Session) Len() int {
	return len(s.entries)
}

// Position is the zero-based index of the current question.
func (s *Session) Position() int {
	return s.index
}

func (s *Session) Current() (domain.Entry, bool) {
	if s.Done() {
		return domain.Entry{}, false
	}
	return s.entries[s.index], true
}

func (s *Session) IsLast() bool {
	return s.index >= len(s.entries)-1
}

func (s *Session) Done() bool {
	return s.finished != nil || s.index >= len(s.entries)
}

func (s *Session) Answer(ctx context.Context, text string) (*domain.QuizAnswerResponse, error) {
	entry, ok := s.Current()
	if !ok {
		return nil, ErrQuizCompleted
	}
	if s.answered {
		return nil, ErrAlreadyAnswered
	}

	resp, err := s.api.Answer(ctx, s.quiz.ID, domain.QuizAnswer{
		EntryID:    entry.ID,
		UserAnswer: text,
	})
	if err != nil {
		return nil, fmt.Errorf("answer entry %s: %w", entry.ID, err)
	}

	s.answered = true
	s.answers = append(s.answers, *resp)
	return resp, nil
}

// Next moves past an answered question, it reports whether another question is available.
func (s *Session) Next() (bool, error) {
	if s.Done() {
		return false, ErrQuizCompleted
	}
	if !s.answered {
		return false, ErrNotAnswered
	}

	s.index++
	s.answered = false
	return !s.Done(), nil
}

func (s *Session) Answers() []domain.QuizAnswerResponse {
	return append([]domain.QuizAnswerResponse(nil), s.answers...)
}

func (s *Session) Score() (correct, answered int) {
	for _, a := range s.answers {
		if a.IsCorrect {
			correct++
		}
	}
	return correct, len(s.answers)
}

// Finish closes the quiz on the backend, it may be called before every question is answered.
func (s *Session) Finish(ctx context.Context) (*domain.Quiz, error) {
	if s.finished != nil {
		return nil, ErrQuizCompleted
	}

	quiz, err := s.api.Finish(ctx, s.quiz.ID)
	if err != nil {
		return nil, fmt.Errorf("finish quiz %s: %w", s.quiz.ID, err)
	}

	s.finished = quiz
	return quiz, nil
}
