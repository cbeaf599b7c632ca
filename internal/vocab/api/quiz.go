package api

import (
	"context"
	"net/http"

	"github.com/klwxsrx/vocab-client/internal/vocab/domain"
	pkghttp "github.com/klwxsrx/vocab-client/pkg/http"
)

var (
	createQuizRoute  = pkghttp.Route{Method: http.MethodPost, URL: "/quizzes"}
	answerQuizRoute  = pkghttp.Route{Method: http.MethodPost, URL: "/quizzes/{id}/answer"}
	finishQuizRoute  = pkghttp.Route{Method: http.MethodPost, URL: "/quizzes/{id}/finish"}
	listQuizzesRoute = pkghttp.Route{Method: http.MethodGet, URL: "/quizzes"}
	getQuizRoute     = pkghttp.Route{Method: http.MethodGet, URL: "/quizzes/{id}"}
)

type QuizService struct {
	client pkghttp.Client
}

func NewQuizService(client pkghttp.Client) *QuizService {
	return &QuizService{client: client}
}

// Create starts a quiz, a zero limit leaves the question count to the backend.
func (s *QuizService) Create(ctx context.Context, limit int) (*domain.Quiz, error) {
	var in domain.QuizCreate
	if limit > 0 {
		in.Limit = &limit
	}

	resp, err := s.client.NewRequest(ctx, createQuizRoute).
		SetBody(in).
		Send()
	return parsePtr[domain.Quiz]("quiz.create", resp, err)
}

func (s *QuizService) Answer(ctx context.Context, quizID string, answer domain.QuizAnswer) (*domain.QuizAnswerResponse, error) {
	if err := domain.Validate(answer); err != nil {
		return nil, err
	}

	resp, err := s.client.NewRequest(ctx, answerQuizRoute).
		SetPathParam("id", quizID).
		SetBody(answer).
		Send()
	return parsePtr[domain.QuizAnswerResponse]("quiz.answer", resp, err)
}

func (s *QuizService) Finish(ctx context.Context, quizID string) (*domain.Quiz, error) {
	resp, err := s.client.NewRequest(ctx, finishQuizRoute).
		SetPathParam("id", quizID).
		Send()
	return parsePtr[domain.Quiz]("quiz.finish", resp, err)
}

func (s *QuizService) List(ctx context.Context, page, size *int) (domain.Page[domain.Quiz], error) {
	resp, err := s.client.NewRequest(ctx, listQuizzesRoute).
		SetOptionalIntQueryParam("page", page).
		SetOptionalIntQueryParam("size", size).
		Send()
	return parse[domain.Page[domain.Quiz]]("quiz.list", resp, err)
}

func (s *QuizService) Get(ctx context.Context, id string) (*domain.Quiz, error) {
	resp, err := s.client.NewRequest(ctx, getQuizRoute).
		SetPathParam("id", id).
		Send()
	return parsePtr[domain.Quiz]("quiz.get", resp, err)
}
