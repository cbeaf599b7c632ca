//go:generate ${TOOLS_BIN}/mockgen -source ${GOFILE} -destination mock/${GOFILE} -package mock -mock_names "API=API"
package quiz

import (
	"context"

	"github.com/klwxsrx/vocab-client/internal/vocab/domain"
)

type API interface {
	Answer(ctx context.Context, quizID string, answer domain.QuizAnswer) (*domain.QuizAnswerResponse, error)
	Finish(ctx context.Context, quizID string) (*domain.Quiz, error)
}
