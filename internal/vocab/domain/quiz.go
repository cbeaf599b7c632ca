package domain

import "math"

type Quiz struct {
	ID             string     `json:"id"`
	UserID         string     `json:"userId"`
	StartedAt      Timestamp  `json:"startedAt"`
	FinishedAt     *Timestamp `json:"finishedAt,omitempty"`
	TotalQuestions int        `json:"totalQuestions"`
	CorrectAnswers int        `json:"correctAnswers"`
	Score          string     `json:"score,omitempty"`
	QuizItems      []QuizItem `json:"quizItems,omitempty"`
}

// Accuracy is the rounded percentage of correct answers.
func (q Quiz) Accuracy() int {
	return percent(q.CorrectAnswers, q.TotalQuestions)
}

func (q Quiz) Finished() bool {
	return q.FinishedAt != nil && !q.FinishedAt.IsZero()
}

type QuizCreate struct {
	Limit *int `json:"limit,omitempty" validate:"omitnil,min=1"`
}

type QuizAnswer struct {
	EntryID    string `json:"entryId" validate:"required"`
	UserAnswer string `json:"userAnswer" validate:"required"`
}

type QuizAnswerResponse struct {
	QuizItemID          string   `json:"quizItemId"`
	EntryID             string   `json:"entryId"`
	UserAnswer          string   `json:"userAnswer"`
	IsCorrect           bool     `json:"isCorrect"`
	CorrectTranslations []string `json:"correctTranslations"`
}

type QuizItem struct {
	QuizItemID          string   `json:"quizItemId"`
	EntryID             string   `json:"entryId"`
	EntryText           string   `json:"entryText"`
	UserAnswer          string   `json:"userAnswer"`
	IsCorrect           bool     `json:"isCorrect"`
	CorrectTranslations []string `json:"correctTranslations"`
}

func percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
