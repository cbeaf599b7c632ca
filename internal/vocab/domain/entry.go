package domain

type EntryType string

const (
	EntryTypeWord   EntryType = "WORD"
	EntryTypePhrase EntryType = "PHRASE"
)

type Translation struct {
	ID   string `json:"id,omitempty"`
	Text string `json:"text" validate:"required"`
}

type Entry struct {
	ID           string        `json:"id"`
	Type         EntryType     `json:"type"`
	Text         string        `json:"text"`
	Enabled      bool          `json:"enabled"`
	CreatedAt    Timestamp     `json:"createdAt"`
	UpdatedAt    Timestamp     `json:"updatedAt"`
	OwnerID      string        `json:"ownerId"`
	TimesDrawn   int           `json:"timesDrawn"`
	TimesCorrect int           `json:"timesCorrect"`
	TimesWrong   int           `json:"timesWrong"`
	Translations []Translation `json:"translations"`
}

type EntryCreate struct {
	Type         EntryType     `json:"type" validate:"required,oneof=WORD PHRASE"`
	Text         string        `json:"text" validate:"required"`
	Translations []Translation `json:"translations" validate:"required,min=1,dive"`
}

type EntryUpdate struct {
	Text         *string       `json:"text,omitempty" validate:"omitnil,min=1"`
	Type         *EntryType    `json:"type,omitempty" validate:"omitnil,oneof=WORD PHRASE"`
	Enabled      *bool         `json:"enabled,omitempty"`
	Translations []Translation `json:"translations" validate:"required,min=1,dive"`
}

type EntryFilter struct {
	Enabled *bool
	Query   *string
	Page    *int
	Size    *int
}

// EnabledEntries keeps the entries available for quizzes, order is preserved.
func EnabledEntries(entries []Entry) []Entry {
	result := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Enabled {
			result = append(result, e)
		}
	}
	return result
}
