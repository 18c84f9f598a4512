package models

// Difficulty selects the pace of a simulated participant.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Language selects the round text language.
type Language string

const (
	LanguageIndonesia Language = "Indonesia"
	LanguageEnglish   Language = "Inggris"

	DefaultLanguage = LanguageIndonesia
)

// Participant is a single roster entry, human or simulated. A participant
// belongs to exactly one room; its fields are guarded by that room's lock.
type Participant struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Progress float64 `json:"progress"`
	Finished bool    `json:"finished"`
	IsBot    bool    `json:"isBot"`
	// Difficulty is set for simulated participants only.
	Difficulty Difficulty `json:"difficulty,omitempty"`
}

// NewParticipant creates a human participant bound to a connection id.
func NewParticipant(connID, name string) *Participant {
	return &Participant{
		ID:   connID,
		Name: name,
	}
}

// NewBot creates a simulated participant.
func NewBot(id, name string, difficulty Difficulty) *Participant {
	return &Participant{
		ID:         id,
		Name:       name,
		IsBot:      true,
		Difficulty: difficulty,
	}
}
