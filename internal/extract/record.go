package extract

// QuestionType categorizes an extracted exam question. The values double
// as the human-facing strings written to the output database.
type QuestionType string

const (
	TypeListening            QuestionType = "Listening"
	TypeFillInBlank          QuestionType = "Fill-in-the-Blank"
	TypeGrammarReading       QuestionType = "Grammar/Reading"
	TypeVocabularyKanjiKana  QuestionType = "Vocabulary (Kanji/Kana)"
	TypeSynonym              QuestionType = "Synonym"
	TypeSentenceConstruction QuestionType = "Sentence Construction"
)

// IsValid checks if the question type is one of the known categories.
func (qt QuestionType) IsValid() bool {
	switch qt {
	case TypeListening, TypeFillInBlank, TypeGrammarReading,
		TypeVocabularyKanjiKana, TypeSynonym, TypeSentenceConstruction:
		return true
	default:
		return false
	}
}

// Placeholder is the literal token substituted for an excised answer
// within a question prompt.
const Placeholder = " (______) "

// Record is one normalized question row. Number is the exam-local ordinal
// and may repeat across question groups; SourcePage is 1-based. An empty
// Answer means no typographic mark was detected, which is a degraded but
// valid outcome surfaced for human review.
type Record struct {
	Type       QuestionType `json:"type"`
	Number     string       `json:"number"`
	Dialogue   string       `json:"dialogue"`
	Question   string       `json:"question"`
	Choices    string       `json:"choices"`
	Answer     string       `json:"answer"`
	SourcePage int          `json:"source_page"`
}

// Valid reports whether the record satisfies the output invariant:
// non-empty type, number and question.
func (r Record) Valid() bool {
	return r.Type != "" && r.Number != "" && r.Question != ""
}
