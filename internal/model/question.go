package model

// QuestionType defines the declared type of a catalog question
type QuestionType string

const (
	QuestionSingleChoice QuestionType = "single_choice" // One option code per respondent
	QuestionMultiChoice  QuestionType = "multi_choice"  // Zero or more option codes per respondent
	QuestionNumeric      QuestionType = "numeric"       // Free numeric value
	QuestionOrdinalScale QuestionType = "ordinal_scale" // Ordered option codes (likert, NPS 0-10)
)

// NumericRange bounds the valid values of a numeric question
type NumericRange struct {
	Min float64 `json:"min" bson:"min"`
	Max float64 `json:"max" bson:"max"`
}

// Question describes one answerable column of the respondent dataset.
// Owned exclusively by the catalog for the lifetime of a session.
type Question struct {
	ID         string        `json:"question_id" bson:"questionId"`
	Type       QuestionType  `json:"type" bson:"type"`
	Label      string        `json:"label" bson:"label"`
	Options    []string      `json:"options,omitempty" bson:"options,omitempty"` // Declared order is the reporting order
	Range      *NumericRange `json:"range,omitempty" bson:"range,omitempty"`
	IsNPSScale bool          `json:"is_nps_scale,omitempty" bson:"isNpsScale,omitempty"` // 0-10 scale eligible for the nps metric
}

// IsChoice reports whether the question carries declared option codes.
func (q Question) IsChoice() bool {
	switch q.Type {
	case QuestionSingleChoice, QuestionMultiChoice, QuestionOrdinalScale:
		return true
	}
	return false
}
