package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	QuestionMultipleChoice = "MULTIPLE_CHOICE"
	QuestionTrueFalse      = "TRUE_FALSE"
	QuestionShortAnswer    = "SHORT_ANSWER"
)

type QuizQuestionModel struct {
	QuizQuestionID     uuid.UUID `json:"quiz_question_id"      gorm:"column:quiz_question_id;type:uuid;default:gen_random_uuid();primaryKey"`
	QuizQuestionQuizID uuid.UUID `json:"quiz_question_quiz_id" gorm:"column:quiz_question_quiz_id;type:uuid;not null"`

	QuizQuestionType string `json:"quiz_question_type" gorm:"column:quiz_question_type;type:varchar(20);not null"`
	QuizQuestionText string `json:"quiz_question_text" gorm:"column:quiz_question_text;not null"`

	// JSON array of string; untuk MULTIPLE_CHOICE correct_answer = teks opsi (bukan index)
	QuizQuestionOptions       datatypes.JSON `json:"quiz_question_options"        gorm:"column:quiz_question_options;type:jsonb;not null;default:'[]'"`
	QuizQuestionCorrectAnswer string         `json:"quiz_question_correct_answer" gorm:"column:quiz_question_correct_answer;not null"`

	QuizQuestionPoints      int     `json:"quiz_question_points"                gorm:"column:quiz_question_points;not null;default:1"`
	QuizQuestionPosition    int     `json:"quiz_question_position"              gorm:"column:quiz_question_position;not null;default:1"`
	QuizQuestionExplanation *string `json:"quiz_question_explanation,omitempty" gorm:"column:quiz_question_explanation"`

	QuizQuestionCreatedAt time.Time `json:"quiz_question_created_at" gorm:"column:quiz_question_created_at;type:timestamptz;not null;autoCreateTime"`
	QuizQuestionUpdatedAt time.Time `json:"quiz_question_updated_at" gorm:"column:quiz_question_updated_at;type:timestamptz;not null;autoUpdateTime"`
}

func (QuizQuestionModel) TableName() string { return "quiz_questions" }

// OptionList decode kolom jsonb; kosong kalau rusak.
func (m *QuizQuestionModel) OptionList() []string {
	var out []string
	if len(m.QuizQuestionOptions) == 0 {
		return []string{}
	}
	if err := json.Unmarshal(m.QuizQuestionOptions, &out); err != nil || out == nil {
		return []string{}
	}
	return out
}

func EncodeOptions(opts []string) datatypes.JSON {
	if opts == nil {
		opts = []string{}
	}
	b, _ := json.Marshal(opts)
	return datatypes.JSON(b)
}
