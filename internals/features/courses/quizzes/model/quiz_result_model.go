package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	ResultInProgress = "in_progress"
	ResultSubmitted  = "submitted"
	ResultExpired    = "expired"
)

type QuizResultModel struct {
	QuizResultID     uuid.UUID `json:"quiz_result_id"      gorm:"column:quiz_result_id;type:uuid;default:gen_random_uuid();primaryKey"`
	QuizResultQuizID uuid.UUID `json:"quiz_result_quiz_id" gorm:"column:quiz_result_quiz_id;type:uuid;not null"`
	QuizResultUserID uuid.UUID `json:"quiz_result_user_id" gorm:"column:quiz_result_user_id;type:uuid;not null"`

	QuizResultAttemptNo int    `json:"quiz_result_attempt_no" gorm:"column:quiz_result_attempt_no;not null"`
	QuizResultStatus    string `json:"quiz_result_status"     gorm:"column:quiz_result_status;type:varchar(12);not null;default:'in_progress'"`

	QuizResultScore       int             `json:"quiz_result_score"        gorm:"column:quiz_result_score;not null;default:0"`
	QuizResultTotalPoints int             `json:"quiz_result_total_points" gorm:"column:quiz_result_total_points;not null;default:0"`
	QuizResultPercentage  decimal.Decimal `json:"quiz_result_percentage"   gorm:"column:quiz_result_percentage;type:numeric(5,2);not null;default:0"`

	QuizResultStartedAt   time.Time  `json:"quiz_result_started_at"             gorm:"column:quiz_result_started_at;type:timestamptz;not null"`
	QuizResultSubmittedAt *time.Time `json:"quiz_result_submitted_at,omitempty" gorm:"column:quiz_result_submitted_at;type:timestamptz"`
	QuizResultCreatedAt   time.Time  `json:"quiz_result_created_at"             gorm:"column:quiz_result_created_at;type:timestamptz;not null;autoCreateTime"`

	Answers []QuizResultAnswerModel `json:"answers,omitempty" gorm:"foreignKey:QuizResultAnswerResultID;references:QuizResultID"`
}

func (QuizResultModel) TableName() string { return "quiz_results" }

type QuizResultAnswerModel struct {
	QuizResultAnswerID         uuid.UUID `json:"quiz_result_answer_id"          gorm:"column:quiz_result_answer_id;type:uuid;default:gen_random_uuid();primaryKey"`
	QuizResultAnswerResultID   uuid.UUID `json:"quiz_result_answer_result_id"   gorm:"column:quiz_result_answer_result_id;type:uuid;not null"`
	QuizResultAnswerQuestionID uuid.UUID `json:"quiz_result_answer_question_id" gorm:"column:quiz_result_answer_question_id;type:uuid;not null"`
	QuizResultAnswerValue      string    `json:"quiz_result_answer_value"       gorm:"column:quiz_result_answer_value;not null;default:''"`
	QuizResultAnswerIsCorrect  bool      `json:"quiz_result_answer_is_correct"  gorm:"column:quiz_result_answer_is_correct;not null;default:false"`
	QuizResultAnswerPoints     int       `json:"quiz_result_answer_points"      gorm:"column:quiz_result_answer_points;not null;default:0"`
}

func (QuizResultAnswerModel) TableName() string { return "quiz_result_answers" }
