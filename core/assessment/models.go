package assessment

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/oiorda/orda/core"
	"github.com/oiorda/orda/core/scoring"
)

// Attempt statuses
const (
	StatusInProgress = "in_progress"
	StatusSubmitted  = "submitted"
	StatusExpired    = "expired"
)

// Question types
const (
	QuestionSingle = "single"
	QuestionMulti  = "multi"
	QuestionScale  = "scale"
	QuestionBool   = "bool"
)

// Instruments with dedicated dashboards
const (
	SlugCDI  = "cdi" // depression screening
	SlugMBTI = "mbti"
)

type (
	// Test is a psychometric instrument.
	Test struct {
		ID           int       `json:"id" db:"id"`
		Slug         string    `json:"slug" db:"slug"`
		Title        string    `json:"title" db:"title"`
		ShortDesc    string    `json:"short_desc" db:"short_desc"`
		DurationMin  int       `json:"duration_min" db:"duration_min"`
		Confidential bool      `json:"confidential" db:"confidential"`
		IsActive     bool      `json:"is_active" db:"is_active"`
		CreatedAt    time.Time `json:"created_at" db:"created_at"`
	}

	Question struct {
		ID      int      `json:"id" db:"id"`
		TestID  int      `json:"test_id" db:"test_id"`
		Order   int      `json:"order" db:"order_no"`
		Text    string   `json:"text" db:"text"`
		Type    string   `json:"type" db:"type"`
		Options []Option `json:"options" db:"-"`
	}

	// Option is a possible answer; Value carries its scoring.
	Option struct {
		ID         int         `json:"id" db:"id"`
		QuestionID int         `json:"question_id" db:"question_id"`
		Order      int         `json:"order" db:"order_no"`
		Text       string      `json:"text" db:"text"`
		Value      null.String `json:"-" db:"value"`
	}

	Attempt struct {
		ID         int       `json:"id" db:"id"`
		TestID     int       `json:"test_id" db:"test_id"`
		UserID     int       `json:"user_id" db:"user_id"`
		Status     string    `json:"status" db:"status"`
		StartedAt  time.Time `json:"started_at" db:"started_at"`
		FinishedAt null.Time `json:"finished_at" db:"finished_at"`
	}

	Answer struct {
		AttemptID  int       `json:"attempt_id" db:"attempt_id"`
		QuestionID int       `json:"question_id" db:"question_id"`
		OptionID   int       `json:"option_id" db:"option_id"`
		AnsweredAt time.Time `json:"answered_at" db:"answered_at"`
	}

	// AttemptFilter applies AND operation on its set fields. Results are ordered by descending ID.
	AttemptFilter struct {
		UserIDs      []int
		TestID       int
		FinishedOnly bool
		Limit        int
	}
)

func (a Attempt) IsOpen() bool { return a.Status == StatusInProgress }

// ToScoring converts questions into the snapshot the scoring package works on.
func ToScoring(questions []Question) []scoring.Question {
	out := make([]scoring.Question, 0, len(questions))
	for _, q := range questions {
		sq := scoring.Question{ID: q.ID, Order: q.Order, Type: q.Type}
		for _, o := range q.Options {
			sq.Options = append(sq.Options, scoring.Option{ID: o.ID, Order: o.Order, Value: o.Value})
		}
		out = append(out, sq)
	}
	return out
}

// AnswerMap maps question IDs to chosen option IDs.
func AnswerMap(answers []Answer) map[int]int {
	m := make(map[int]int, len(answers))
	for _, a := range answers {
		m[a.QuestionID] = a.OptionID
	}
	return m
}

// NewTest contains information needed to create a Test with its questions.
type NewTest struct {
	Slug         string        `json:"slug" validate:"required,notblank,max=64"`
	Title        string        `json:"title" validate:"required,notblank,max=200"`
	ShortDesc    string        `json:"short_desc" validate:"max=400"`
	DurationMin  int           `json:"duration_min" validate:"min=0"`
	Confidential bool          `json:"confidential"`
	Questions    []NewQuestion `json:"questions" validate:"required,min=1,dive"`
}

type NewQuestion struct {
	Text    string      `json:"text" validate:"required,notblank"`
	Type    string      `json:"type" validate:"omitempty,oneof=single multi scale bool"`
	Options []NewOption `json:"options" validate:"required,min=1,dive"`
}

type NewOption struct {
	Text  string      `json:"text" validate:"required,notblank,max=300"`
	Value null.String `json:"value" validate:"omitempty,max=64"`
}

func (nt *NewTest) Validate() error {
	nt.Slug = core.CleanString(nt.Slug, true /* lower */)
	nt.Title = core.CleanString(nt.Title)
	for i := range nt.Questions {
		if nt.Questions[i].Type == "" {
			nt.Questions[i].Type = QuestionSingle
		}
	}
	return core.Validate.Struct(nt)
}

// AnswerRequest records the option chosen for a question.
type AnswerRequest struct {
	QuestionID int `json:"question_id" validate:"required"`
	OptionID   int `json:"option_id" validate:"required"`
}

func (ar AnswerRequest) Validate() error { return core.Validate.Struct(ar) }
