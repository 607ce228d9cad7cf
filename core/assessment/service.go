// Package assessment runs tests: it delivers instruments, records the answers of attempts and
// scores them through the scoring and interpret packages.
package assessment

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/oiorda/orda/core"
	"github.com/oiorda/orda/core/i18n"
	"github.com/oiorda/orda/core/risk"
	"github.com/oiorda/orda/core/user"
)

var (
	nowFunc = time.Now // mockable

	// errors
	ErrTestNotFound    = errors.New("test not found")
	ErrTestInactive    = errors.New("test is not available")
	ErrSlugExists      = errors.New("a test with this slug already exists")
	ErrAttemptNotFound = errors.New("attempt not found")
	ErrAttemptClosed   = errors.New("attempt is already finished")
	ErrQuestionInvalid = errors.New("question does not belong to this test")
	ErrOptionInvalid   = errors.New("option does not belong to this question")
)

type (
	Repository interface {
		QueryTests(ctx context.Context, activeOnly bool) ([]Test, error)
		GetTestByID(ctx context.Context, id int) (Test, error)
		GetTestBySlug(ctx context.Context, slug string) (Test, error)
		// CreateTest saves the test with its questions and options, assigning their IDs.
		CreateTest(ctx context.Context, test Test, questions []Question) (Test, error)
		// QueryQuestions returns the questions of a test with their options, both by ascending order.
		QueryQuestions(ctx context.Context, testID int) ([]Question, error)

		CreateAttempt(ctx context.Context, attempt Attempt) (Attempt, error)
		GetAttempt(ctx context.Context, id int) (Attempt, error)
		// GetOpenAttempt returns the in-progress attempt of a user for a test, if any.
		GetOpenAttempt(ctx context.Context, userID, testID int) (Attempt, error)
		FinishAttempt(ctx context.Context, id int, at time.Time) (Attempt, error)
		FilterAttempts(ctx context.Context, filter AttemptFilter) ([]Attempt, error)

		// SaveAnswer records an answer, replacing a previous answer to the same question.
		SaveAnswer(ctx context.Context, answer Answer) error
		QueryAnswers(ctx context.Context, attemptID int) ([]Answer, error)
	}

	// UserFinder looks up the users attempts belong to.
	UserFinder interface {
		GetByID(ctx context.Context, id int) (user.User, error)
		StudentsInClassroom(ctx context.Context, classroomID int) ([]user.User, error)
	}

	Service struct {
		repo        Repository
		users       UserFinder
		mailSvc     core.EmailService
		logger      core.Logger
		conf        *core.Config
		alertEmails []mail.Address
	}
)

func NewService(repo Repository, users UserFinder, mailSvc core.EmailService, logger core.Logger, conf *core.Config) *Service {
	svc := &Service{
		repo:    repo,
		users:   users,
		mailSvc: mailSvc,
		logger:  logger,
		conf:    conf,
	}
	for _, addr := range conf.Risk.AlertEmails {
		parsed, err := mail.ParseAddress(addr)
		if err != nil {
			logger.Warn(fmt.Sprintf("ignoring invalid risk alert address %q", addr), err)
			continue
		}
		svc.alertEmails = append(svc.alertEmails, *parsed)
	}
	return svc
}

func (svc *Service) QueryTests(ctx context.Context, activeOnly bool) ([]Test, error) {
	return svc.repo.QueryTests(ctx, activeOnly)
}

func (svc *Service) GetTest(ctx context.Context, slug string) (Test, []Question, error) {
	test, err := svc.repo.GetTestBySlug(ctx, core.CleanString(slug, true /* lower */))
	if err != nil {
		return Test{}, nil, err
	}
	questions, err := svc.repo.QueryQuestions(ctx, test.ID)
	if err != nil {
		return Test{}, nil, errors.Wrap(err, "querying questions")
	}
	return test, questions, nil
}

// CreateTest validates and saves a new instrument.
func (svc *Service) CreateTest(ctx context.Context, nt NewTest) (Test, error) {
	if err := nt.Validate(); err != nil {
		return Test{}, err
	}
	if _, err := svc.repo.GetTestBySlug(ctx, nt.Slug); err == nil {
		return Test{}, core.NewValidationError(ErrSlugExists, core.FieldError{Field: "slug", Error: ErrSlugExists.Error()})
	} else if err != ErrTestNotFound {
		return Test{}, errors.Wrap(err, "checking slug")
	}

	test := Test{
		Slug:         nt.Slug,
		Title:        nt.Title,
		ShortDesc:    nt.ShortDesc,
		DurationMin:  nt.DurationMin,
		Confidential: nt.Confidential,
		IsActive:     true,
		CreatedAt:    nowFunc().UTC(),
	}
	questions := make([]Question, 0, len(nt.Questions))
	for i, nq := range nt.Questions {
		q := Question{Order: i + 1, Text: core.CleanString(nq.Text), Type: nq.Type}
		for j, no := range nq.Options {
			q.Options = append(q.Options, Option{Order: j + 1, Text: core.CleanString(no.Text), Value: no.Value})
		}
		questions = append(questions, q)
	}
	return svc.repo.CreateTest(ctx, test, questions)
}

// Start resumes the open attempt of the user for the test, or starts a new one.
func (svc *Service) Start(ctx context.Context, userID int, slug string) (Attempt, error) {
	test, err := svc.repo.GetTestBySlug(ctx, core.CleanString(slug, true /* lower */))
	if err != nil {
		return Attempt{}, err
	}
	if !test.IsActive {
		return Attempt{}, ErrTestInactive
	}

	attempt, err := svc.repo.GetOpenAttempt(ctx, userID, test.ID)
	if err == nil {
		return attempt, nil
	}
	if err != ErrAttemptNotFound {
		return Attempt{}, errors.Wrap(err, "getting open attempt")
	}
	return svc.repo.CreateAttempt(ctx, Attempt{
		TestID:    test.ID,
		UserID:    userID,
		Status:    StatusInProgress,
		StartedAt: nowFunc().UTC(),
	})
}

// ownAttempt returns the attempt if it belongs to userID.
func (svc *Service) ownAttempt(ctx context.Context, userID, attemptID int) (Attempt, error) {
	attempt, err := svc.repo.GetAttempt(ctx, attemptID)
	if err != nil {
		return Attempt{}, err
	}
	if attempt.UserID != userID {
		return Attempt{}, ErrAttemptNotFound
	}
	return attempt, nil
}

// Answer records the option chosen by the user for a question of their open attempt.
func (svc *Service) Answer(ctx context.Context, userID, attemptID int, req AnswerRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	attempt, err := svc.ownAttempt(ctx, userID, attemptID)
	if err != nil {
		return err
	}
	if !attempt.IsOpen() {
		return ErrAttemptClosed
	}

	questions, err := svc.repo.QueryQuestions(ctx, attempt.TestID)
	if err != nil {
		return errors.Wrap(err, "querying questions")
	}
	var question *Question
	for i := range questions {
		if questions[i].ID == req.QuestionID {
			question = &questions[i]
			break
		}
	}
	if question == nil {
		return core.NewValidationError(ErrQuestionInvalid, core.FieldError{Field: "question_id", Error: ErrQuestionInvalid.Error()})
	}
	var found bool
	for _, o := range question.Options {
		if o.ID == req.OptionID {
			found = true
			break
		}
	}
	if !found {
		return core.NewValidationError(ErrOptionInvalid, core.FieldError{Field: "option_id", Error: ErrOptionInvalid.Error()})
	}

	return svc.repo.SaveAnswer(ctx, Answer{
		AttemptID:  attempt.ID,
		QuestionID: question.ID,
		OptionID:   req.OptionID,
		AnsweredAt: nowFunc().UTC(),
	})
}

// Finish submits the open attempt of the user.
// A high risk screening result alerts the configured staff addresses.
func (svc *Service) Finish(ctx context.Context, userID, attemptID int) (Attempt, error) {
	attempt, err := svc.ownAttempt(ctx, userID, attemptID)
	if err != nil {
		return Attempt{}, err
	}
	if !attempt.IsOpen() {
		return Attempt{}, ErrAttemptClosed
	}
	attempt, err = svc.repo.FinishAttempt(ctx, attempt.ID, nowFunc().UTC())
	if err != nil {
		if err == ErrAttemptClosed {
			return Attempt{}, err
		}
		return Attempt{}, errors.Wrap(err, "finishing attempt")
	}

	if err := svc.alertOnRisk(ctx, attempt); err != nil {
		svc.logger.Error("risk alert failed", errors.Wrap(err, "alerting on risk"), map[string]interface{}{"attempt": attempt.ID})
	}
	return attempt, nil
}

type riskAlertData struct {
	StudentID   int
	StudentName string
	TestTitle   string
	AttemptID   int
	Label       string
	Reason      string
}

func (svc *Service) alertOnRisk(ctx context.Context, attempt Attempt) error {
	if len(svc.alertEmails) == 0 || svc.mailSvc == nil {
		return nil
	}
	test, err := svc.repo.GetTestByID(ctx, attempt.TestID)
	if err != nil {
		return errors.Wrap(err, "getting test")
	}
	if test.Slug != SlugCDI {
		return nil
	}

	report, err := svc.Score(ctx, attempt.ID, i18n.Normalize(svc.conf.DefaultLanguage))
	if err != nil {
		return err
	}
	if report.Interpretation.Risk == nil || report.Interpretation.Risk.Level != risk.High {
		return nil
	}

	student, err := svc.users.GetByID(ctx, attempt.UserID)
	if err != nil {
		return errors.Wrap(err, "getting student")
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           svc.alertEmails,
		Subject:      "Screening result needs attention",
		TemplateName: "risk_alert",
		TemplateData: riskAlertData{
			StudentID:   student.ID,
			StudentName: student.Name,
			TestTitle:   report.Test.Title,
			AttemptID:   attempt.ID,
			Label:       report.Interpretation.Risk.Label,
			Reason:      report.Interpretation.Risk.Reason,
		},
	})
	svc.logger.Info(fmt.Sprintf("risk alert sent for attempt %d", attempt.ID), student)
	return nil
}
