package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/oiorda/orda/core/assessment"
)

const (
	testColumns    = "id, slug, title, short_desc, duration_min, confidential, is_active, created_at"
	attemptColumns = "id, test_id, user_id, status, started_at, finished_at"
)

type assessmentRepository struct {
	db *sqlx.DB
}

var _ assessment.Repository = (*assessmentRepository)(nil)

func NewAssessmentRepository(db *sqlx.DB) assessment.Repository {
	return &assessmentRepository{db: db}
}

func (repo *assessmentRepository) QueryTests(ctx context.Context, activeOnly bool) ([]assessment.Test, error) {
	q := "SELECT " + testColumns + " FROM tests"
	if activeOnly {
		q += " WHERE is_active"
	}
	q += " ORDER BY id"

	var tests []assessment.Test
	if err := repo.db.SelectContext(ctx, &tests, q); err != nil {
		return nil, errors.Wrap(err, "querying tests")
	}
	return tests, nil
}

func (repo *assessmentRepository) getTestBy(ctx context.Context, column string, value interface{}) (assessment.Test, error) {
	var test assessment.Test
	q := "SELECT " + testColumns + " FROM tests WHERE " + column + " = $1"
	if err := repo.db.GetContext(ctx, &test, q, value); err != nil {
		if err == sql.ErrNoRows {
			return assessment.Test{}, assessment.ErrTestNotFound
		}
		return assessment.Test{}, errors.Wrapf(err, "getting test by %s", column)
	}
	return test, nil
}

func (repo *assessmentRepository) GetTestByID(ctx context.Context, id int) (assessment.Test, error) {
	return repo.getTestBy(ctx, "id", id)
}

func (repo *assessmentRepository) GetTestBySlug(ctx context.Context, slug string) (assessment.Test, error) {
	return repo.getTestBy(ctx, "slug", slug)
}

func (repo *assessmentRepository) CreateTest(ctx context.Context, test assessment.Test, questions []assessment.Question) (assessment.Test, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return assessment.Test{}, errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	err = tx.QueryRowxContext(ctx,
		`INSERT INTO tests (slug, title, short_desc, duration_min, confidential, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		test.Slug, test.Title, test.ShortDesc, test.DurationMin, test.Confidential, test.IsActive, test.CreatedAt,
	).Scan(&test.ID)
	if err != nil {
		return assessment.Test{}, errors.Wrap(err, "inserting test")
	}

	for _, q := range questions {
		var questionID int
		err = tx.QueryRowxContext(ctx,
			"INSERT INTO test_questions (test_id, order_no, text, type) VALUES ($1, $2, $3, $4) RETURNING id",
			test.ID, q.Order, q.Text, q.Type,
		).Scan(&questionID)
		if err != nil {
			return assessment.Test{}, errors.Wrap(err, "inserting question")
		}
		for _, o := range q.Options {
			_, err = tx.ExecContext(ctx,
				"INSERT INTO test_options (question_id, order_no, text, value) VALUES ($1, $2, $3, $4)",
				questionID, o.Order, o.Text, o.Value,
			)
			if err != nil {
				return assessment.Test{}, errors.Wrap(err, "inserting option")
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return assessment.Test{}, errors.Wrap(err, "committing transaction")
	}
	return test, nil
}

func (repo *assessmentRepository) QueryQuestions(ctx context.Context, testID int) ([]assessment.Question, error) {
	var questions []assessment.Question
	err := repo.db.SelectContext(ctx, &questions,
		"SELECT id, test_id, order_no, text, type FROM test_questions WHERE test_id = $1 ORDER BY order_no, id",
		testID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying questions")
	}
	if len(questions) == 0 {
		return questions, nil
	}

	var options []assessment.Option
	err = repo.db.SelectContext(ctx, &options,
		`SELECT o.id, o.question_id, o.order_no, o.text, o.value
		FROM test_options o JOIN test_questions q ON q.id = o.question_id
		WHERE q.test_id = $1 ORDER BY o.order_no, o.id`,
		testID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying options")
	}

	index := make(map[int]int, len(questions)) // {questionID: position}
	for i, q := range questions {
		index[q.ID] = i
	}
	for _, o := range options {
		if i, ok := index[o.QuestionID]; ok {
			questions[i].Options = append(questions[i].Options, o)
		}
	}
	return questions, nil
}

func (repo *assessmentRepository) CreateAttempt(ctx context.Context, attempt assessment.Attempt) (assessment.Attempt, error) {
	err := repo.db.QueryRowxContext(ctx,
		`INSERT INTO test_attempts (test_id, user_id, status, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		attempt.TestID, attempt.UserID, attempt.Status, attempt.StartedAt, attempt.FinishedAt,
	).Scan(&attempt.ID)
	if err != nil {
		return assessment.Attempt{}, errors.Wrap(err, "inserting attempt")
	}
	return attempt, nil
}

func (repo *assessmentRepository) getAttempt(ctx context.Context, q string, args ...interface{}) (assessment.Attempt, error) {
	var attempt assessment.Attempt
	if err := repo.db.GetContext(ctx, &attempt, q, args...); err != nil {
		if err == sql.ErrNoRows {
			return assessment.Attempt{}, assessment.ErrAttemptNotFound
		}
		return assessment.Attempt{}, errors.Wrap(err, "getting attempt")
	}
	return attempt, nil
}

func (repo *assessmentRepository) GetAttempt(ctx context.Context, id int) (assessment.Attempt, error) {
	return repo.getAttempt(ctx, "SELECT "+attemptColumns+" FROM test_attempts WHERE id = $1", id)
}

func (repo *assessmentRepository) GetOpenAttempt(ctx context.Context, userID, testID int) (assessment.Attempt, error) {
	return repo.getAttempt(ctx,
		"SELECT "+attemptColumns+" FROM test_attempts WHERE user_id = $1 AND test_id = $2 AND status = $3 ORDER BY id DESC LIMIT 1",
		userID, testID, assessment.StatusInProgress,
	)
}

func (repo *assessmentRepository) FinishAttempt(ctx context.Context, id int, at time.Time) (assessment.Attempt, error) {
	attempt, err := repo.getAttempt(ctx,
		"UPDATE test_attempts SET status = $1, finished_at = $2 WHERE id = $3 AND status = $4 RETURNING "+attemptColumns,
		assessment.StatusSubmitted, at, id, assessment.StatusInProgress,
	)
	if err != assessment.ErrAttemptNotFound {
		return attempt, err
	}
	// the attempt exists but was finished by a concurrent request
	if _, err = repo.GetAttempt(ctx, id); err != nil {
		return assessment.Attempt{}, err
	}
	return assessment.Attempt{}, assessment.ErrAttemptClosed
}

func (repo *assessmentRepository) FilterAttempts(ctx context.Context, filter assessment.AttemptFilter) ([]assessment.Attempt, error) {
	var conds []string
	var args []interface{}
	if filter.UserIDs != nil {
		if len(filter.UserIDs) == 0 {
			return nil, nil
		}
		conds = append(conds, "user_id IN (?)")
		args = append(args, filter.UserIDs)
	}
	if filter.TestID != 0 {
		conds = append(conds, "test_id = ?")
		args = append(args, filter.TestID)
	}
	if filter.FinishedOnly {
		conds = append(conds, "finished_at IS NOT NULL")
	}

	q := "SELECT " + attemptColumns + " FROM test_attempts"
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY id DESC"
	if filter.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	q, args, err := sqlx.In(q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}
	var attempts []assessment.Attempt
	if err = repo.db.SelectContext(ctx, &attempts, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "filtering attempts")
	}
	return attempts, nil
}

func (repo *assessmentRepository) SaveAnswer(ctx context.Context, answer assessment.Answer) error {
	_, err := repo.db.NamedExecContext(ctx,
		`INSERT INTO test_answers (attempt_id, question_id, option_id, answered_at)
		VALUES (:attempt_id, :question_id, :option_id, :answered_at)
		ON CONFLICT (attempt_id, question_id)
		DO UPDATE SET option_id = EXCLUDED.option_id, answered_at = EXCLUDED.answered_at`,
		answer,
	)
	return errors.Wrap(err, "saving answer")
}

func (repo *assessmentRepository) QueryAnswers(ctx context.Context, attemptID int) ([]assessment.Answer, error) {
	var answers []assessment.Answer
	err := repo.db.SelectContext(ctx, &answers,
		"SELECT attempt_id, question_id, option_id, answered_at FROM test_answers WHERE attempt_id = $1 ORDER BY question_id",
		attemptID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying answers")
	}
	return answers, nil
}
