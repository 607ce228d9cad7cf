package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/oiorda/orda/core/assessment"
)

type assessmentRepository struct {
	db *assessmentTables
}

var _ assessment.Repository = (*assessmentRepository)(nil)

func NewAssessmentRepository(db *DB) assessment.Repository {
	return &assessmentRepository{db: db.assessment}
}

func (repo *assessmentRepository) QueryTests(_ context.Context, activeOnly bool) ([]assessment.Test, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	tests := make([]assessment.Test, 0, len(repo.db.tests))
	for _, t := range repo.db.tests {
		if activeOnly && !t.IsActive {
			continue
		}
		tests = append(tests, *t)
	}
	sort.Slice(tests, func(i, j int) bool { return tests[i].ID < tests[j].ID })
	return tests, nil
}

func (repo *assessmentRepository) GetTestByID(_ context.Context, id int) (assessment.Test, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if t, ok := repo.db.tests[id]; ok {
		return *t, nil
	}
	return assessment.Test{}, assessment.ErrTestNotFound
}

func (repo *assessmentRepository) GetTestBySlug(_ context.Context, slug string) (assessment.Test, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, t := range repo.db.tests {
		if t.Slug == slug {
			return *t, nil
		}
	}
	return assessment.Test{}, assessment.ErrTestNotFound
}

func (repo *assessmentRepository) CreateTest(_ context.Context, test assessment.Test, questions []assessment.Question) (assessment.Test, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.testPK++
	test.ID = repo.db.testPK
	repo.db.tests[test.ID] = &test

	saved := make([]assessment.Question, 0, len(questions))
	for _, q := range questions {
		repo.db.questPK++
		q.ID = repo.db.questPK
		q.TestID = test.ID
		opts := make([]assessment.Option, 0, len(q.Options))
		for _, o := range q.Options {
			repo.db.optionPK++
			o.ID = repo.db.optionPK
			o.QuestionID = q.ID
			opts = append(opts, o)
		}
		q.Options = opts
		saved = append(saved, q)
	}
	repo.db.questions[test.ID] = saved
	return test, nil
}

func (repo *assessmentRepository) QueryQuestions(_ context.Context, testID int) ([]assessment.Question, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	stored := repo.db.questions[testID]
	questions := make([]assessment.Question, 0, len(stored))
	for _, q := range stored {
		opts := make([]assessment.Option, len(q.Options))
		copy(opts, q.Options)
		sort.SliceStable(opts, func(i, j int) bool { return opts[i].Order < opts[j].Order })
		q.Options = opts
		questions = append(questions, q)
	}
	sort.SliceStable(questions, func(i, j int) bool { return questions[i].Order < questions[j].Order })
	return questions, nil
}

func (repo *assessmentRepository) CreateAttempt(_ context.Context, attempt assessment.Attempt) (assessment.Attempt, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.attemptPK++
	attempt.ID = repo.db.attemptPK
	repo.db.attempts[attempt.ID] = &attempt
	return attempt, nil
}

func (repo *assessmentRepository) GetAttempt(_ context.Context, id int) (assessment.Attempt, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if a, ok := repo.db.attempts[id]; ok {
		return *a, nil
	}
	return assessment.Attempt{}, assessment.ErrAttemptNotFound
}

func (repo *assessmentRepository) GetOpenAttempt(_ context.Context, userID, testID int) (assessment.Attempt, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var open *assessment.Attempt
	for _, a := range repo.db.attempts {
		if a.UserID == userID && a.TestID == testID && a.IsOpen() && (open == nil || a.ID > open.ID) {
			open = a
		}
	}
	if open == nil {
		return assessment.Attempt{}, assessment.ErrAttemptNotFound
	}
	return *open, nil
}

func (repo *assessmentRepository) FinishAttempt(_ context.Context, id int, at time.Time) (assessment.Attempt, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	a, ok := repo.db.attempts[id]
	if !ok {
		return assessment.Attempt{}, assessment.ErrAttemptNotFound
	}
	if !a.IsOpen() {
		return assessment.Attempt{}, assessment.ErrAttemptClosed
	}
	a.Status = assessment.StatusSubmitted
	a.FinishedAt = null.TimeFrom(at)
	return *a, nil
}

func (repo *assessmentRepository) FilterAttempts(_ context.Context, filter assessment.AttemptFilter) ([]assessment.Attempt, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	users := make(map[int]bool, len(filter.UserIDs))
	for _, id := range filter.UserIDs {
		users[id] = true
	}

	var attempts []assessment.Attempt
	for _, a := range repo.db.attempts {
		if filter.UserIDs != nil && !users[a.UserID] {
			continue
		}
		if filter.TestID != 0 && a.TestID != filter.TestID {
			continue
		}
		if filter.FinishedOnly && !a.FinishedAt.Valid {
			continue
		}
		attempts = append(attempts, *a)
	}
	sort.Slice(attempts, func(i, j int) bool { return attempts[i].ID > attempts[j].ID })
	if filter.Limit > 0 && len(attempts) > filter.Limit {
		attempts = attempts[:filter.Limit]
	}
	return attempts, nil
}

func (repo *assessmentRepository) SaveAnswer(_ context.Context, answer assessment.Answer) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.attempts[answer.AttemptID]; !ok {
		return assessment.ErrAttemptNotFound
	}
	repo.db.answers[answerKey{answer.AttemptID, answer.QuestionID}] = answer
	return nil
}

func (repo *assessmentRepository) QueryAnswers(_ context.Context, attemptID int) ([]assessment.Answer, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var answers []assessment.Answer
	for key, a := range repo.db.answers {
		if key.attemptID == attemptID {
			answers = append(answers, a)
		}
	}
	sort.Slice(answers, func(i, j int) bool { return answers[i].QuestionID < answers[j].QuestionID })
	return answers, nil
}
