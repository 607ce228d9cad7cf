package assessment

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/oiorda/orda/core"
	"github.com/oiorda/orda/core/i18n"
	"github.com/oiorda/orda/core/interpret"
	"github.com/oiorda/orda/core/risk"
	"github.com/oiorda/orda/core/scoring"
	"github.com/oiorda/orda/core/user"
)

var errNoPermsToSeeAttempt = "not enough rights to see this attempt"

type (
	// Report is the scored outcome of an attempt.
	Report struct {
		Test           Test             `json:"test"`
		Attempt        Attempt          `json:"attempt"`
		Totals         *scoring.Totals  `json:"totals,omitempty"`
		Percent        *int             `json:"percent,omitempty"`
		Interpretation interpret.Result `json:"interpretation"`
		Rows           []AnswerRow      `json:"rows,omitempty"`
		Redacted       bool             `json:"redacted,omitempty"`
	}

	// AnswerRow is one question of a report with the chosen answer, if any.
	AnswerRow struct {
		Order    int         `json:"order"`
		Question string      `json:"question"`
		Answer   null.String `json:"answer"`
		Value    null.String `json:"value"`
	}

	// ResultSummary is a line of the results list of a learner.
	ResultSummary struct {
		AttemptID  int       `json:"attempt_id"`
		TestSlug   string    `json:"test_slug"`
		TestTitle  string    `json:"test_title"`
		FinishedAt null.Time `json:"finished_at"`
		Title      string    `json:"title"`
		Code       string    `json:"code,omitempty"`
		// set for staff views only
		Confidential bool       `json:"confidential,omitempty"`
		Risk         *risk.Band `json:"risk,omitempty"`
	}
)

// Score scores an attempt. Every view of a result goes through it.
func (svc *Service) Score(ctx context.Context, attemptID int, lang i18n.Lang) (Report, error) {
	attempt, err := svc.repo.GetAttempt(ctx, attemptID)
	if err != nil {
		return Report{}, err
	}
	return svc.score(ctx, attempt, lang)
}

func (svc *Service) score(ctx context.Context, attempt Attempt, lang i18n.Lang) (Report, error) {
	test, err := svc.repo.GetTestByID(ctx, attempt.TestID)
	if err != nil {
		return Report{}, errors.Wrap(err, "getting test")
	}
	questions, err := svc.repo.QueryQuestions(ctx, test.ID)
	if err != nil {
		return Report{}, errors.Wrap(err, "querying questions")
	}
	answers, err := svc.repo.QueryAnswers(ctx, attempt.ID)
	if err != nil {
		return Report{}, errors.Wrap(err, "querying answers")
	}

	chosen := AnswerMap(answers)
	totals := scoring.Aggregate(ToScoring(questions), chosen)
	report := Report{
		Test:           test,
		Attempt:        attempt,
		Totals:         &totals,
		Interpretation: interpret.Interpret(test.Slug, totals, lang),
		Rows:           answerRows(questions, chosen),
	}
	if pct, ok := totals.Percent(); ok {
		report.Percent = &pct
	}
	return report, nil
}

func answerRows(questions []Question, chosen map[int]int) []AnswerRow {
	sorted := make([]Question, len(questions))
	copy(sorted, questions)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })

	rows := make([]AnswerRow, 0, len(sorted))
	for _, q := range sorted {
		row := AnswerRow{Order: q.Order, Question: q.Text}
		if optID, ok := chosen[q.ID]; ok {
			for _, o := range q.Options {
				if o.ID == optID {
					row.Answer = null.StringFrom(o.Text)
					row.Value = o.Value
					break
				}
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// ReportFor scores an attempt as seen by viewer.
// Students only see their own attempts, and only a redacted report of confidential instruments.
func (svc *Service) ReportFor(ctx context.Context, viewer user.User, attemptID int, lang i18n.Lang) (Report, error) {
	attempt, err := svc.repo.GetAttempt(ctx, attemptID)
	if err != nil {
		return Report{}, err
	}

	if viewer.ID != attempt.UserID {
		if !viewer.IsStaff() {
			return Report{}, ErrAttemptNotFound
		}
		owner, err := svc.users.GetByID(ctx, attempt.UserID)
		if err != nil {
			return Report{}, errors.Wrap(err, "getting attempt owner")
		}
		if !viewer.CanSee(owner) {
			return Report{}, core.NewPermissionError(errNoPermsToSeeAttempt)
		}
	}

	report, err := svc.score(ctx, attempt, lang)
	if err != nil {
		return Report{}, err
	}
	if report.Test.Confidential && !viewer.IsStaff() {
		return redact(report, lang), nil
	}
	return report, nil
}

func redact(report Report, lang i18n.Lang) Report {
	return Report{
		Test:           report.Test,
		Attempt:        report.Attempt,
		Interpretation: interpret.Confidential(report.Test.Title, lang),
		Redacted:       true,
	}
}

// StudentResults lists the finished attempts of a learner, most recent first.
// Confidential instruments are left out.
func (svc *Service) StudentResults(ctx context.Context, userID int, lang i18n.Lang) ([]ResultSummary, error) {
	attempts, err := svc.repo.FilterAttempts(ctx, AttemptFilter{UserIDs: []int{userID}, FinishedOnly: true})
	if err != nil {
		return nil, errors.Wrap(err, "filtering attempts")
	}

	results := make([]ResultSummary, 0, len(attempts))
	for _, attempt := range attempts {
		report, err := svc.score(ctx, attempt, lang)
		if err != nil {
			return nil, err
		}
		if report.Test.Confidential {
			continue
		}
		results = append(results, ResultSummary{
			AttemptID:  attempt.ID,
			TestSlug:   report.Test.Slug,
			TestTitle:  report.Test.Title,
			FinishedAt: attempt.FinishedAt,
			Title:      report.Interpretation.Title,
			Code:       report.Interpretation.Code,
		})
	}
	return results, nil
}

// staffSummary is the results line of a report as shown to staff.
func staffSummary(report Report) ResultSummary {
	return ResultSummary{
		AttemptID:    report.Attempt.ID,
		TestSlug:     report.Test.Slug,
		TestTitle:    report.Test.Title,
		FinishedAt:   report.Attempt.FinishedAt,
		Title:        report.Interpretation.Title,
		Code:         report.Interpretation.Code,
		Confidential: report.Test.Confidential,
		Risk:         report.Interpretation.Risk,
	}
}

// AttemptsOf lists the finished attempts of a student as seen by staff, most recent first.
// Confidential instruments are included.
func (svc *Service) AttemptsOf(ctx context.Context, viewer user.User, studentID int, lang i18n.Lang) ([]ResultSummary, error) {
	if !viewer.IsStaff() {
		return nil, core.NewPermissionError(errNoPermsToSeeAttempt)
	}
	student, err := svc.users.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if !student.IsStudent() {
		return nil, user.ErrNotFound
	}
	if !viewer.CanSee(student) {
		return nil, core.NewPermissionError(errNoPermsToSeeAttempt)
	}

	attempts, err := svc.repo.FilterAttempts(ctx, AttemptFilter{UserIDs: []int{student.ID}, FinishedOnly: true})
	if err != nil {
		return nil, errors.Wrap(err, "filtering attempts")
	}
	results := make([]ResultSummary, 0, len(attempts))
	for _, attempt := range attempts {
		report, err := svc.score(ctx, attempt, lang)
		if err != nil {
			return nil, err
		}
		results = append(results, staffSummary(report))
	}
	return results, nil
}
