package assessment

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/oiorda/orda/core"
	"github.com/oiorda/orda/core/i18n"
	"github.com/oiorda/orda/core/user"
)

// RecentLimit caps the recent results of a class overview.
const RecentLimit = 20

var (
	errNoPermsToSeeClass = "not enough rights to see this classroom"

	mbtiLetters = []string{"E", "I", "S", "N", "T", "F", "J", "P"}
)

type (
	// TestCount is the number of attempts, finished or not, the students of a classroom made on a test.
	TestCount struct {
		TestSlug  string `json:"test_slug"`
		TestTitle string `json:"test_title"`
		Attempts  int    `json:"attempts"`
	}

	// LetterCount sums the votes for an MBTI letter.
	LetterCount struct {
		Letter string `json:"letter"`
		Count  int    `json:"count"`
	}

	ClassResult struct {
		Student user.User `json:"student"`
		ResultSummary
	}

	// ClassOverview is the dashboard of a classroom.
	ClassOverview struct {
		ClassRisk
		Tests  []TestCount   `json:"tests"`
		MBTI   []LetterCount `json:"mbti"`
		Recent []ClassResult `json:"recent"`
	}
)

// ClassOverview gathers the screening risk, the test activity, the MBTI letter distribution
// and the latest results of the active students of a classroom.
// viewer must be allowed to see every one of them.
func (svc *Service) ClassOverview(ctx context.Context, viewer user.User, classroomID int, lang i18n.Lang) (ClassOverview, error) {
	if !viewer.IsStaff() {
		return ClassOverview{}, core.NewPermissionError(errNoPermsToSeeClass)
	}
	students, err := svc.users.StudentsInClassroom(ctx, classroomID)
	if err != nil {
		return ClassOverview{}, errors.Wrap(err, "querying students")
	}
	byID := make(map[int]user.User, len(students))
	ids := make([]int, 0, len(students))
	for _, s := range students {
		if !viewer.CanSee(s) {
			return ClassOverview{}, core.NewPermissionError(errNoPermsToSeeClass)
		}
		byID[s.ID] = s
		ids = append(ids, s.ID)
	}

	classRisk, err := svc.classRisk(ctx, classroomID, students, lang)
	if err != nil {
		return ClassOverview{}, err
	}
	res := ClassOverview{
		ClassRisk: classRisk,
		Tests:     []TestCount{},
		MBTI:      make([]LetterCount, 0, len(mbtiLetters)),
		Recent:    []ClassResult{},
	}

	attempts, err := svc.repo.FilterAttempts(ctx, AttemptFilter{UserIDs: ids})
	if err != nil {
		return ClassOverview{}, errors.Wrap(err, "filtering attempts")
	}

	tests := make(map[int]Test)
	counts := make(map[int]int)
	var finished []Attempt
	for _, a := range attempts {
		if _, ok := tests[a.TestID]; !ok {
			test, err := svc.repo.GetTestByID(ctx, a.TestID)
			if err != nil {
				return ClassOverview{}, errors.Wrap(err, "getting test")
			}
			tests[a.TestID] = test
		}
		counts[a.TestID]++
		if a.FinishedAt.Valid {
			finished = append(finished, a)
		}
	}
	for testID, n := range counts {
		test := tests[testID]
		res.Tests = append(res.Tests, TestCount{TestSlug: test.Slug, TestTitle: test.Title, Attempts: n})
	}
	sort.Slice(res.Tests, func(i, j int) bool {
		if res.Tests[i].Attempts != res.Tests[j].Attempts {
			return res.Tests[i].Attempts > res.Tests[j].Attempts
		}
		return res.Tests[i].TestSlug < res.Tests[j].TestSlug
	})

	sort.SliceStable(finished, func(i, j int) bool {
		return finished[i].FinishedAt.Time.After(finished[j].FinishedAt.Time)
	})
	letters := make(map[string]int, len(mbtiLetters))
	for i, a := range finished {
		isMBTI := tests[a.TestID].Slug == SlugMBTI
		if i >= RecentLimit && !isMBTI {
			continue
		}
		report, err := svc.score(ctx, a, lang)
		if err != nil {
			return ClassOverview{}, err
		}
		if isMBTI {
			for _, letter := range mbtiLetters {
				letters[letter] += report.Totals.PerScale[letter]
			}
		}
		if i < RecentLimit {
			res.Recent = append(res.Recent, ClassResult{Student: byID[a.UserID], ResultSummary: staffSummary(report)})
		}
	}
	for _, letter := range mbtiLetters {
		res.MBTI = append(res.MBTI, LetterCount{Letter: letter, Count: letters[letter]})
	}
	return res, nil
}
