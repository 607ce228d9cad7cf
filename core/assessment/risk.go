package assessment

import (
	"context"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/oiorda/orda/core/i18n"
	"github.com/oiorda/orda/core/risk"
	"github.com/oiorda/orda/core/user"
)

type (
	// RiskEntry is the screening risk of a learner, from their latest CDI attempt.
	RiskEntry struct {
		UserID     int        `json:"user_id"`
		AttemptID  int        `json:"attempt_id,omitempty"`
		Raw        *int       `json:"raw,omitempty"`
		FinishedAt null.Time  `json:"finished_at"`
		Band       *risk.Band `json:"band"`
	}

	StudentRisk struct {
		Student user.User `json:"student"`
		Risk    RiskEntry `json:"risk"`
	}

	ClassRisk struct {
		ClassroomID int           `json:"classroom_id"`
		Students    []StudentRisk `json:"students"`
		Counts      risk.Counts   `json:"counts"`
	}
)

// RiskFor bands the latest finished screening attempt of each learner.
// Learners without one get an entry with no band.
func (svc *Service) RiskFor(ctx context.Context, userIDs []int, lang i18n.Lang) (map[int]RiskEntry, error) {
	entries := make(map[int]RiskEntry, len(userIDs))
	for _, id := range userIDs {
		entries[id] = RiskEntry{UserID: id}
	}
	if len(userIDs) == 0 {
		return entries, nil
	}

	test, err := svc.repo.GetTestBySlug(ctx, SlugCDI)
	if err != nil {
		if err == ErrTestNotFound {
			return entries, nil
		}
		return nil, errors.Wrap(err, "getting screening test")
	}
	attempts, err := svc.repo.FilterAttempts(ctx, AttemptFilter{UserIDs: userIDs, TestID: test.ID, FinishedOnly: true})
	if err != nil {
		return nil, errors.Wrap(err, "filtering attempts")
	}

	refs := make([]risk.AttemptRef, 0, len(attempts))
	byID := make(map[int]Attempt, len(attempts))
	for _, a := range attempts {
		refs = append(refs, risk.AttemptRef{ID: a.ID, UserID: a.UserID})
		byID[a.ID] = a
	}
	for userID, ref := range risk.LatestAttempts(refs) {
		attempt := byID[ref.ID]
		report, err := svc.score(ctx, attempt, lang)
		if err != nil {
			return nil, err
		}
		raw := report.Totals.Raw
		entries[userID] = RiskEntry{
			UserID:     userID,
			AttemptID:  attempt.ID,
			Raw:        &raw,
			FinishedAt: attempt.FinishedAt,
			Band:       risk.BandRaw(&raw, lang),
		}
	}
	return entries, nil
}

// ClassRisk is the screening overview of a classroom.
func (svc *Service) ClassRisk(ctx context.Context, classroomID int, lang i18n.Lang) (ClassRisk, error) {
	students, err := svc.users.StudentsInClassroom(ctx, classroomID)
	if err != nil {
		return ClassRisk{}, errors.Wrap(err, "querying students")
	}
	return svc.classRisk(ctx, classroomID, students, lang)
}

func (svc *Service) classRisk(ctx context.Context, classroomID int, students []user.User, lang i18n.Lang) (ClassRisk, error) {
	ids := make([]int, 0, len(students))
	for _, s := range students {
		ids = append(ids, s.ID)
	}

	entries, err := svc.RiskFor(ctx, ids, lang)
	if err != nil {
		return ClassRisk{}, err
	}
	bands := make(map[int]*risk.Band, len(entries))
	res := ClassRisk{ClassroomID: classroomID, Students: make([]StudentRisk, 0, len(students))}
	for _, s := range students {
		entry := entries[s.ID]
		bands[s.ID] = entry.Band
		res.Students = append(res.Students, StudentRisk{Student: s, Risk: entry})
	}
	res.Counts = risk.CountLevels(ids, bands)
	return res, nil
}
