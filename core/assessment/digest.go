package assessment

import (
	"context"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/oiorda/orda/core/i18n"
)

// DefaultDigestLimit is the number of attempts summarized for the assistant.
const DefaultDigestLimit = 4

func init() {
	i18n.Register("digest.intro", map[i18n.Lang]string{
		i18n.RU: "Последние результаты:",
		i18n.EN: "Recent results:",
		i18n.KK: "Соңғы нәтижелер:",
	})
}

// Digest summarizes the latest finished attempts of a learner in one line per instrument:
// "Title: code", or "Title: interpretation title" for instruments without a code.
// Confidential instruments never appear. The digest is empty when there is nothing to summarize.
func (svc *Service) Digest(ctx context.Context, userID int, lang i18n.Lang, limit int) (string, error) {
	if limit <= 0 {
		limit = DefaultDigestLimit
	}
	attempts, err := svc.repo.FilterAttempts(ctx, AttemptFilter{UserIDs: []int{userID}, FinishedOnly: true})
	if err != nil {
		return "", errors.Wrap(err, "filtering attempts")
	}
	sort.SliceStable(attempts, func(i, j int) bool {
		return attempts[i].FinishedAt.Time.After(attempts[j].FinishedAt.Time)
	})

	var lines []string
	for _, attempt := range attempts {
		if len(lines) == limit {
			break
		}
		test, err := svc.repo.GetTestByID(ctx, attempt.TestID)
		if err != nil {
			return "", errors.Wrap(err, "getting test")
		}
		if test.Confidential {
			continue
		}
		report, err := svc.score(ctx, attempt, lang)
		if err != nil {
			return "", err
		}
		summary := report.Interpretation.Code
		if summary == "" {
			summary = report.Interpretation.Title
		}
		lines = append(lines, test.Title+": "+summary)
	}
	if len(lines) == 0 {
		return "", nil
	}
	return i18n.T(lang, "digest.intro") + " " + strings.Join(lines, "; "), nil
}
