package interpret

import (
	"fmt"

	"github.com/oiorda/orda/core/i18n"
	"github.com/oiorda/orda/core/scoring"
)

var mbtiPairs = [4][2]string{{"E", "I"}, {"S", "N"}, {"T", "F"}, {"J", "P"}}

// interpretMBTI resolves each dichotomy; a tie goes to the first letter of the pair.
func interpretMBTI(_ string, totals scoring.Totals, lang i18n.Lang) Result {
	var (
		code    string
		details []string
	)
	for _, pair := range mbtiPairs {
		a, b := pair[0], pair[1]
		va, vb := totals.PerScale.Get(a), totals.PerScale.Get(b)

		pick, relation := a, ">"
		if va == vb {
			relation = "≈"
		} else if vb > va {
			pick = b
		}
		code += pick

		details = append(details, fmt.Sprintf("%s/%s — %s:%d %s %s:%d → <b>%s</b>",
			i18n.T(lang, "mbti."+a), i18n.T(lang, "mbti."+b), a, va, relation, b, vb, pick))
	}

	bullets := []string{
		i18n.T(lang, "mbti.your_type", code),
		i18n.T(lang, "mbti.disclaimer"),
	}
	return Result{
		Title:   "MBTI • " + code,
		Bullets: append(bullets, details...),
		Code:    code,
	}
}
