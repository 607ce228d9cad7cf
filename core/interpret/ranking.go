package interpret

import (
	"fmt"
	"sort"
	"strings"

	"github.com/oiorda/orda/core/i18n"
	"github.com/oiorda/orda/core/scoring"
)

const noValue = "—"

var (
	hollandCodes = []string{"R", "I", "A", "S", "E", "C"}
	klimovCodes  = []string{"H", "T", "N", "S", "A"}
)

type scaleScore struct {
	Code   string
	Points int
}

// rank orders the observed scales by descending points.
// With codes, only those scales count and ties keep the order of codes; otherwise ties are alphabetical.
func rank(scales scoring.Scales, codes []string) []scaleScore {
	if codes == nil {
		for code := range scales {
			codes = append(codes, code)
		}
		sort.Strings(codes)
	}

	ranking := make([]scaleScore, 0, len(codes))
	for _, code := range codes {
		if pts, ok := scales[code]; ok {
			ranking = append(ranking, scaleScore{code, pts})
		}
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Points > ranking[j].Points
	})
	return ranking
}

func formatRanking(ranking []scaleScore, sep string, label func(string) string) string {
	parts := make([]string, len(ranking))
	for i, s := range ranking {
		parts[i] = fmt.Sprintf("%s:%d", label(s.Code), s.Points)
	}
	return strings.Join(parts, sep)
}

func orNA(s string, lang i18n.Lang) string {
	if s == "" {
		return i18n.T(lang, "interpret.na")
	}
	return s
}

func identity(code string) string { return code }

// interpretHolland builds the RIASEC profile; the code is the top 3 letters.
func interpretHolland(_ string, totals scoring.Totals, lang i18n.Lang) Result {
	ranking := rank(totals.PerScale, hollandCodes)

	var top3 string
	for i := 0; i < len(ranking) && i < 3; i++ {
		top3 += ranking[i].Code
	}
	shown := top3
	if shown == "" {
		shown = noValue
	}

	return Result{
		Title: "RIASEC • " + shown,
		Bullets: []string{
			i18n.T(lang, "holland.ranking", orNA(formatRanking(ranking, " > ", identity), lang)),
			i18n.T(lang, "holland.top3", shown),
			i18n.T(lang, "holland.advice"),
		},
		Code: top3,
	}
}

// interpretKlimov ranks the five profession types; the code is the leading type.
func interpretKlimov(_ string, totals scoring.Totals, lang i18n.Lang) Result {
	ranking := rank(totals.PerScale, klimovCodes)
	name := func(code string) string { return i18n.T(lang, "klimov."+code) }

	var lead string
	if len(ranking) > 0 {
		lead = name(ranking[0].Code)
	}
	shown := lead
	if shown == "" {
		shown = noValue
	}

	return Result{
		Title: i18n.T(lang, "klimov.title", shown),
		Bullets: []string{
			i18n.T(lang, "klimov.ranking", orNA(formatRanking(ranking, " > ", name), lang)),
			i18n.T(lang, "klimov.lead", shown),
		},
		Code: lead,
	}
}

// interpretScales surfaces the three leading scales of instruments without fixed codes.
func interpretScales(slug string, totals scoring.Totals, lang i18n.Lang) Result {
	ranking := rank(totals.PerScale, nil)
	if len(ranking) > 3 {
		ranking = ranking[:3]
	}
	top := formatRanking(ranking, ", ", identity)
	if top == "" {
		top = noValue
	}

	return Result{
		Title:   i18n.T(lang, "scales.title."+slug),
		Bullets: []string{i18n.T(lang, "scales.leading", top)},
	}
}
