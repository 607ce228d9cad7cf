// Package interpret turns the totals of an attempt into a human readable interpretation.
//
// Every instrument slug maps to one strategy Kind; unknown slugs get a plain "results saved" statement.
// Strategies are pure functions of the totals and the language.
package interpret

import (
	"strings"

	"github.com/oiorda/orda/core/i18n"
	"github.com/oiorda/orda/core/risk"
	"github.com/oiorda/orda/core/scoring"
)

type Kind string

const (
	KindGeneric Kind = "generic"
	KindMBTI    Kind = "mbti"
	KindHolland Kind = "holland"
	KindKlimov  Kind = "klimov"
	KindKOS2    Kind = "kos2"
	KindBennett Kind = "bennett"
	KindScales  Kind = "scales"
	KindCDI     Kind = "cdi"
)

// Result is the interpretation of one attempt.
// Bullets may contain <b></b> emphasis markers.
type Result struct {
	Title   string     `json:"title"`
	Bullets []string   `json:"bullets"`
	Code    string     `json:"code,omitempty"`
	Risk    *risk.Band `json:"risk,omitempty"`
}

type strategy func(slug string, totals scoring.Totals, lang i18n.Lang) Result

var (
	registry = map[string]Kind{
		"mbti":       KindMBTI,
		"holland":    KindHolland,
		"klimov":     KindKlimov,
		"kos2":       KindKOS2,
		"bennett":    KindBennett,
		"interests":  KindScales,
		"thinking":   KindScales,
		"child_type": KindScales,
		"cdi":        KindCDI,
	}

	strategies map[Kind]strategy
)

func init() {
	strategies = map[Kind]strategy{
		KindGeneric: interpretGeneric,
		KindMBTI:    interpretMBTI,
		KindHolland: interpretHolland,
		KindKlimov:  interpretKlimov,
		KindKOS2:    interpretKOS2,
		KindBennett: interpretBennett,
		KindScales:  interpretScales,
		KindCDI:     interpretCDI,
	}
}

// NormalizeSlug is the form under which slugs are looked up.
func NormalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}

// KindOf returns the strategy kind of slug.
func KindOf(slug string) Kind {
	if kind, ok := registry[NormalizeSlug(slug)]; ok {
		return kind
	}
	return KindGeneric
}

// Interpret interprets totals with the strategy registered for slug, in lang.
func Interpret(slug string, totals scoring.Totals, lang i18n.Lang) Result {
	slug = NormalizeSlug(slug)
	lang = i18n.Normalize(string(lang))
	if totals.PerScale == nil {
		totals.PerScale = scoring.Scales{}
	}
	return strategies[KindOf(slug)](slug, totals, lang)
}

// Confidential is what a learner sees instead of the interpretation of a confidential instrument.
func Confidential(title string, lang i18n.Lang) Result {
	return Result{
		Title:   title,
		Bullets: []string{i18n.T(lang, "interpret.psych_only")},
	}
}

func interpretGeneric(_ string, _ scoring.Totals, lang i18n.Lang) Result {
	return Result{
		Title:   i18n.T(lang, "interpret.title.results"),
		Bullets: []string{i18n.T(lang, "interpret.saved")},
	}
}
