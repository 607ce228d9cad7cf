// Package risk bands the raw score of the CDI depression screening into risk levels.
package risk

import (
	"strconv"

	"github.com/oiorda/orda/core/i18n"
)

type Level string

const (
	High     Level = "high"
	Moderate Level = "moderate"
	Low      Level = "low"
	None     Level = "none" // no screening attempt yet

	HighThreshold     = 19
	ModerateThreshold = 13
)

// Band is the risk classification of one screening score.
type Band struct {
	Level  Level  `json:"level"`
	Label  string `json:"label"`
	Color  string `json:"color"` // danger | warning | secondary
	Reason string `json:"reason"`
}

var colors = map[Level]string{
	High:     "danger",
	Moderate: "warning",
	Low:      "secondary",
}

func init() {
	i18n.MustRegisterAll(map[string]map[i18n.Lang]string{
		"risk.high.label":      {i18n.RU: "высокий риск", i18n.EN: "high risk", i18n.KK: "жоғары тәуекел"},
		"risk.moderate.label":  {i18n.RU: "умеренный риск", i18n.EN: "moderate risk", i18n.KK: "орташа тәуекел"},
		"risk.low.label":       {i18n.RU: "низкий риск", i18n.EN: "low risk", i18n.KK: "төмен тәуекел"},
		"risk.none.label":      {i18n.RU: "нет данных", i18n.EN: "no data", i18n.KK: "деректер жоқ"},
		"risk.high.reason":     {i18n.RU: "суммарный балл {0} (≥19)", i18n.EN: "total score {0} (≥19)", i18n.KK: "жиынтық ұпай {0} (≥19)"},
		"risk.moderate.reason": {i18n.RU: "суммарный балл {0} (13–18)", i18n.EN: "total score {0} (13–18)", i18n.KK: "жиынтық ұпай {0} (13–18)"},
		"risk.low.reason":      {i18n.RU: "суммарный балл {0}", i18n.EN: "total score {0}", i18n.KK: "жиынтық ұпай {0}"},
	})
}

// Classify returns the risk level of a raw screening score.
func Classify(raw int) Level {
	switch {
	case raw >= HighThreshold:
		return High
	case raw >= ModerateThreshold:
		return Moderate
	default:
		return Low
	}
}

// BandRaw bands raw in lang. A nil raw (nothing scored yet) has no band.
func BandRaw(raw *int, lang i18n.Lang) *Band {
	if raw == nil {
		return nil
	}
	level := Classify(*raw)
	return &Band{
		Level:  level,
		Label:  i18n.T(lang, "risk."+string(level)+".label"),
		Color:  colors[level],
		Reason: i18n.T(lang, "risk."+string(level)+".reason", strconv.Itoa(*raw)),
	}
}

// Label returns the localized label of level.
func Label(level Level, lang i18n.Lang) string {
	return i18n.T(lang, "risk."+string(level)+".label")
}
