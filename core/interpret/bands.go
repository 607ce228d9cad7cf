package interpret

import (
	"strconv"

	"github.com/oiorda/orda/core/i18n"
	"github.com/oiorda/orda/core/risk"
	"github.com/oiorda/orda/core/scoring"
)

type Band string

const (
	BandLow    Band = "low"
	BandMedium Band = "medium"
	BandHigh   Band = "high"
)

// kos2Band bands a KOS-2 scale score.
func kos2Band(points int) Band {
	switch {
	case points >= 8:
		return BandHigh
	case points >= 4:
		return BandMedium
	default:
		return BandLow
	}
}

// percentBand bands an ability percentage.
func percentBand(pct int) Band {
	switch {
	case pct >= 75:
		return BandHigh
	case pct >= 40:
		return BandMedium
	default:
		return BandLow
	}
}

func (b Band) Label(lang i18n.Lang) string {
	return i18n.T(lang, "band."+string(b))
}

func interpretKOS2(_ string, totals scoring.Totals, lang i18n.Lang) Result {
	comm, org := totals.PerScale.Get("COMM"), totals.PerScale.Get("ORG")
	return Result{
		Title: i18n.T(lang, "kos2.title"),
		Bullets: []string{
			i18n.T(lang, "kos2.comm", strconv.Itoa(comm), kos2Band(comm).Label(lang)),
			i18n.T(lang, "kos2.org", strconv.Itoa(org), kos2Band(org).Label(lang)),
		},
	}
}

// interpretBennett reports the raw score as a percentage of the maximum; without a maximum there is no percentage.
func interpretBennett(_ string, totals scoring.Totals, lang i18n.Lang) Result {
	res := Result{Title: i18n.T(lang, "interpret.title.results")}
	if pct, ok := totals.Percent(); ok {
		res.Bullets = append(res.Bullets, i18n.T(lang, "bennett.spatial", strconv.Itoa(pct), percentBand(pct).Label(lang)))
	}
	if len(res.Bullets) == 0 {
		res.Bullets = []string{i18n.T(lang, "interpret.saved")}
	}
	return res
}

// interpretCDI delegates banding to the risk policy.
func interpretCDI(_ string, totals scoring.Totals, lang i18n.Lang) Result {
	raw := totals.Raw
	band := risk.BandRaw(&raw, lang)
	return Result{
		Title: i18n.T(lang, "cdi.title"),
		Bullets: []string{
			i18n.T(lang, "cdi.total", strconv.Itoa(raw), band.Label),
			i18n.T(lang, "interpret.psych_only"),
		},
		Risk: band,
	}
}
