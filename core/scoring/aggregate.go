package scoring

import (
	"sort"

	"github.com/volatiletech/null/v8"
)

type (
	Option struct {
		ID    int
		Order int
		Value null.String
	}

	Question struct {
		ID      int
		Order   int
		Type    string
		Options []Option
	}

	// Totals is the outcome of an attempt.
	Totals struct {
		PerScale Scales `json:"per_scale"`
		Raw      int    `json:"raw"`
		MaxScore int    `json:"max_score"`
	}
)

// Aggregate sums the scale contributions of the chosen options.
// answers maps a question ID to the ID of the option chosen for it; an option that does not belong
// to its question is ignored. MaxScore is the best attainable raw score whatever the answers are.
func Aggregate(questions []Question, answers map[int]int) Totals {
	totals := Totals{PerScale: Scales{}}
	for _, q := range sortedByOrder(questions) {
		totals.MaxScore += bestTotal(q)

		optID, ok := answers[q.ID]
		if !ok {
			continue
		}
		opt, ok := q.option(optID)
		if !ok {
			continue
		}
		scales := ParseNullableValue(opt.Value)
		totals.PerScale.add(scales)
		totals.Raw += scales.Get(Total)
	}
	return totals
}

// MaxPossible returns the best attainable raw score of an instrument.
func MaxPossible(questions []Question) int {
	var max int
	for _, q := range questions {
		max += bestTotal(q)
	}
	return max
}

// Percent returns floor(100*raw/max), or false when max is not positive.
func Percent(raw, max int) (int, bool) {
	if max <= 0 {
		return 0, false
	}
	n := 100 * raw
	pct := n / max
	if n%max != 0 && n < 0 {
		pct--
	}
	return pct, true
}

// Percent is the raw score as a percentage of MaxScore.
func (t Totals) Percent() (int, bool) {
	return Percent(t.Raw, t.MaxScore)
}

// bestTotal is the highest TOTAL any option of q offers, floored at 0.
func bestTotal(q Question) int {
	var best int
	for _, o := range q.Options {
		if pts := ParseNullableValue(o.Value).Get(Total); pts > best {
			best = pts
		}
	}
	return best
}

func (q Question) option(id int) (Option, bool) {
	for _, o := range q.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

func sortedByOrder(questions []Question) []Question {
	sorted := make([]Question, len(questions))
	copy(sorted, questions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})
	return sorted
}
