// Package scoring turns the answers of an attempt into per-scale totals.
//
// Scoring semantics live in the free-text value of each answer option:
//
//	""            contributes nothing
//	"E" .. "P"    one MBTI letter vote, {"E": 1}
//	"-3"          a plain integer, {"TOTAL": -3}
//	"COMM=2;ORG"  a list of CODE[=]N tokens separated by ';' or ','
//
// Values are hand-authored, so parsing never fails: anything unreadable contributes nothing.
package scoring

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/volatiletech/null/v8"
)

// Total is the reserved scale code summed into the raw score.
const Total = "TOTAL"

// Scales maps a scale code to its points.
type Scales map[string]int

const mbtiLetters = "EISNTFJP"

var (
	integerRegex   = regexp.MustCompile(`^-?\d+$`)
	tokenRegex     = regexp.MustCompile(`^([A-Za-zА-Яа-яЁё_]+)\s*=?\s*([+-]?\d+)`)
	separatorRegex = regexp.MustCompile(`[;,]`)
)

// ParseValue decodes an option value into its scale contributions.
func ParseValue(value string) Scales {
	s := strings.TrimSpace(value)
	if s == "" {
		return Scales{}
	}

	if len(s) == 1 {
		if letter := strings.ToUpper(s); strings.Contains(mbtiLetters, letter) {
			return Scales{letter: 1}
		}
	}

	if integerRegex.MatchString(s) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return Scales{} // out of range
		}
		return Scales{Total: n}
	}

	scales := Scales{}
	for _, token := range separatorRegex.Split(s, -1) {
		m := tokenRegex.FindStringSubmatch(strings.TrimSpace(token))
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		scales[strings.ToUpper(m[1])] += n
	}
	return scales
}

// ParseNullableValue is ParseValue for a value read from a nullable column.
func ParseNullableValue(value null.String) Scales {
	if !value.Valid {
		return Scales{}
	}
	return ParseValue(value.String)
}

// Get returns the points of code, 0 when absent.
func (s Scales) Get(code string) int {
	return s[code]
}

func (s Scales) add(other Scales) {
	for code, pts := range other {
		s[code] += pts
	}
}
