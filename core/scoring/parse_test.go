package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  Scales
	}{
		{"empty", "", Scales{}},
		{"whitespace", "  \t ", Scales{}},
		{"mbti upper", "E", Scales{"E": 1}},
		{"mbti lower", "e", Scales{"E": 1}},
		{"mbti padded", " p ", Scales{"P": 1}},
		{"non mbti letter", "R", Scales{}},
		{"positive integer", "7", Scales{Total: 7}},
		{"negative integer", "-3", Scales{Total: -3}},
		{"padded integer", " 12 ", Scales{Total: 12}},
		{"integer overflow", "99999999999999999999999", Scales{}},
		{"composite", "COMM=3;ORG=-1", Scales{"COMM": 3, "ORG": -1}},
		{"repeated code", "comm=2,comm=1", Scales{"COMM": 3}},
		{"no equal sign", "R 2; I1", Scales{"R": 2, "I": 1}},
		{"spaces around equal", "A = +4", Scales{"A": 4}},
		{"cyrillic code", "ч=2", Scales{"Ч": 2}},
		{"explicit total", "TOTAL=5", Scales{Total: 5}},
		{"bad tokens skipped", "COMM=2;;oops;=3;ORG=x", Scales{"COMM": 2}},
		{"prefix match", "S=2abc", Scales{"S": 2}},
		{"garbage", "???", Scales{}},
		{"plus integer alone", "+5", Scales{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseValue(tc.value))
		})
	}
}

func TestParseNullableValue(t *testing.T) {
	assert.Equal(t, Scales{}, ParseNullableValue(null.String{}))
	assert.Equal(t, Scales{}, ParseNullableValue(null.StringFrom("")))
	assert.Equal(t, Scales{"J": 1}, ParseNullableValue(null.StringFrom("j")))
}

func TestParseValueNeverPanics(t *testing.T) {
	inputs := []string{"=", ";", ",,,", "E=", "=1", "-", "--1", "é", "\x00", "ЁЁ=1", "A=1=2"}
	for _, in := range inputs {
		assert.NotPanics(t, func() { ParseValue(in) }, in)
	}
}
