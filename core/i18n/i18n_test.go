package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func init() {
	Register("test.greeting", map[Lang]string{
		RU: "Привет, {0}!",
		EN: "Hello, {0}!",
		KK: "Сәлем, {0}!",
	})
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		code string
		want Lang
	}{
		{"ru", "ru", RU},
		{"upper", "EN", EN},
		{"region", "kk-KZ", KK},
		{"underscore", "en_GB", EN},
		{"spaces", "  kk ", KK},
		{"unsupported", "de", RU},
		{"empty", "", RU},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.code))
		})
	}
}

func TestFromAcceptLanguage(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   Lang
		wantOK bool
	}{
		{"single", "en", EN, true},
		{"weighted", "de-DE,de;q=0.9,kk;q=0.8", KK, true},
		{"region", "en-US,en;q=0.9", EN, true},
		{"none", "fr,de", "", false},
		{"empty", "", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lang, ok := FromAcceptLanguage(tc.header)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, lang)
		})
	}
}

func TestT(t *testing.T) {
	assert.Equal(t, "Hello, Aru!", T(EN, "test.greeting", "Aru"))
	assert.Equal(t, "Сәлем, Aru!", T(KK, "test.greeting", "Aru"))
	assert.Equal(t, "Привет, Aru!", T("de", "test.greeting", "Aru"))
	assert.Equal(t, "missing.key", T(EN, "missing.key"))
}

func TestRegisterPanicsOnMissingLanguage(t *testing.T) {
	assert.Panics(t, func() {
		Register("test.partial", map[Lang]string{RU: "только русский"})
	})
}
