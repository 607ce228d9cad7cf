// Package i18n holds the fixed vocabulary of the application in every supported language.
//
// Packages register their texts once, from init, and render them with T.
// Placeholders follow universal-translator: {0}, {1}, ... each used once and in increasing order.
package i18n

import (
	"fmt"
	"strings"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/kk"
	"github.com/go-playground/locales/ru"
	ut "github.com/go-playground/universal-translator"
)

type Lang string

const (
	RU Lang = "ru"
	EN Lang = "en"
	KK Lang = "kk"

	Default = RU
)

// Langs lists the supported languages, default first.
var Langs = []Lang{RU, EN, KK}

var uni = ut.New(ru.New(), ru.New(), en.New(), kk.New())

func (l Lang) String() string { return string(l) }

func (l Lang) Valid() bool {
	for _, lang := range Langs {
		if l == lang {
			return true
		}
	}
	return false
}

// Normalize maps any language code ("EN", "en-US", "kk_KZ", "de", "") to a supported Lang.
// Unsupported codes fall back to Default.
func Normalize(code string) Lang {
	code = strings.ToLower(strings.TrimSpace(code))
	if i := strings.IndexAny(code, "-_"); i >= 0 {
		code = code[:i]
	}
	if lang := Lang(code); lang.Valid() {
		return lang
	}
	return Default
}

// FromAcceptLanguage picks the first supported language of an Accept-Language header value.
func FromAcceptLanguage(header string) (Lang, bool) {
	for _, part := range strings.Split(header, ",") {
		code := strings.SplitN(strings.TrimSpace(part), ";", 2)[0]
		code = strings.ToLower(code)
		if i := strings.IndexAny(code, "-_"); i >= 0 {
			code = code[:i]
		}
		if lang := Lang(code); lang.Valid() {
			return lang, true
		}
	}
	return "", false
}

// Translator returns the universal translator of lang (Default if unsupported).
func Translator(lang Lang) ut.Translator {
	t, found := uni.GetTranslator(string(Normalize(string(lang))))
	if !found {
		t, _ = uni.GetTranslator(string(Default))
	}
	return t
}

// Register adds the texts of key. Every supported language must be present.
// It panics on a missing language or a malformed text: registration only happens from init.
func Register(key string, texts map[Lang]string) {
	for _, lang := range Langs {
		text, ok := texts[lang]
		if !ok {
			panic(fmt.Sprintf("i18n.Register(%s): missing %q text", key, lang))
		}
		if err := Translator(lang).Add(key, text, false); err != nil {
			panic(fmt.Sprintf("i18n.Register(%s, %s): %v", key, lang, err))
		}
	}
}

// MustRegisterAll registers every entry of texts.
func MustRegisterAll(texts map[string]map[Lang]string) {
	for key, t := range texts {
		Register(key, t)
	}
}

// T renders key in lang. An unknown key is returned as is.
func T(lang Lang, key string, params ...string) string {
	s, err := Translator(lang).T(key, params...)
	if err != nil {
		return key
	}
	return s
}
