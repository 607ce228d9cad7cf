package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/oiorda/orda/core"
	"github.com/oiorda/orda/core/i18n"
)

const contextLangKey = "lang"

// roleMiddleware only lets users holding one of roles through.
func roleMiddleware(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			for _, role := range roles {
				if claims.Role == role {
					return next(ctx)
				}
			}
			return errHttpForbidden
		}
	}
}

// langMiddleware resolves the language of the response:
// the "lang" query parameter, then the Accept-Language header, then the configured default.
func langMiddleware(conf *core.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			ctx.Set(contextLangKey, resolveLang(ctx.QueryParam("lang"), ctx.Request().Header.Get("Accept-Language"), conf.DefaultLanguage))
			return next(ctx)
		}
	}
}

func resolveLang(param, acceptLanguage, fallback string) i18n.Lang {
	if param != "" {
		return i18n.Normalize(param)
	}
	if lang, ok := i18n.FromAcceptLanguage(acceptLanguage); ok {
		return lang
	}
	return i18n.Normalize(fallback)
}

func getContextLang(ctx echo.Context) i18n.Lang {
	if lang, ok := ctx.Get(contextLangKey).(i18n.Lang); ok {
		return lang
	}
	return i18n.Default
}
