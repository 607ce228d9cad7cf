package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/oiorda/orda/core/assistant"
	"github.com/oiorda/orda/core/user"
)

type assistantApi struct {
	svc    *assistant.Service
	usrSvc *user.Service
}

func registerAssistantAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *assistant.Service, usrSvc *user.Service) {
	api := assistantApi{svc: svc, usrSvc: usrSvc}

	g.POST("/assistant/messages", api.reply, jwt, roleMiddleware(user.RoleStudent))
}

// Handlers

func (api *assistantApi) reply(ctx echo.Context) error {
	var data assistant.ChatRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChatRequest")
	}
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	reply, err := api.svc.Reply(ctx.Request().Context(), usr.ID, getContextLang(ctx), data)
	if err != nil {
		return errors.Wrap(err, "replying")
	}
	return ctx.JSON(http.StatusOK, reply)
}
