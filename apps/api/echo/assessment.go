package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/oiorda/orda/core/assessment"
	"github.com/oiorda/orda/core/user"
)

type assessmentApi struct {
	svc    *assessment.Service
	usrSvc *user.Service
}

func registerAssessmentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *assessment.Service, usrSvc *user.Service) {
	api := assessmentApi{svc: svc, usrSvc: usrSvc}
	student := roleMiddleware(user.RoleStudent)

	tg := g.Group("/tests", jwt)
	tg.GET("", api.queryTests)
	tg.GET("/:slug", api.retrieveTest)
	tg.POST("/:slug/attempts", api.startAttempt, student)

	ag := g.Group("/attempts", jwt)
	ag.PUT("/:id/answers", api.answer, student)
	ag.POST("/:id/finish", api.finish, student)
	ag.GET("/:id/result", api.result)

	g.GET("/results", api.queryResults, jwt, student)
}

// Handlers

func (api *assessmentApi) queryTests(ctx echo.Context) error {
	tests, err := api.svc.QueryTests(ctx.Request().Context(), true /* activeOnly */)
	if err != nil {
		return errors.Wrap(err, "querying tests")
	}
	if tests == nil {
		tests = []assessment.Test{}
	}
	return ctx.JSON(http.StatusOK, tests)
}

func (api *assessmentApi) retrieveTest(ctx echo.Context) error {
	test, questions, err := api.svc.GetTest(ctx.Request().Context(), ctx.Param("slug"))
	if err != nil {
		return errors.Wrap(err, "getting test")
	}
	if !test.IsActive {
		return assessment.ErrTestInactive
	}
	if questions == nil {
		questions = []assessment.Question{}
	}
	return ctx.JSON(http.StatusOK, TestDetail{Test: test, Questions: questions})
}

func (api *assessmentApi) startAttempt(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	attempt, err := api.svc.Start(ctx.Request().Context(), usr.ID, ctx.Param("slug"))
	if err != nil {
		return errors.Wrap(err, "starting attempt")
	}
	return ctx.JSON(http.StatusCreated, attempt)
}

func (api *assessmentApi) answer(ctx echo.Context) error {
	attemptID, err := paramID(ctx)
	if err != nil {
		return err
	}
	var data assessment.AnswerRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AnswerRequest")
	}
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if err = api.svc.Answer(ctx.Request().Context(), usr.ID, attemptID, data); err != nil {
		return errors.Wrap(err, "answering")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *assessmentApi) finish(ctx echo.Context) error {
	attemptID, err := paramID(ctx)
	if err != nil {
		return err
	}
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	attempt, err := api.svc.Finish(ctx.Request().Context(), usr.ID, attemptID)
	if err != nil {
		return errors.Wrap(err, "finishing attempt")
	}
	return ctx.JSON(http.StatusOK, attempt)
}

func (api *assessmentApi) result(ctx echo.Context) error {
	attemptID, err := paramID(ctx)
	if err != nil {
		return err
	}
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	report, err := api.svc.ReportFor(ctx.Request().Context(), usr, attemptID, getContextLang(ctx))
	if err != nil {
		return errors.Wrap(err, "building report")
	}
	return ctx.JSON(http.StatusOK, report)
}

func (api *assessmentApi) queryResults(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	results, err := api.svc.StudentResults(ctx.Request().Context(), usr.ID, getContextLang(ctx))
	if err != nil {
		return errors.Wrap(err, "querying results")
	}
	if results == nil {
		results = []assessment.ResultSummary{}
	}
	return ctx.JSON(http.StatusOK, results)
}

// paramID reads the ":id" path parameter. An invalid ID is reported as not found.
func paramID(ctx echo.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id <= 0 {
		return 0, errHttpNotFound
	}
	return id, nil
}

// TestDetail is a test with its questions, option values left out.
type TestDetail struct {
	assessment.Test
	Questions []assessment.Question `json:"questions"`
}
