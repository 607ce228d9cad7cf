package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/oiorda/orda/core/assessment"
	"github.com/oiorda/orda/core/user"
)

type psychApi struct {
	svc    *assessment.Service
	usrSvc *user.Service
}

func registerPsychAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *assessment.Service, usrSvc *user.Service) {
	api := psychApi{svc: svc, usrSvc: usrSvc}

	pg := g.Group("/psych", jwt, roleMiddleware(user.RolePsych, user.RoleAdmin))
	pg.GET("/classes/:id", api.classOverview)
	pg.GET("/classes/:id/risk", api.classRisk)
	pg.GET("/students/:id/risk", api.studentRisk)
	pg.GET("/students/:id/attempts", api.studentAttempts)
}

// Handlers

func (api *psychApi) classOverview(ctx echo.Context) error {
	classroomID, err := paramID(ctx)
	if err != nil {
		return err
	}
	viewer, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	res, err := api.svc.ClassOverview(ctx.Request().Context(), viewer, classroomID, getContextLang(ctx))
	if err != nil {
		return errors.Wrap(err, "building class overview")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *psychApi) classRisk(ctx echo.Context) error {
	classroomID, err := paramID(ctx)
	if err != nil {
		return err
	}
	viewer, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	students, err := api.usrSvc.StudentsInClassroom(ctx.Request().Context(), classroomID)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	for _, s := range students {
		if !viewer.CanSee(s) {
			return errHttpForbidden
		}
	}

	res, err := api.svc.ClassRisk(ctx.Request().Context(), classroomID, getContextLang(ctx))
	if err != nil {
		return errors.Wrap(err, "computing class risk")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *psychApi) studentRisk(ctx echo.Context) error {
	studentID, err := paramID(ctx)
	if err != nil {
		return err
	}
	viewer, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	student, err := api.usrSvc.GetByID(ctx.Request().Context(), studentID)
	if err != nil {
		return errors.Wrap(err, "finding student")
	}
	if !student.IsStudent() {
		return errHttpNotFound
	}
	if !viewer.CanSee(student) {
		return errHttpForbidden
	}

	entries, err := api.svc.RiskFor(ctx.Request().Context(), []int{student.ID}, getContextLang(ctx))
	if err != nil {
		return errors.Wrap(err, "computing student risk")
	}
	return ctx.JSON(http.StatusOK, assessment.StudentRisk{Student: student, Risk: entries[student.ID]})
}

func (api *psychApi) studentAttempts(ctx echo.Context) error {
	studentID, err := paramID(ctx)
	if err != nil {
		return err
	}
	viewer, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	results, err := api.svc.AttemptsOf(ctx.Request().Context(), viewer, studentID, getContextLang(ctx))
	if err != nil {
		return errors.Wrap(err, "listing student attempts")
	}
	return ctx.JSON(http.StatusOK, results)
}
