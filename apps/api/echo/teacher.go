package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/user"
)

type teacherApi struct {
	svc *user.Service
}

func registerTeacherAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *user.Service) {
	api := teacherApi{svc: svc}

	tg := g.Group("/teachers", jwt, adminMiddleware())
	tg.POST("", api.create)
	tg.PUT("/:id", api.update)
}

// Handlers

func (api *teacherApi) create(ctx echo.Context) error {
	var data user.NewTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeacher")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	res, err := api.svc.CreateTeacher(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating teacher")
	}
	return ctx.JSON(http.StatusCreated, res.Response(true))
}

func (api *teacherApi) update(ctx echo.Context) error {
	var data user.EditTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EditTeacher")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	rctx := ctx.Request().Context()
	res, err := api.svc.GetByID(rctx, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding user by ID")
	}
	resp, err := api.svc.EditTeacher(rctx, res, data)
	if err != nil {
		return errors.Wrap(err, "editing teacher")
	}
	return ctx.JSON(http.StatusOK, resp)
}
