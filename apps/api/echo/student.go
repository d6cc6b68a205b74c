package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/class"
	"github.com/trezcool/darasa/core/user"
)

type studentApi struct {
	svc    *user.Service
	clsSvc *class.Service
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *user.Service, clsSvc *class.Service) {
	api := studentApi{svc: svc, clsSvc: clsSvc}

	sg := g.Group("/students", jwt, adminMiddleware())
	sg.POST("", api.create)
	sg.PUT("/:id", api.update)
}

// Handlers

func (api *studentApi) create(ctx echo.Context) error {
	var data user.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	rctx := ctx.Request().Context()
	cls, err := api.clsSvc.GetByID(rctx, data.ClassID)
	if err != nil {
		return errors.Wrap(err, "finding class")
	}

	res, err := api.svc.CreateStudent(rctx, data, cls.Class, cls.Year)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, res.Response(true))
}

func (api *studentApi) update(ctx echo.Context) error {
	var data user.EditStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EditStudent")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	rctx := ctx.Request().Context()
	res, err := api.svc.GetByID(rctx, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding user by ID")
	}
	resp, err := api.svc.EditStudent(rctx, res, data)
	if err != nil {
		return errors.Wrap(err, "editing student")
	}
	return ctx.JSON(http.StatusOK, resp)
}
