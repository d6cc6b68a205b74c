package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/class"
	"github.com/trezcool/darasa/core/user"
)

type classApi struct {
	svc *class.Service
}

func registerClassAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *class.Service) {
	api := classApi{svc: svc}

	cg := g.Group("/classes", jwt)
	cg.GET("", api.query)
	cg.POST("", api.create, adminMiddleware())
	cg.GET("/:id", api.retrieve)
	cg.DELETE("/:id", api.destroy, adminMiddleware())
	cg.POST("/:id/students", api.addStudents, adminMiddleware())
	cg.POST("/:id/teachers", api.addTeachers, adminMiddleware())
}

// Handlers

func (api *classApi) create(ctx echo.Context) error {
	var data class.NewClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	cls, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating class")
	}
	return ctx.JSON(http.StatusCreated, cls)
}

func (api *classApi) query(ctx echo.Context) error {
	classes, err := api.svc.GetAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing classes")
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *classApi) retrieve(ctx echo.Context) error {
	resp, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding class")
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api *classApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting class")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *classApi) addStudents(ctx echo.Context) error {
	return api.addMembers(ctx, user.RoleStudent)
}

func (api *classApi) addTeachers(ctx echo.Context) error {
	return api.addMembers(ctx, user.RoleTeacher)
}

// addMembers enrolls a batch of one kind; per-id failures are reported in the
// result body, not as a request failure.
func (api *classApi) addMembers(ctx echo.Context, kind string) error {
	var data class.AddMembers
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AddMembers")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	result, err := api.svc.AddMembers(ctx.Request().Context(), ctx.Param("id"), kind, data)
	if err != nil {
		return errors.Wrap(err, "adding class members")
	}
	return ctx.JSON(http.StatusOK, result)
}
