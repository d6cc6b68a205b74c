package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/live"
	"github.com/trezcool/darasa/core/user"
)

type liveApi struct {
	svc *live.Service
}

func registerLiveAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *live.Service) {
	api := liveApi{svc: svc}

	vg := g.Group("/lives", jwt)
	vg.POST("", api.create, roleMiddleware(user.RoleTeacher, user.RoleAdmin))
	vg.GET("/:id", api.retrieve)
}

// Handlers

func (api *liveApi) create(ctx echo.Context) error {
	var data live.NewSession
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSession")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	sess, err := api.svc.Create(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "creating live session")
	}
	return ctx.JSON(http.StatusCreated, sess)
}

func (api *liveApi) retrieve(ctx echo.Context) error {
	sess, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding live session")
	}
	return ctx.JSON(http.StatusOK, sess)
}
