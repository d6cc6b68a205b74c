package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/user"
)

type accountApi struct {
	svc *user.Service
}

func registerAuthAPI(g *echo.Group, svc *user.Service) {
	api := accountApi{svc: svc}

	ag := g.Group("/auth")
	ag.POST("/register", api.register)
	ag.POST("/login", api.login)
}

func registerUserAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *user.Service) {
	api := accountApi{svc: svc}

	ug := g.Group("/users", jwt)
	ug.GET("/profile", api.profile)
	ug.DELETE("/:id", api.destroy, adminMiddleware())
}

// Handlers

func (api *accountApi) register(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	res, err := api.svc.Register(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering user")
	}
	token, err := GenerateToken(GetUserClaims(res.User))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusCreated, RegisterResponse{Token: token, User: res.Response(false)})
}

func (api *accountApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := authenticate(ctx, data.Email, data.Password, api.svc)
	if err != nil {
		return err
	}
	token, err := GenerateToken(claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

// profile returns the acting identity; `?info=full` additionally embeds the
// role profile.
func (api *accountApi) profile(ctx echo.Context) error {
	res, err := getContextUser(ctx, api.svc)
	if err != nil {
		return err
	}

	withInfo := ctx.QueryParam("info") == "full"
	if withInfo {
		if err = res.AttachRole(ctx.Request().Context()); err != nil {
			return errors.Wrap(err, "attaching role profile")
		}
	}
	return ctx.JSON(http.StatusOK, res.Response(withInfo))
}

func (api *accountApi) destroy(ctx echo.Context) error {
	rctx := ctx.Request().Context()
	res, err := api.svc.GetByID(rctx, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding user by ID")
	}
	if err = res.Remove(rctx); err != nil {
		return errors.Wrap(err, "deleting user")
	}
	return ctx.NoContent(http.StatusNoContent)
}
