package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

var (
	appJWTConfig      middleware.JWTConfig
	appJWTQueryConfig middleware.JWTConfig

	appName            string
	jwtExpirationDelta time.Duration

	contextUserKey = "user"
)

// Claims represents the authorization claims transmitted via a JWT. The
// acting identity and role derive solely from this pair for the token's
// whole lifetime; the role is never re-read from the database.
type Claims struct {
	jwt.StandardClaims
	Role string `json:"role"`
}

// ConfigureAuth sets up the JWT middlewares. The second one reads the token
// from a query parameter; media URLs cannot carry an Authorization header.
func ConfigureAuth(conf *core.Config) (authMW, authQueryMW echo.MiddlewareFunc) {
	appName = conf.AppName
	jwtExpirationDelta = conf.Server.JWTExpirationDelta

	appJWTConfig = middleware.JWTConfig{
		SigningKey:    conf.SecretKey,
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    "userToken",
		Claims:        new(Claims),
	}
	appJWTQueryConfig = middleware.JWTConfig{
		SigningKey:    conf.SecretKey,
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    appJWTConfig.ContextKey,
		Claims:        new(Claims),
		TokenLookup:   "query:token",
	}
	return middleware.JWTWithConfig(appJWTConfig), middleware.JWTWithConfig(appJWTQueryConfig)
}

// GetUserClaims builds the claims transmitted for usr.
func GetUserClaims(usr user.User) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    appName,
			Subject:   usr.ID,
			ExpiresAt: now.Add(jwtExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Role: usr.Role,
	}
}

func authenticate(ctx echo.Context, email, pwd string, svc *user.Service) (*Claims, error) {
	res, err := svc.GetByEmail(ctx.Request().Context(), email)
	if err != nil {
		if err == user.ErrNotFound {
			return nil, errAuthenticationFailed
		}
		return nil, errors.Wrap(err, "finding user by email")
	}
	if err = res.User.CheckPassword(pwd); err != nil {
		return nil, errAuthenticationFailed
	}
	return GetUserClaims(res.User), nil
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func GenerateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(appJWTConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(appJWTConfig.SigningKey)
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(appJWTConfig.ContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// getContextUser materializes the acting identity from the token's subject,
// caching the handle on the context for the rest of the request.
func getContextUser(ctx echo.Context, svc *user.Service) (*user.Resolved, error) {
	if res, ok := ctx.Get(contextUserKey).(*user.Resolved); ok {
		return res, nil
	}
	claims, err := getContextClaims(ctx)
	if err != nil {
		return nil, err
	}
	res, err := svc.GetByID(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return nil, errors.Wrap(err, "finding user by ID")
	}
	ctx.Set(contextUserKey, res)
	return res, nil
}
