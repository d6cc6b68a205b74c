package echoapi

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/darasa/core/user"
)

func Test_accountApi_register(t *testing.T) {
	env := setup(t)

	t.Run("validation error", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/auth/register", []byte(`{"email":"nope"}`))
		env.app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var resp errorResponse
		decodeBody(t, rec, &resp)
		assert.Equal(t, "failed", resp.Status)
	})

	t.Run("ok", func(t *testing.T) {
		body := marchallObj(t, newUserBody("reg@test.cd"))
		req, rec := newRequest(http.MethodPost, "/v1/auth/register", body)
		env.app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		var resp RegisterResponse
		decodeBody(t, rec, &resp)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "reg@test.cd", resp.User.Email)
		assert.Equal(t, user.RoleUser, resp.User.Role)

		// round-trip through the repository
		res, err := env.usrSvc.GetByEmail(context.Background(), "reg@test.cd")
		assert.NoError(t, err)
		assert.Equal(t, resp.User.ID, res.User.ID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		body := marchallObj(t, newUserBody("reg@test.cd"))
		req, rec := newRequest(http.MethodPost, "/v1/auth/register", body)
		env.app.ServeHTTP(rec, req)

		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: errData(t, http.StatusBadRequest, "a user with this email already exists"),
		}, rec)
	})
}

func Test_accountApi_login(t *testing.T) {
	env := setup(t)

	body := marchallObj(t, newUserBody("login@test.cd"))
	req, rec := newRequest(http.MethodPost, "/v1/auth/register", body)
	env.app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)

	tests := []httpTest{
		{
			name: "unknown email", body: marchallObj(t, LoginRequest{Email: "lol@test.cd", Password: "G0od#Pass"}),
			wantCode: http.StatusBadRequest, wantData: errData(t, http.StatusBadRequest, "authentication failed"),
		},
		{
			name: "wrong password", body: marchallObj(t, LoginRequest{Email: "login@test.cd", Password: "wrong"}),
			wantCode: http.StatusBadRequest, wantData: errData(t, http.StatusBadRequest, "authentication failed"),
		},
		{
			name: "ok", body: marchallObj(t, LoginRequest{Email: "login@test.cd", Password: "G0od#Pass"}),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/auth/login", tt.body)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusOK {
				var resp LoginResponse
				decodeBody(t, rec, &resp)
				assert.NotEmpty(t, resp.Token)
			}
		})
	}
}

func Test_accountApi_profile(t *testing.T) {
	env := setup(t)

	cls := env.createClass(t, 10, "a")
	std := env.createStudent(t, "std@test.cd", cls)

	t.Run("auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/users/profile")
		env.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)
	})

	t.Run("basic", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/users/profile", getToken(t, std.User))
		env.app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp user.Response
		decodeBody(t, rec, &resp)
		assert.Equal(t, "std@test.cd", resp.Email)
		assert.Nil(t, resp.Info)
	})

	t.Run("full info", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/users/profile?info=full", getToken(t, std.User))
		env.app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			user.Response
			Info user.StudentResponse `json:"info"`
		}
		decodeBody(t, rec, &resp)
		assert.Equal(t, cls.ID, resp.Info.ClassID)
		assert.Equal(t, "a", resp.Info.Class)
	})
}

func Test_accountApi_destroy(t *testing.T) {
	env := setup(t)

	admin := env.createAdmin(t, "admin@test.cd")
	cls := env.createClass(t, 10, "a")
	std := env.createStudent(t, "std@test.cd", cls)

	t.Run("admin required", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/users/"+std.User.ID, getToken(t, std.User))
		env.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusForbidden,
			wantData: errData(t, http.StatusForbidden, "permission denied"),
		}, rec)
	})

	t.Run("cascades into the role profile", func(t *testing.T) {
		profileID := std.User.RoleID

		req, rec := newAuthRequest(http.MethodDelete, "/v1/users/"+std.User.ID, getToken(t, admin))
		env.app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		_, err := env.usrSvc.GetByID(context.Background(), std.User.ID)
		assert.Equal(t, user.ErrNotFound, err)
		_, err = env.usrRepo.GetStudentByID(context.Background(), profileID)
		assert.Equal(t, user.ErrProfileNotFound, err)
	})

	t.Run("plain account has no profile to cascade into", func(t *testing.T) {
		body := marchallObj(t, newUserBody("plain@test.cd"))
		req, rec := newRequest(http.MethodPost, "/v1/auth/register", body)
		env.app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusCreated, rec.Code)

		usr, err := env.usrRepo.GetUserByEmail(context.Background(), "plain@test.cd")
		assert.NoError(t, err)
		assert.Empty(t, usr.RoleID)

		req, rec = newAuthRequest(http.MethodDelete, "/v1/users/"+usr.ID, getToken(t, admin))
		env.app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		_, err = env.usrSvc.GetByID(context.Background(), usr.ID)
		assert.Equal(t, user.ErrNotFound, err)
	})

	t.Run("not found", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/users/lol", getToken(t, admin))
		env.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusNotFound,
			wantData: errData(t, http.StatusNotFound, "user not found"),
		}, rec)
	})
}
