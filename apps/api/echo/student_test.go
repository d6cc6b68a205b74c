package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/darasa/core/user"
)

func Test_studentApi_create(t *testing.T) {
	env := setup(t)

	admin := env.createAdmin(t, "admin@test.cd")
	cls := env.createClass(t, 10, "a")
	tch := env.createTeacher(t, "tch@test.cd")

	body := marchallObj(t, user.NewStudent{NewUser: newUserBody("new.std@test.cd"), ClassID: cls.ID})
	badClass := marchallObj(t, user.NewStudent{NewUser: newUserBody("lost.std@test.cd"), ClassID: "nope"})

	tests := []httpTest{
		{name: "auth required", body: body, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "admin required", body: body, token: getToken(t, tch.User),
			wantCode: http.StatusForbidden, wantData: errData(t, http.StatusForbidden, "permission denied"),
		},
		{
			name: "class must exist", body: badClass, token: getToken(t, admin),
			wantCode: http.StatusNotFound, wantData: errData(t, http.StatusNotFound, "class not found"),
		},
		{name: "ok", body: body, token: getToken(t, admin), wantCode: http.StatusCreated},
		{
			name: "duplicate email", body: body, token: getToken(t, admin),
			wantCode: http.StatusBadRequest, wantData: errData(t, http.StatusBadRequest, "a user with this email already exists"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/students", tt.token, tt.body)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode != http.StatusCreated {
				return
			}
			var resp user.Response
			decodeBody(t, rec, &resp)
			assert.Equal(t, "new.std@test.cd", resp.Email)
			assert.Equal(t, user.RoleStudent, resp.Role)

			var info user.StudentResponse
			raw := marchallObj(t, resp.Info)
			assert.NoError(t, json.Unmarshal(raw, &info))
			assert.Equal(t, cls.ID, info.ClassID)
			assert.Equal(t, "a", info.Class)
			if assert.NotNil(t, info.YearLevel) {
				assert.Equal(t, 10, info.YearLevel.Year)
				assert.Equal(t, "Secondary School", info.YearLevel.EnglishName)
			}
		})
	}
}

func Test_studentApi_update(t *testing.T) {
	env := setup(t)

	admin := env.createAdmin(t, "admin@test.cd")
	cls := env.createClass(t, 10, "a")
	std := env.createStudent(t, "std@test.cd", cls)
	token := getToken(t, admin)

	t.Run("user not found", func(t *testing.T) {
		body := marchallObj(t, user.EditStudent{About: "loves math"})
		req, rec := newAuthRequest(http.MethodPut, "/v1/students/nope", token, body)
		env.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusNotFound,
			wantData: errData(t, http.StatusNotFound, "user not found"),
		}, rec)
	})

	t.Run("partial edit", func(t *testing.T) {
		body := marchallObj(t, user.EditStudent{About: "loves math", BloodGroup: "O+"})
		req, rec := newAuthRequest(http.MethodPut, "/v1/students/"+std.User.ID, token, body)
		env.app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp user.StudentResponse
		decodeBody(t, rec, &resp)
		assert.Equal(t, "loves math", resp.About)
		assert.Equal(t, "a", resp.Class) // untouched
		assert.Equal(t, "O+", resp.Health.BloodGroup)
	})
}

func Test_teacherApi_create(t *testing.T) {
	env := setup(t)

	admin := env.createAdmin(t, "admin@test.cd")
	body := marchallObj(t, user.NewTeacher{
		NewUser:       newUserBody("new.tch@test.cd"),
		Qualification: "BSc",
		Experience:    3,
		Address:       "5 School Ave",
		Subject:       "physics",
		Bio:           "teaches physics",
	})

	tests := []httpTest{
		{name: "auth required", body: body, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "ok", body: body, token: getToken(t, admin), wantCode: http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/teachers", tt.token, tt.body)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode != http.StatusCreated {
				return
			}
			var resp user.Response
			decodeBody(t, rec, &resp)
			assert.Equal(t, user.RoleTeacher, resp.Role)

			var info user.TeacherResponse
			raw := marchallObj(t, resp.Info)
			assert.NoError(t, json.Unmarshal(raw, &info))
			assert.Equal(t, "physics", info.Subject)
			assert.Equal(t, 3, info.Experience)
		})
	}
}

func Test_teacherApi_update(t *testing.T) {
	env := setup(t)

	admin := env.createAdmin(t, "admin@test.cd")
	tch := env.createTeacher(t, "tch@test.cd")

	body := marchallObj(t, user.EditTeacher{
		Qualification: "PhD",
		Experience:    6,
		Address:       "12 Main St",
		Subject:       "math",
		Bio:           "teaches math",
	})
	req, rec := newAuthRequest(http.MethodPut, "/v1/teachers/"+tch.User.ID, getToken(t, admin), body)
	env.app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp user.TeacherResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "PhD", resp.Qualification)
	assert.Equal(t, 6, resp.Experience)
}
