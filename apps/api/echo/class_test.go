package echoapi

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/darasa/core/class"
	"github.com/trezcool/darasa/core/user"
)

func Test_classApi_create(t *testing.T) {
	env := setup(t)

	admin := env.createAdmin(t, "admin@test.cd")
	cls := env.createClass(t, 10, "a")
	std := env.createStudent(t, "std@test.cd", cls)

	body := marchallObj(t, class.NewClass{Year: 11, Class: "B"})

	tests := []httpTest{
		{name: "auth required", body: body, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "admin required", body: body, token: getToken(t, std.User),
			wantCode: http.StatusForbidden, wantData: errData(t, http.StatusForbidden, "permission denied"),
		},
		{name: "ok", body: body, token: getToken(t, admin), wantCode: http.StatusCreated},
		{
			name: "duplicate (year, class)", body: body, token: getToken(t, admin),
			wantCode: http.StatusBadRequest, wantData: errData(t, http.StatusBadRequest, "this class is already existing"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/classes", tt.token, tt.body)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusCreated {
				var resp class.Class
				decodeBody(t, rec, &resp)
				assert.Equal(t, 11, resp.Year)
				assert.Equal(t, "b", resp.Class) // lowercased
				assert.NotEmpty(t, resp.ID)
			}
		})
	}

	t.Run("get all", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/classes", getToken(t, admin))
		env.app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp []class.Class
		decodeBody(t, rec, &resp)
		assert.Len(t, resp, 2)
	})
}

func Test_classApi_addStudents(t *testing.T) {
	env := setup(t)

	admin := env.createAdmin(t, "admin@test.cd")
	cls := env.createClass(t, 10, "a")
	std1 := env.createStudent(t, "std1@test.cd", cls)
	std2 := env.createStudent(t, "std2@test.cd", cls)
	tch := env.createTeacher(t, "tch@test.cd")
	token := getToken(t, admin)

	path := fmt.Sprintf("/v1/classes/%s/students", cls.ID)

	t.Run("duplicate in batch", func(t *testing.T) {
		body := marchallObj(t, class.AddMembers{Members: []string{std1.User.ID, std1.User.ID}})
		req, rec := newAuthRequest(http.MethodPost, path, token, body)
		env.app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp class.AddMembersResult
		decodeBody(t, rec, &resp)
		assert.Equal(t, []string{fmt.Sprintf("id %s is already existing in class", std1.User.ID)}, resp.Errors)
		assert.Equal(t, []string{std1.User.ID}, resp.Class.Students)
	})

	t.Run("wrong kind and unknown ids are reported per id", func(t *testing.T) {
		body := marchallObj(t, class.AddMembers{Members: []string{tch.User.ID, "lol", std2.User.ID}})
		req, rec := newAuthRequest(http.MethodPost, path, token, body)
		env.app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp class.AddMembersResult
		decodeBody(t, rec, &resp)
		assert.Equal(t, []string{
			fmt.Sprintf("id %s is not student", tch.User.ID),
			"id lol is not student",
		}, resp.Errors)
		assert.Equal(t, []string{std1.User.ID, std2.User.ID}, resp.Class.Students)
	})

	t.Run("already enrolled", func(t *testing.T) {
		body := marchallObj(t, class.AddMembers{Members: []string{std1.User.ID}})
		req, rec := newAuthRequest(http.MethodPost, path, token, body)
		env.app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp class.AddMembersResult
		decodeBody(t, rec, &resp)
		assert.Equal(t, []string{fmt.Sprintf("id %s is already existing in class", std1.User.ID)}, resp.Errors)
		assert.Len(t, resp.Class.Students, 2)
	})

	t.Run("class not found", func(t *testing.T) {
		body := marchallObj(t, class.AddMembers{Members: []string{std1.User.ID}})
		req, rec := newAuthRequest(http.MethodPost, "/v1/classes/lol/students", token, body)
		env.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusNotFound,
			wantData: errData(t, http.StatusNotFound, "class not found"),
		}, rec)
	})
}

func Test_classApi_addTeachers(t *testing.T) {
	env := setup(t)

	admin := env.createAdmin(t, "admin@test.cd")
	cls := env.createClass(t, 10, "a")
	tch := env.createTeacher(t, "tch@test.cd")
	token := getToken(t, admin)

	path := fmt.Sprintf("/v1/classes/%s/teachers", cls.ID)
	body := marchallObj(t, class.AddMembers{Members: []string{tch.User.ID}})

	req, rec := newAuthRequest(http.MethodPost, path, token, body)
	env.app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"err":null`) // full success
	var resp class.AddMembersResult
	decodeBody(t, rec, &resp)
	assert.Empty(t, resp.Errors)
	assert.Equal(t, []string{tch.User.ID}, resp.Class.Teachers)

	// enrolling back-links the class onto the teacher profile
	res, err := env.usrSvc.GetByID(req.Context(), tch.User.ID)
	assert.NoError(t, err)
	profile, err := res.Teacher(req.Context())
	assert.NoError(t, err)
	assert.True(t, profile.TakesClass(cls.ID))
}

func Test_classApi_retrieve(t *testing.T) {
	env := setup(t)

	admin := env.createAdmin(t, "admin@test.cd")
	cls := env.createClass(t, 10, "a")
	std := env.createStudent(t, "std@test.cd", cls)
	token := getToken(t, admin)

	body := marchallObj(t, class.AddMembers{Members: []string{std.User.ID}})
	req, rec := newAuthRequest(http.MethodPost, fmt.Sprintf("/v1/classes/%s/students", cls.ID), token, body)
	env.app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req, rec = newAuthRequest(http.MethodGet, "/v1/classes/"+cls.ID, token)
	env.app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		ID       string          `json:"id"`
		Year     int             `json:"year"`
		Class    string          `json:"class"`
		Students []user.Response `json:"students"`
	}
	decodeBody(t, rec, &resp)
	assert.Equal(t, cls.ID, resp.ID)
	assert.Len(t, resp.Students, 1)
	assert.Equal(t, "std@test.cd", resp.Students[0].Email)
}

func Test_classApi_destroy(t *testing.T) {
	env := setup(t)

	admin := env.createAdmin(t, "admin@test.cd")
	cls := env.createClass(t, 10, "a")

	req, rec := newAuthRequest(http.MethodDelete, "/v1/classes/"+cls.ID, getToken(t, admin))
	env.app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req, rec = newAuthRequest(http.MethodGet, "/v1/classes/"+cls.ID, getToken(t, admin))
	env.app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
