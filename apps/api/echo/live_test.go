package echoapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/darasa/core/live"
)

func Test_liveApi_create(t *testing.T) {
	env := setup(t)

	cls := env.createClass(t, 10, "a")
	std := env.createStudent(t, "std@test.cd", cls)
	tch := env.createTeacher(t, "tch@test.cd")

	body := marchallObj(t, live.NewSession{Subject: "Math", Classes: []string{cls.ID}})

	tests := []httpTest{
		{name: "auth required", body: body, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "teacher required", body: body, token: getToken(t, std.User),
			wantCode: http.StatusForbidden, wantData: errData(t, http.StatusForbidden, "permission denied"),
		},
		{
			name: "subject required", body: marchallObj(t, live.NewSession{}), token: getToken(t, tch.User),
			wantCode: http.StatusBadRequest,
		},
		{name: "ok", body: body, token: getToken(t, tch.User), wantCode: http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/lives", tt.token, tt.body)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode != http.StatusCreated {
				return
			}
			var resp live.Session
			decodeBody(t, rec, &resp)
			assert.NotEmpty(t, resp.ID)
			assert.NotEmpty(t, resp.RoomID)
			assert.Equal(t, tch.User.ID, resp.TeacherID)
			assert.Equal(t, "math", resp.Subject) // lowercased
			assert.Equal(t, []string{cls.ID}, resp.Classes)

			t.Run("retrieve", func(t *testing.T) {
				req, rec := newAuthRequest(http.MethodGet, "/v1/lives/"+resp.ID, getToken(t, std.User))
				env.app.ServeHTTP(rec, req)

				assert.Equal(t, http.StatusOK, rec.Code)
				var got live.Session
				decodeBody(t, rec, &got)
				assert.Equal(t, resp.RoomID, got.RoomID)
			})
		})
	}

	t.Run("not found", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/lives/nope", getToken(t, std.User))
		env.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusNotFound,
			wantData: errData(t, http.StatusNotFound, "live session not found"),
		}, rec)
	})
}
