package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/assess"
	"github.com/trezcool/darasa/core/class"
	"github.com/trezcool/darasa/core/live"
	"github.com/trezcool/darasa/core/subject"
	"github.com/trezcool/darasa/core/user"
	emailsvc "github.com/trezcool/darasa/services/email"
	logsvc "github.com/trezcool/darasa/services/logger"
	mediasvc "github.com/trezcool/darasa/services/media"
	"github.com/trezcool/darasa/storage/inmem"
)

var errMissingToken = newErrorResponse(http.StatusUnauthorized, "missing or malformed jwt")

type testEnv struct {
	app *Server

	conf       *core.Config
	usrRepo    user.Repository
	usrSvc     *user.Service
	clsSvc     *class.Service
	assessSvc  *assess.Service
	subjectSvc *subject.Service
	liveSvc    *live.Service
	media      *mediasvc.MemStore
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	conf := core.NewConfig()
	conf.Debug = false
	conf.TestMode = true
	conf.SecretKey = []byte("secret")
	conf.Server.JWTExpirationDelta = 10 * time.Minute

	db := inmem.Open()
	usrRepo := inmem.NewUserRepository(db)
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	media := mediasvc.NewMemStore()

	usrSvc := user.NewService(usrRepo, mailSvc, conf)
	clsSvc := class.NewService(inmem.NewClassRepository(db), usrSvc)
	assessSvc := assess.NewService(inmem.NewAssessRepository(db), usrSvc, clsSvc)
	subjectSvc := subject.NewService(inmem.NewSubjectRepository(db), usrSvc, media)
	liveSvc := live.NewService(inmem.NewLiveRepository(db))

	app := NewServer(ServerDeps{
		Conf:           conf,
		Logger:         logsvc.NewStdLogger(log.New(ioutil.Discard, "", 0)),
		UserSvc:        usrSvc,
		ClassSvc:       clsSvc,
		AssessSvc:      assessSvc,
		SubjectSvc:     subjectSvc,
		LiveSvc:        liveSvc,
		MediaSvc:       media,
		DisableReqLogs: true,
	})

	return &testEnv{
		app:        app,
		conf:       conf,
		usrRepo:    usrRepo,
		usrSvc:     usrSvc,
		clsSvc:     clsSvc,
		assessSvc:  assessSvc,
		subjectSvc: subjectSvc,
		liveSvc:    liveSvc,
		media:      media,
	}
}

// Factories

func newUserBody(email string) user.NewUser {
	return user.NewUser{
		Email:           email,
		Password:        "G0od#Pass",
		PasswordConfirm: "G0od#Pass",
		FirstName:       "Awe",
		LastName:        "Some",
		Phone:           "0812345678",
		Gender:          user.GenderMale,
		DateOfBirth:     time.Date(2006, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (env *testEnv) createAdmin(t *testing.T, email string) user.User {
	t.Helper()
	now := time.Now().UTC()
	usr := user.User{
		Email:     email,
		FirstName: "Admin",
		LastName:  "User",
		Role:      user.RoleAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword("G0od#Pass"); err != nil {
		t.Fatalf("SetPassword() failed: %v", err)
	}
	usr, err := env.usrRepo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func (env *testEnv) createClass(t *testing.T, year int, name string) *class.Class {
	t.Helper()
	cls, err := env.clsSvc.Create(context.Background(), class.NewClass{Year: year, Class: name})
	if err != nil {
		t.Fatalf("clsSvc.Create() failed: %v", err)
	}
	return cls
}

func (env *testEnv) createStudent(t *testing.T, email string, cls *class.Class) *user.Resolved {
	t.Helper()
	ns := user.NewStudent{NewUser: newUserBody(email), ClassID: cls.ID}
	res, err := env.usrSvc.CreateStudent(context.Background(), ns, cls.Class, cls.Year)
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return res
}

func (env *testEnv) createTeacher(t *testing.T, email string) *user.Resolved {
	t.Helper()
	nt := user.NewTeacher{
		NewUser:       newUserBody(email),
		Qualification: "MSc",
		Experience:    5,
		Address:       "12 Main St",
		Subject:       "math",
		Bio:           "teaches math",
	}
	res, err := env.usrSvc.CreateTeacher(context.Background(), nt)
	if err != nil {
		t.Fatalf("CreateTeacher() failed: %v", err)
	}
	return res
}

// Request helpers

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := GenerateToken(GetUserClaims(usr))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func errData(t *testing.T, code int, msg interface{}) []byte {
	t.Helper()
	return marchallObj(t, newErrorResponse(code, msg))
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	t.Helper()
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decoding response body: %v (%s)", err, rec.Body.String())
	}
}
