package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/assess"
	"github.com/trezcool/darasa/core/class"
	"github.com/trezcool/darasa/core/live"
	"github.com/trezcool/darasa/core/subject"
	"github.com/trezcool/darasa/core/user"
)

// ServerDeps carries everything the API server needs to run.
type ServerDeps struct {
	Conf           *core.Config
	Logger         core.Logger
	UserSvc        *user.Service
	ClassSvc       *class.Service
	AssessSvc      *assess.Service
	SubjectSvc     *subject.Service
	LiveSvc        *live.Service
	MediaSvc       core.MediaStore
	DisableReqLogs bool
}

type Server struct {
	deps ServerDeps
	app  *echo.Echo

	errs     chan error
	shutdown chan os.Signal
}

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		errs:     make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.signalShutdown)
	s.app.HideBanner = true
	s.app.Debug = conf.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	authMW, authQueryMW := ConfigureAuth(conf)

	registerAuthAPI(v1, s.deps.UserSvc)
	registerUserAPI(v1, authMW, s.deps.UserSvc)
	registerStudentAPI(v1, authMW, s.deps.UserSvc, s.deps.ClassSvc)
	registerTeacherAPI(v1, authMW, s.deps.UserSvc)
	registerClassAPI(v1, authMW, s.deps.ClassSvc)
	registerAssessAPI(v1, authMW, s.deps.AssessSvc, s.deps.UserSvc)
	registerSubjectAPI(v1, authMW, authQueryMW, s.deps.SubjectSvc, s.deps.UserSvc, s.deps.MediaSvc)
	registerLiveAPI(v1, authMW, s.deps.LiveSvc)
}

// Start runs the listener; server errors land on Errors() and interrupt
// signals on ShutdownSignal().
func (s *Server) Start() {
	signal.Notify(s.shutdown, syscall.SIGINT, syscall.SIGTERM)
	if err := s.app.Start(s.deps.Conf.ServerAddress()); err != nil && err != http.ErrServerClosed {
		s.errs <- err
	}
}

func (s *Server) Errors() <-chan error { return s.errs }

func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

// signalShutdown requests a graceful stop from within a request, used when an
// unrecoverable error bubbles up to the error handler.
func (s *Server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Darasa API!")
}
