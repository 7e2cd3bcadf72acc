package echoapi

import (
	"context"
	"net/http"
	"sync"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/assignment"
	"github.com/darasahq/darasa/core/attendance"
	"github.com/darasahq/darasa/core/roster"
	"github.com/darasahq/darasa/core/stats"
)

type (
	ServerDeps struct {
		Address        string
		DisableReqLogs bool
		Logger         core.Logger
		AttendanceSvc  *attendance.Service
		AssignmentSvc  *assignment.Service
		StatsSvc       *stats.Service
		Validate       *validator.Validate
		Translator     ut.Translator
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
		// Errors receives any fatal error from the listener.
		Errors() <-chan error
		// ShutdownSignal is closed when an integrity fault demands a restart.
		ShutdownSignal() <-chan struct{}
	}

	server struct {
		deps *ServerDeps
		app  *echo.Echo

		errs         chan error
		shutdown     chan struct{}
		shutdownOnce sync.Once
	}
)

var _ Server = (*server)(nil)

func NewServer(deps *ServerDeps) Server {
	s := &server{
		deps:     deps,
		app:      echo.New(),
		errs:     make(chan error, 1),
		shutdown: make(chan struct{}),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(core.Conf.Debug || core.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = core.Conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)

	api := s.app.Group("/api", middleware.JWTWithConfig(appJWTConfig))
	staff := roleMiddleware(roster.RoleTeacher, roster.RoleAdmin)

	registerAttendanceAPI(api, staff, s.deps.AttendanceSvc, s.deps.Validate)
	registerAssignmentAPI(api, staff, s.deps.AssignmentSvc, s.deps.Validate)
	registerDashboardAPI(api, s.deps.StatsSvc)
}

func (s *server) Start() {
	s.errs <- s.app.Start(s.deps.Address)
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Errors() <-chan error {
	return s.errs
}

func (s *server) ShutdownSignal() <-chan struct{} {
	return s.shutdown
}

func (s *server) signalShutdown() {
	s.shutdownOnce.Do(func() { close(s.shutdown) })
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return jsonOK(ctx, "Welcome to "+core.Conf.AppName+" API!")
}
