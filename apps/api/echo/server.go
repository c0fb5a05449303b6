package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/mawingu/darasa/core"
	"github.com/mawingu/darasa/core/activity"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool
		Conf           *core.Config
		Logger         core.Logger
		ActivitySvc    activity.Service
		Validate       *validator.Validate
		Translator     ut.Translator
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		opts     *Options
		app      *echo.Echo
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts:     opts,
		app:      echo.New(),
		shutdown: make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(appJWTConfig(conf))

	registerActivityAPI(v1, jwt, s.opts.ActivitySvc, s.opts.Validate, s.opts.Translator)
}

func (s *server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- s.app.Start(s.opts.Address)
	}()

	select {
	case err := <-serverErrors:
		s.app.Logger.Fatal(err)
	case sig := <-s.shutdown:
		s.opts.Logger.Info("shutting down", sig)

		ctx, cancel := context.WithTimeout(context.Background(), s.opts.Conf.Server.ShutdownTimeout)
		defer cancel()
		if err := s.Stop(ctx); err != nil {
			_ = s.app.Close()
			s.app.Logger.Fatal(err)
		}
	}
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

// signalShutdown sends an application shutdown signal; used when an
// integrity issue is caught.
func (s *server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Darasa API!")
}
